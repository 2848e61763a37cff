package ccitt

import "testing"

// TestRunTableSpotChecks verifies a handful of known T.4 codewords resolve
// to the expected run length at every possible 13-bit suffix.
func TestRunTableSpotChecks(t *testing.T) {
	cases := []struct {
		table   []CcittFaxCode
		bits    uint8
		code    uint16
		run     uint16
		makeUp  bool
	}{
		{whiteTable, 8, 0x35, 0, false},
		{whiteTable, 5, 0x1B, 64, true},
		{blackTable, 3, 0x02, 1, false},
		{blackTable, 10, 0x0F, 64, true},
		{whiteTable, 9, 0x9B, 1728, true},
	}

	for _, c := range cases {
		shift := tableBits - int(c.bits)
		base := c.code << uint(shift)
		entry := c.table[base]
		if entry.BitLength != c.bits || entry.RunLength != c.run || entry.IsMakeUp != c.makeUp {
			t.Fatalf("code %#x/%d bits: got %+v, want run=%d makeUp=%v", c.code, c.bits, entry, c.run, c.makeUp)
		}
		// every suffix of the remaining bits must resolve to the same entry
		for suffix := 0; suffix < 1<<uint(shift); suffix++ {
			if got := c.table[base|uint16(suffix)]; got != entry {
				t.Fatalf("suffix %d of code %#x: got %+v, want %+v", suffix, c.code, got, entry)
			}
		}
	}
}

// TestEOLCodeRecognized checks the EOL slot (eleven 0s + 1) is flagged.
func TestEOLCodeRecognized(t *testing.T) {
	entry := whiteTable[0x001<<(tableBits-12)]
	if !entry.IsEndOfLine {
		t.Fatalf("expected EOL entry, got %+v", entry)
	}
	entry = blackTable[0x001<<(tableBits-12)]
	if !entry.IsEndOfLine {
		t.Fatalf("expected EOL entry in black table, got %+v", entry)
	}
}
