package cmap

import "testing"

func TestLookupCIDAcrossRanges(t *testing.T) {
	cm, err := NewCMap([]CidRange{
		{Length: 2, StartCode: 0x0000, EndCode: 0x00FF, StartCID: 1},
		{Length: 2, StartCode: 0x0100, EndCode: 0x01FF, StartCID: 257},
		{Length: 1, StartCode: 0x20, EndCode: 0x7E, StartCID: 1000},
	}, nil)
	if err != nil {
		t.Fatalf("NewCMap: %v", err)
	}

	cases := []struct {
		code   uint32
		length int
		want   uint32
	}{
		{0x0000, 2, 1},
		{0x00FF, 2, 256},
		{0x0100, 2, 257},
		{0x01FF, 2, 512},
		{0x41, 1, 1000 + (0x41 - 0x20)},
	}
	for _, c := range cases {
		got, ok := cm.LookupCID(c.code, c.length)
		if !ok || got != c.want {
			t.Fatalf("LookupCID(%#x, len=%d) = (%d, %v), want %d", c.code, c.length, got, ok, c.want)
		}
	}

	if _, ok := cm.LookupCID(0x0200, 2); ok {
		t.Fatalf("expected miss for code outside any range")
	}
	if _, ok := cm.LookupCID(0x0000, 4); ok {
		t.Fatalf("expected miss for unregistered length partition")
	}
}

func TestLookupUnicodeRange(t *testing.T) {
	cm, err := NewCMap(nil, []UnicodeRange{
		{Length: 2, StartCode: 0x0041, EndCode: 0x005A, StartUnicode: 'A'},
	})
	if err != nil {
		t.Fatalf("NewCMap: %v", err)
	}
	r, ok := cm.LookupUnicode(0x0042, 2)
	if !ok || r != 'B' {
		t.Fatalf("LookupUnicode(0x42) = (%q, %v), want ('B', true)", r, ok)
	}
}

func TestNewCMapRejectsInvalidRange(t *testing.T) {
	if _, err := NewCMap([]CidRange{{Length: 5, StartCode: 0, EndCode: 1, StartCID: 0}}, nil); err == nil {
		t.Fatalf("expected error for length outside {1,2,3,4}")
	}
	if _, err := NewCMap([]CidRange{{Length: 2, StartCode: 5, EndCode: 1, StartCID: 0}}, nil); err == nil {
		t.Fatalf("expected error for start > end")
	}
}

func TestDecodeUTF16BEDestination(t *testing.T) {
	r, err := DecodeUTF16BEDestination([]byte{0x00, 0x41})
	if err != nil {
		t.Fatalf("DecodeUTF16BEDestination: %v", err)
	}
	if r != 'A' {
		t.Fatalf("got %q, want 'A'", r)
	}
}

func TestEncodingDifferences(t *testing.T) {
	e := NewEncoding(StandardEncoding, []DifferenceEntry{
		{Code: 0x41, Name: "Agrave"},
		{Code: -1, Name: "Aacute"},
	})
	if got := e.GlyphName(0x41); got != "Agrave" {
		t.Fatalf("code 0x41 = %q, want Agrave", got)
	}
	if got := e.GlyphName(0x42); got != "Aacute" {
		t.Fatalf("code 0x42 = %q, want Aacute", got)
	}
	if got := e.GlyphName(0x43); got != "C" {
		t.Fatalf("code 0x43 = %q, want C (unmodified base)", got)
	}
}
