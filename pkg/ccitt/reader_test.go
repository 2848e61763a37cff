package ccitt_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/ccitt"
)

// TestG4SingleRowTruncatedTailRecoversWhite exercises the conservative tail
// recovery: a G4 stream with too few bits to resolve even one mode code
// still yields a fully white row rather than an error.
func TestG4SingleRowTruncatedTailRecoversWhite(t *testing.T) {
	out, err := ccitt.Decode(bytes.NewReader([]byte{0x00}), ccitt.Params{
		Columns: 8,
		K:       -1,
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, err := io.ReadAll(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, []byte{0xFF}) {
		t.Fatalf("got % x, want FF", got)
	}
}

// TestG3OneDTwoRowsWithEOL decodes two pure 1-D rows, each introduced by an
// explicit EOL and consisting of a single white run spanning all 16 columns.
func TestG3OneDTwoRowsWithEOL(t *testing.T) {
	input := []byte{0x00, 0x1A, 0x80, 0x06, 0xA0}
	out, err := ccitt.Decode(bytes.NewReader(input), ccitt.Params{
		Columns: 16,
		K:       0,
		Rows:    2,
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, err := io.ReadAll(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

// TestBlackIs1InvertsPolarity checks the bit-polarity invariant: flipping
// BlackIs1 flips every output bit for an all-white row.
func TestBlackIs1InvertsPolarity(t *testing.T) {
	out, err := ccitt.Decode(bytes.NewReader([]byte{0x00}), ccitt.Params{
		Columns:  8,
		K:        -1,
		BlackIs1: true,
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, err := io.ReadAll(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, []byte{0x00}) {
		t.Fatalf("got % x, want 00 (white=0 under BlackIs1)", got)
	}
}

// TestRunSumInvariant decodes a handcrafted 2-D row (white run of 3 then
// black run of 5 via a Horizontal mode) and checks the runs sum to columns.
func TestRunSumInvariant(t *testing.T) {
	// Horizontal mode "001" (3 bits), then white run-length-3 code "1000"(4
	// bits, see whiteTerm run=3), then black run-length-5 code "0011"(4
	// bits, see blackTerm run=5), over columns=8: 3 white + 5 black = 8.
	// Bit string: 001 1000 0011 (then zero pad) -> group into bytes.
	// bits: 0,0,1,1,0,0,0,0,0,1,1,1,... pad with zero bits to a byte boundary.
	bits := []byte{0, 0, 1, 1, 0, 0, 0, 0, 0, 1, 1}
	for len(bits)%8 != 0 {
		bits = append(bits, 0)
	}
	var buf bytes.Buffer
	for i := 0; i < len(bits); i += 8 {
		var b byte
		for j := 0; j < 8; j++ {
			b = b<<1 | bits[i+j]
		}
		buf.WriteByte(b)
	}

	out, err := ccitt.Decode(bytes.NewReader(buf.Bytes()), ccitt.Params{
		Columns: 8,
		K:       -1,
		Rows:    1,
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, err := io.ReadAll(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	// 3 white (bit=1) then 5 black (bit=0): 111 00000 -> 0xE0.
	want := []byte{0xE0}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}
