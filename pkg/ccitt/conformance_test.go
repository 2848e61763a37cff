package ccitt_test

import (
	"bytes"
	"image"
	"testing"

	ximage "golang.org/x/image/ccitt"

	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/ccitt"
)

// TestConformsToXImageCCITTGroup4 cross-checks a handcrafted Group 4 row
// (the same Horizontal-mode fixture as TestRunSumInvariant: a white run of
// 3 followed by a black run of 5, over 8 columns) against
// golang.org/x/image/ccitt, an independent Go implementation of the same
// ITU-T T.6 coding. Both decoders must agree pixel-for-pixel on which
// columns are black and which are white.
func TestConformsToXImageCCITTGroup4(t *testing.T) {
	input := []byte{0x30, 0x60}

	ours, err := ccitt.Decode(bytes.NewReader(input), ccitt.Params{
		Columns: 8,
		Rows:    1,
		K:       -1,
	})
	if err != nil {
		t.Fatalf("ccitt.Decode: %v", err)
	}
	var oursBuf bytes.Buffer
	if _, err := oursBuf.ReadFrom(ours); err != nil {
		t.Fatalf("read ours: %v", err)
	}
	if oursBuf.Len() != 1 {
		t.Fatalf("got %d row bytes, want 1", oursBuf.Len())
	}
	ourRow := oursBuf.Bytes()[0]

	gray := image.NewGray(image.Rect(0, 0, 8, 1))
	if err := ximage.DecodeIntoGray(gray, bytes.NewReader(input), ximage.MSB, ximage.Group4, &ximage.Options{}); err != nil {
		t.Fatalf("x/image/ccitt.DecodeIntoGray: %v", err)
	}

	for col := 0; col < 8; col++ {
		ourWhite := ourRow&(0x80>>uint(col)) != 0
		refWhite := gray.Pix[col] != 0
		if ourWhite != refWhite {
			t.Fatalf("column %d: ours white=%v, x/image/ccitt white=%v", col, ourWhite, refWhite)
		}
	}
}
