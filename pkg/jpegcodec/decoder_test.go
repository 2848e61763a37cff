package jpegcodec_test

import (
	"bytes"
	"testing"

	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/jpegcodec"
)

// buildMinimalBaselineJPEG assembles a hand-crafted single-component 8x8
// baseline JPEG: DC coefficient 64 with quant[0]=1 and all AC coefficients
// zero, matching the §8 literal decode scenario (every pixel decodes to
// 128+64=192).
func buildMinimalBaselineJPEG() []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8}) // SOI

	// DQT: one 8-bit precision table, id 0. DC entry (zig-zag index 0) = 1,
	// every AC entry = 64 (unused since all AC coefficients are zero).
	buf.Write([]byte{0xFF, 0xDB, 0x00, 0x43, 0x00, 0x01})
	for i := 0; i < 63; i++ {
		buf.WriteByte(0x40)
	}

	// DHT DC table 0: single symbol 7 (size category) at the 7-bit code
	// 0000000.
	buf.Write([]byte{
		0xFF, 0xC4, 0x00, 0x14, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x07,
	})

	// DHT AC table 0: single symbol 0x00 (EOB) at the 2-bit code 00.
	buf.Write([]byte{
		0xFF, 0xC4, 0x00, 0x14, 0x10,
		0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00,
	})

	// SOF0: 8x8, 1 component, no subsampling, quant table 0.
	buf.Write([]byte{
		0xFF, 0xC0, 0x00, 0x0B,
		0x08, 0x00, 0x08, 0x00, 0x08,
		0x01, 0x01, 0x11, 0x00,
	})

	// SOS: component 1, DC table 0 / AC table 0, full spectral band.
	buf.Write([]byte{
		0xFF, 0xDA, 0x00, 0x08,
		0x01, 0x01, 0x00,
		0x00, 0x3F, 0x00,
	})

	// Entropy data: DC code "0000000" + value "1000000" (=64) + AC EOB "00".
	buf.Write([]byte{0x01, 0x00})

	buf.Write([]byte{0xFF, 0xD9}) // EOI
	return buf.Bytes()
}

func TestDecodeMinimalBaselineDCOnly(t *testing.T) {
	img, err := jpegcodec.Decode(bytes.NewReader(buildMinimalBaselineJPEG()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Width != 8 || img.Height != 8 {
		t.Fatalf("got %dx%d, want 8x8", img.Width, img.Height)
	}
	if img.NumComponents != 1 {
		t.Fatalf("got %d components, want 1", img.NumComponents)
	}
	if len(img.Rows) != 8 {
		t.Fatalf("got %d rows, want 8", len(img.Rows))
	}
	for y, row := range img.Rows {
		if len(row) != 8 {
			t.Fatalf("row %d length %d, want 8", y, len(row))
		}
		for x, v := range row {
			if v != 192 {
				t.Fatalf("pixel (%d,%d) = %d, want 192", x, y, v)
			}
		}
	}
}
