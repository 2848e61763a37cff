package jpx

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/zayg21-pixel/pdf-pixel-sub010/internal/rasterr"
)

func buildRawCodestream(width, height uint32, numComponents uint16) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint16(SOC))
	binary.Write(&buf, binary.BigEndian, uint16(SIZ))
	binary.Write(&buf, binary.BigEndian, uint16(38+3*numComponents)) // Lsiz
	binary.Write(&buf, binary.BigEndian, uint16(0))                  // Rsiz
	binary.Write(&buf, binary.BigEndian, width)                      // Xsiz
	binary.Write(&buf, binary.BigEndian, height)                     // Ysiz
	binary.Write(&buf, binary.BigEndian, uint32(0))                  // XOsiz
	binary.Write(&buf, binary.BigEndian, uint32(0))                  // YOsiz
	binary.Write(&buf, binary.BigEndian, width)                      // XTsiz
	binary.Write(&buf, binary.BigEndian, height)                     // YTsiz
	binary.Write(&buf, binary.BigEndian, uint32(0))                  // XTOsiz
	binary.Write(&buf, binary.BigEndian, uint32(0))                  // YTOsiz
	binary.Write(&buf, binary.BigEndian, numComponents)
	for i := uint16(0); i < numComponents; i++ {
		buf.WriteByte(7) // Ssiz: 8-bit unsigned
		buf.WriteByte(1) // XRsiz
		buf.WriteByte(1) // YRsiz
	}
	binary.Write(&buf, binary.BigEndian, uint16(SOT))
	return buf.Bytes()
}

func TestParseHeaderRawCodestream(t *testing.T) {
	cs := buildRawCodestream(64, 32, 3)
	hdr, codestream, err := ParseHeader(cs)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if hdr.Width != 64 || hdr.Height != 32 {
		t.Fatalf("got %dx%d, want 64x32", hdr.Width, hdr.Height)
	}
	if hdr.NumComponents != 3 {
		t.Fatalf("got %d components, want 3", hdr.NumComponents)
	}
	if hdr.Components[0].Precision() != 8 || hdr.Components[0].Signed() {
		t.Fatalf("unexpected component 0: %+v", hdr.Components[0])
	}
	if len(codestream) != len(cs) {
		t.Fatalf("raw codestream should pass through unchanged")
	}
}

func TestParseHeaderJP2Wrapped(t *testing.T) {
	cs := buildRawCodestream(16, 16, 1)

	var f bytes.Buffer
	// JP2 signature box.
	f.Write([]byte{0x00, 0x00, 0x00, 0x0C, 'j', 'P', ' ', ' ', 0x0D, 0x0A, 0x87, 0x0A})
	// ftyp box (content irrelevant to header-only intake, just needs valid framing).
	ftypContent := []byte("jp2 ")
	binary.Write(&f, binary.BigEndian, uint32(8+len(ftypContent)))
	f.Write([]byte("ftyp"))
	f.Write(ftypContent)
	// jp2c box wrapping the codestream.
	binary.Write(&f, binary.BigEndian, uint32(8+len(cs)))
	f.Write([]byte("jp2c"))
	f.Write(cs)

	hdr, _, err := ParseHeader(f.Bytes())
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if hdr.Width != 16 || hdr.Height != 16 || hdr.NumComponents != 1 {
		t.Fatalf("unexpected header %+v", hdr)
	}
}

func TestDecodeWithoutExternalDecoderIsUnsupported(t *testing.T) {
	cs := buildRawCodestream(8, 8, 1)
	_, err := Decode(cs, nil)
	if err == nil {
		t.Fatalf("expected Unsupported error with no registered decoder")
	}
	if !rasterr.Is(err, rasterr.Unsupported) {
		t.Fatalf("got %v, want Unsupported kind", err)
	}
}

type stubDecoder struct {
	img *Image
}

func (s stubDecoder) Decode(codestream []byte, hdr *Header) (*Image, error) {
	return s.img, nil
}

func TestDecodeDelegatesToExternalDecoder(t *testing.T) {
	cs := buildRawCodestream(4, 2, 1)
	want := &Image{Width: 4, Height: 2, NumComponents: 1, Rows: [][]byte{{1, 2, 3, 4}, {5, 6, 7, 8}}}
	got, err := Decode(cs, stubDecoder{img: want})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != want {
		t.Fatalf("expected external decoder's image to be returned verbatim")
	}
}
