package icc

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func putS15Fixed16(buf *bytes.Buffer, v float32) {
	binary.Write(buf, binary.BigEndian, int32(v*65536))
}

func padTag(buf *bytes.Buffer) {
	for buf.Len()%4 != 0 {
		buf.WriteByte(0)
	}
}

// buildMinimalRGBProfile assembles a matrix/TRC-only ICC profile: header,
// tag table, wtpt (D50), rXYZ/gXYZ/bXYZ (identity-ish matrix columns), and
// rTRC/gTRC/bTRC as curv gamma=1 (linear), so ToPCS's fallback path can be
// checked against a matrix multiply whose result is easy to hand-verify.
func buildMinimalRGBProfile(t *testing.T) []byte {
	t.Helper()

	type tagDef struct {
		sig  string
		body []byte
	}

	xyzTag := func(x, y, z float32) []byte {
		var b bytes.Buffer
		b.WriteString("XYZ ")
		b.Write([]byte{0, 0, 0, 0})
		putS15Fixed16(&b, x)
		putS15Fixed16(&b, y)
		putS15Fixed16(&b, z)
		return b.Bytes()
	}

	gammaTag := func(g float32) []byte {
		var b bytes.Buffer
		b.WriteString("curv")
		b.Write([]byte{0, 0, 0, 0})
		binary.Write(&b, binary.BigEndian, uint32(1))
		binary.Write(&b, binary.BigEndian, uint16(g*256))
		padTag(&b)
		return b.Bytes()
	}

	tags := []tagDef{
		{"wtpt", xyzTag(0.9642, 1.0, 0.8249)},
		{"rXYZ", xyzTag(1, 0, 0)},
		{"gXYZ", xyzTag(0, 1, 0)},
		{"bXYZ", xyzTag(0, 0, 1)},
		{"rTRC", gammaTag(1)},
		{"gTRC", gammaTag(1)},
		{"bTRC", gammaTag(1)},
	}

	header := make([]byte, headerSize)
	copy(header[16:20], "RGB ")
	copy(header[20:24], "XYZ ")
	binary.BigEndian.PutUint16(header[64:66], 1) // relative colorimetric

	tableSize := 4 + len(tags)*12
	offset := headerSize + tableSize

	var table bytes.Buffer
	binary.Write(&table, binary.BigEndian, uint32(len(tags)))

	var data bytes.Buffer
	for _, tg := range tags {
		binary.Write(&table, binary.BigEndian, [4]byte{tg.sig[0], tg.sig[1], tg.sig[2], tg.sig[3]})
		binary.Write(&table, binary.BigEndian, uint32(offset+data.Len()))
		binary.Write(&table, binary.BigEndian, uint32(len(tg.body)))
		data.Write(tg.body)
	}

	var out bytes.Buffer
	out.Write(header)
	out.Write(table.Bytes())
	out.Write(data.Bytes())
	return out.Bytes()
}

func TestParseMinimalRGBProfile(t *testing.T) {
	p, err := Parse(buildMinimalRGBProfile(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.DataColorSpace != "RGB" {
		t.Fatalf("DataColorSpace = %q, want RGB", p.DataColorSpace)
	}
	if p.RenderingIntent != RelativeColorimetric {
		t.Fatalf("RenderingIntent = %v, want RelativeColorimetric", p.RenderingIntent)
	}
	if !p.hasMatrix {
		t.Fatalf("expected matrix to be populated")
	}
}

func TestToPCSMatrixFallbackIdentityPrimaries(t *testing.T) {
	p, err := Parse(buildMinimalRGBProfile(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// Pure red at full intensity should land near the profile's rXYZ column
	// before adaptation; since src/dst whitepoint both equal D50 here, the
	// adaptation matrix is near-identity.
	xyz, err := p.ToPCS([]float32{1, 0, 0}, RelativeColorimetric)
	if err != nil {
		t.Fatalf("ToPCS: %v", err)
	}
	if xyz[0] < 0.9 || xyz[0] > 1.1 {
		t.Fatalf("red primary X = %v, want ~1.0", xyz[0])
	}
}

func TestToPCSAbsoluteSkipsAdaptation(t *testing.T) {
	p, err := Parse(buildMinimalRGBProfile(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := p.ToPCS([]float32{1, 1, 1}, AbsoluteColorimetric); err != nil {
		t.Fatalf("ToPCS absolute: %v", err)
	}
}
