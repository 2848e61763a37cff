// Package icc implements the ICC color engine: profile header and tag table
// parsing, tone-reproduction-curve evaluators, 3-D CLUT interpolation, the
// matrix/chromatic-adaptation chain, and rendering-intent selection.
package icc

import (
	"encoding/binary"

	"github.com/zayg21-pixel/pdf-pixel-sub010/internal/rasterr"
)

const headerSize = 128

// Profile is a parsed ICC profile: header fields plus whichever tags this
// engine understands. Tags it doesn't recognize are skipped, per spec.
type Profile struct {
	raw []byte

	DataColorSpace string
	PCS            string
	RenderingIntent Intent

	WhitePoint XYZ
	BlackPoint XYZ
	HasBlackPoint bool

	Matrix RGBMatrix
	hasMatrix bool

	RedTRC, GreenTRC, BlueTRC TRC
	GrayTRC                   TRC

	ChromaticAdaptation Matrix3
	hasChad              bool

	AToB [4]*Pipeline // indexed by Intent; nil when the tag is absent
}

// Intent is an ICC rendering intent.
type Intent int

const (
	Perceptual Intent = iota
	RelativeColorimetric
	Saturation
	AbsoluteColorimetric
)

type XYZ struct{ X, Y, Z float32 }

// tagEntry is one row of the tag table: a 4-byte signature plus an offset
// and size into the profile's byte stream.
type tagEntry struct {
	sig  string
	off  uint32
	size uint32
}

// Parse reads a binary ICC profile (ICC.1:2010 layout): a fixed 128-byte
// header followed by a tag count and tag table, as used by PDF ICCBased
// color spaces and JPEG/JP2 embedded profiles.
func Parse(b []byte) (*Profile, error) {
	const op = "icc.Parse"
	if len(b) < headerSize+4 {
		return nil, rasterr.New(rasterr.Truncated, op, "profile shorter than header (%d bytes)", len(b))
	}

	p := &Profile{raw: b}
	p.DataColorSpace = trimSig(b[16:20])
	p.PCS = trimSig(b[20:24])
	p.RenderingIntent = parseIntent(binary.BigEndian.Uint16(b[64:66]))

	tags, err := p.readTagTable()
	if err != nil {
		return nil, err
	}

	if e, ok := tags["wtpt"]; ok {
		p.WhitePoint, err = p.readXYZTag(e)
		if err != nil {
			return nil, err
		}
	} else {
		p.WhitePoint = D50
	}
	if e, ok := tags["bkpt"]; ok {
		p.BlackPoint, err = p.readXYZTag(e)
		if err == nil {
			p.HasBlackPoint = true
		}
	}

	if e, ok := tags["chad"]; ok {
		if m, err := p.readS15Fixed16Matrix(e); err == nil {
			p.ChromaticAdaptation = m
			p.hasChad = true
		}
	}
	if !p.hasChad {
		p.ChromaticAdaptation = bradfordAdaptation(p.WhitePoint, D50)
	}

	rx, rok := tags["rXYZ"]
	gx, gok := tags["gXYZ"]
	bx, bok := tags["bXYZ"]
	if rok && gok && bok {
		rc, err1 := p.readXYZTag(rx)
		gc, err2 := p.readXYZTag(gx)
		bc, err3 := p.readXYZTag(bx)
		if err1 == nil && err2 == nil && err3 == nil {
			p.Matrix = RGBMatrix{R: rc, G: gc, B: bc}
			p.hasMatrix = true
		}
	}

	if e, ok := tags["rTRC"]; ok {
		if p.RedTRC, err = p.readTRCTag(e); err != nil {
			return nil, err
		}
	}
	if e, ok := tags["gTRC"]; ok {
		if p.GreenTRC, err = p.readTRCTag(e); err != nil {
			return nil, err
		}
	}
	if e, ok := tags["bTRC"]; ok {
		if p.BlueTRC, err = p.readTRCTag(e); err != nil {
			return nil, err
		}
	}
	if e, ok := tags["kTRC"]; ok {
		if p.GrayTRC, err = p.readTRCTag(e); err != nil {
			return nil, err
		}
	}

	// AToB tag -> Intent mapping follows ICC convention: AToB0 is perceptual,
	// AToB1 is (relative) colorimetric and also serves absolute colorimetric
	// (which differs only in whether the fallback path white-point-adapts),
	// AToB2 is saturation.
	aToBTagForIntent := [4]string{"A2B0", "A2B1", "A2B2", "A2B1"}
	for i, name := range aToBTagForIntent {
		if e, ok := tags[name]; ok {
			pipe, err := p.readAToBTag(e)
			if err == nil {
				p.AToB[i] = pipe
			}
		}
	}

	return p, nil
}

func (p *Profile) readTagTable() (map[string]tagEntry, error) {
	const op = "icc.readTagTable"
	b := p.raw
	count := binary.BigEndian.Uint32(b[headerSize:])
	const maxTags = 256
	if count > maxTags {
		return nil, rasterr.New(rasterr.Oversize, op, "tag count %d exceeds cap", count)
	}
	tags := make(map[string]tagEntry, count)
	j := headerSize + 4
	for i := uint32(0); i < count; i++ {
		if j+12 > len(b) {
			return nil, rasterr.New(rasterr.Truncated, op, "tag table entry %d out of bounds", i)
		}
		sig := trimSig(b[j : j+4])
		off := binary.BigEndian.Uint32(b[j+4:])
		size := binary.BigEndian.Uint32(b[j+8:])
		tags[sig] = tagEntry{sig: sig, off: off, size: size}
		j += 12
	}
	return tags, nil
}

func (p *Profile) tagBytes(e tagEntry) ([]byte, error) {
	const op = "icc.tagBytes"
	end := uint64(e.off) + uint64(e.size)
	if e.off == 0 || end > uint64(len(p.raw)) {
		return nil, rasterr.New(rasterr.Truncated, op, "tag %s out of bounds (off=%d size=%d len=%d)", e.sig, e.off, e.size, len(p.raw))
	}
	return p.raw[e.off:end], nil
}

// readXYZTag reads an XYZType tag: 8-byte header (signature, reserved)
// followed by one s15Fixed16Number triple.
func (p *Profile) readXYZTag(e tagEntry) (XYZ, error) {
	b, err := p.tagBytes(e)
	if err != nil {
		return XYZ{}, err
	}
	if len(b) < 20 {
		return XYZ{}, rasterr.New(rasterr.Truncated, "icc.readXYZTag", "XYZType tag %s too short (%d bytes)", e.sig, len(b))
	}
	x, y, z := readXYZTriple(b[8:])
	return XYZ{x, y, z}, nil
}

func (p *Profile) readS15Fixed16Matrix(e tagEntry) (Matrix3, error) {
	b, err := p.tagBytes(e)
	if err != nil {
		return Matrix3{}, err
	}
	if len(b) < 8+9*4 {
		return Matrix3{}, rasterr.New(rasterr.Truncated, "icc.readS15Fixed16Matrix", "s15Fixed16ArrayType tag %s too short", e.sig)
	}
	var m Matrix3
	off := 8
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m[r][c] = s15Fixed16(binary.BigEndian.Uint32(b[off:]))
			off += 4
		}
	}
	return m, nil
}

func readXYZTriple(b []byte) (x, y, z float32) {
	x = s15Fixed16(binary.BigEndian.Uint32(b[0:]))
	y = s15Fixed16(binary.BigEndian.Uint32(b[4:]))
	z = s15Fixed16(binary.BigEndian.Uint32(b[8:]))
	return
}

func s15Fixed16(v uint32) float32 {
	return float32(int32(v)) / 65536
}

func trimSig(b []byte) string {
	n := len(b)
	for n > 0 && b[n-1] == 0x20 {
		n--
	}
	return string(b[:n])
}

func parseIntent(v uint16) Intent {
	switch v {
	case 1:
		return RelativeColorimetric
	case 2:
		return Saturation
	case 3:
		return AbsoluteColorimetric
	default:
		return Perceptual
	}
}

// D50 is the PCS illuminant used as the ICC adaptation target.
var D50 = XYZ{X: 0.9642, Y: 1.0, Z: 0.8249}

// D65 is the sRGB reference white.
var D65 = XYZ{X: 0.9505, Y: 1.0, Z: 1.0890}
