package icc

import (
	"encoding/binary"
	"math"

	"github.com/zayg21-pixel/pdf-pixel-sub010/internal/rasterr"
)

// TRC is a tone reproduction curve: a monotone function [0,1] -> [0,1].
type TRC interface {
	Eval(x float32) float32
}

// IdentityTRC is used when a curv tag declares count=0.
type IdentityTRC struct{}

func (IdentityTRC) Eval(x float32) float32 { return x }

// GammaTRC implements curv count=1 (u8Fixed8 gamma); parametric curves,
// type 0 included, use ParametricTRC.
type GammaTRC struct{ G float32 }

func (t GammaTRC) Eval(x float32) float32 {
	if x <= 0 {
		return 0
	}
	return powApprox(x, t.G)
}

// SampledTRC implements curv count>=2: a uniformly-spaced lookup table
// interpolated linearly between entries. Per the monotonicity invariant,
// tables shorter than minSampledLen are resampled up at construction.
type SampledTRC struct {
	samples []float32 // normalized to [0,1], length >= minSampledLen
}

const minSampledLen = 1024

func NewSampledTRC(raw []uint16) SampledTRC {
	if len(raw) == 0 {
		return SampledTRC{samples: []float32{0, 1}}
	}
	norm := make([]float32, len(raw))
	for i, v := range raw {
		norm[i] = float32(v) / 65535
	}
	if len(norm) >= minSampledLen {
		return SampledTRC{samples: norm}
	}
	return SampledTRC{samples: resample(norm, minSampledLen)}
}

func resample(src []float32, n int) []float32 {
	out := make([]float32, n)
	if len(src) == 1 {
		for i := range out {
			out[i] = src[0]
		}
		return out
	}
	last := float32(len(src) - 1)
	for i := 0; i < n; i++ {
		pos := float32(i) / float32(n-1) * last
		out[i] = lerpTable(src, pos)
	}
	return out
}

func lerpTable(t []float32, pos float32) float32 {
	if pos <= 0 {
		return t[0]
	}
	last := len(t) - 1
	if pos >= float32(last) {
		return t[last]
	}
	i0 := int(pos)
	frac := pos - float32(i0)
	return t[i0] + (t[i0+1]-t[i0])*frac
}

func (t SampledTRC) Eval(x float32) float32 {
	if x < 0 {
		x = 0
	}
	if x > 1 {
		x = 1
	}
	pos := x * float32(len(t.samples)-1)
	return lerpTable(t.samples, pos)
}

// ParametricTRC implements the five ICC/PDF parametric curve types. Params
// holds exactly the fields that type uses; unused fields are zero.
type ParametricTRC struct {
	Type       int
	G, A, B, C, D, E, F float32
}

func (t ParametricTRC) Eval(x float32) float32 {
	switch t.Type {
	case 0:
		return clamp01(powApprox(nonneg(x), t.G))
	case 1:
		if x >= -t.B/t.A {
			return clamp01(powApprox(nonneg(t.A*x+t.B), t.G))
		}
		return 0
	case 2:
		if x >= -t.B/t.A {
			return clamp01(powApprox(nonneg(t.A*x+t.B), t.G) + t.C)
		}
		return t.C
	case 3:
		if x >= t.D {
			return clamp01(powApprox(nonneg(t.A*x+t.B), t.G))
		}
		return clamp01(t.C * x)
	case 4:
		if x >= t.D {
			return clamp01(powApprox(nonneg(t.A*x+t.B), t.G) + t.E)
		}
		return clamp01(t.C*x + t.F)
	default:
		return x
	}
}

func nonneg(x float32) float32 {
	if x < 0 {
		return 0
	}
	return x
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// powApprox evaluates x^g. The design permits a Chebyshev fast-pow here; this
// engine uses math.Pow directly since the Go standard math library already
// gives correctly-rounded results well within the required 1-ULP-of-8-bit
// tolerance, and no library in this module's dependency set offers a faster
// vectorized pow that would be worth the added complexity for scalar calls.
func powApprox(x, g float32) float32 {
	return float32(math.Pow(float64(x), float64(g)))
}

// readTRCTag dispatches on the tag's 4-byte type signature: curv or para.
func (p *Profile) readTRCTag(e tagEntry) (TRC, error) {
	const op = "icc.readTRCTag"
	b, err := p.tagBytes(e)
	if err != nil {
		return nil, err
	}
	if len(b) < 8 {
		return nil, rasterr.New(rasterr.Truncated, op, "TRC tag %s too short", e.sig)
	}
	switch trimSig(b[0:4]) {
	case "curv":
		return parseCurveTag(b)
	case "para":
		return parseParaTag(b)
	default:
		return nil, rasterr.New(rasterr.Unsupported, op, "TRC tag %s has unsupported type %q", e.sig, trimSig(b[0:4]))
	}
}

func parseCurveTag(b []byte) (TRC, error) {
	const op = "icc.parseCurveTag"
	if len(b) < 12 {
		return nil, rasterr.New(rasterr.Truncated, op, "curv tag too short")
	}
	count := binary.BigEndian.Uint32(b[8:12])
	switch {
	case count == 0:
		return IdentityTRC{}, nil
	case count == 1:
		if len(b) < 14 {
			return nil, rasterr.New(rasterr.Truncated, op, "curv gamma tag too short")
		}
		g := float32(binary.BigEndian.Uint16(b[12:14])) / 256
		return GammaTRC{G: g}, nil
	default:
		need := 12 + int(count)*2
		if len(b) < need {
			return nil, rasterr.New(rasterr.Truncated, op, "curv sampled tag declares %d entries, have %d bytes", count, len(b))
		}
		raw := make([]uint16, count)
		for i := range raw {
			raw[i] = binary.BigEndian.Uint16(b[12+i*2:])
		}
		return NewSampledTRC(raw), nil
	}
}

// paramCount gives the fixed number of 16.16 parameters read per parametric
// type, per the ICC/PDF spec's table.
var paramCount = [5]int{1, 3, 4, 5, 7}

func parseParaTag(b []byte) (TRC, error) {
	const op = "icc.parseParaTag"
	if len(b) < 12 {
		return nil, rasterr.New(rasterr.Truncated, op, "para tag too short")
	}
	typ := int(binary.BigEndian.Uint16(b[8:10]))
	if typ < 0 || typ > 4 {
		return nil, rasterr.New(rasterr.Unsupported, op, "unsupported parametric curve type %d", typ)
	}
	n := paramCount[typ]
	if len(b) < 12+n*4 {
		return nil, rasterr.New(rasterr.Truncated, op, "para type %d needs %d params, too few bytes", typ, n)
	}
	var v [7]float32
	for i := 0; i < n; i++ {
		v[i] = s15Fixed16(binary.BigEndian.Uint32(b[12+i*4:]))
	}
	t := ParametricTRC{Type: typ, G: v[0]}
	switch typ {
	case 0:
	case 1:
		t.A, t.B = v[1], v[2]
	case 2:
		t.A, t.B, t.C = v[1], v[2], v[3]
	case 3:
		t.A, t.B, t.C, t.D = v[1], v[2], v[3], v[4]
	case 4:
		t.A, t.B, t.C, t.D, t.E, t.F = v[1], v[2], v[3], v[4], v[5], v[6]
	}
	return t, nil
}
