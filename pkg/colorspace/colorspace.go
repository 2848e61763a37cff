// Package colorspace models the tagged color-space variants a PDF image or
// fill color can declare, and resolves each variant to a Sampler that maps
// device-space components to normalized sRGB+alpha.
package colorspace

import (
	"math"

	"github.com/zayg21-pixel/pdf-pixel-sub010/internal/rasterr"
	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/icc"
)

// Kind tags which color-space variant a Variant holds.
type Kind int

const (
	DeviceGray Kind = iota
	DeviceRGB
	DeviceCMYK
	CalGray
	CalRGB
	Lab
	ICCBased
	Indexed
	Pattern
	Separation
	DeviceN
)

// TintTransform is the external seam for Separation/DeviceN's "tint_fn": a
// PostScript calculator function or sampled function evaluated elsewhere and
// plugged in here. It maps N colorant tints to the alternate space's
// component count.
type TintTransform interface {
	Apply(tints []float32) ([]float32, error)
}

// Variant is a tagged union over every color-space kind a PDF image can
// declare. Only the fields relevant to Kind are populated.
type Variant struct {
	Kind Kind

	// CalGray / CalRGB / Lab
	WhitePoint [3]float32
	BlackPoint [3]float32
	Gamma      [3]float32 // CalGray uses Gamma[0]; CalRGB uses all three
	Matrix     [9]float32 // CalRGB only; row-major 3x3, identity if absent
	Range      [4]float32 // Lab a/b channel range [amin,amax,bmin,bmax]

	// ICCBased
	Profile *icc.Profile

	// Indexed
	Base        *Variant
	HiVal       int
	PaletteData []byte // HiVal+1 entries of Base.ComponentCount() bytes each

	// Pattern
	PatternBase *Variant // nil for an uncolored-tiling-pattern-less Pattern

	// Separation / DeviceN
	Names         []string
	Alternate     *Variant
	TintTransform TintTransform
}

// ComponentCount returns the variant's declared arity, the invariant every
// sample row must match.
func (v *Variant) ComponentCount() int {
	switch v.Kind {
	case DeviceGray, CalGray, Indexed:
		return 1
	case DeviceRGB, CalRGB, Lab:
		return 3
	case DeviceCMYK:
		return 4
	case ICCBased:
		if v.Profile != nil {
			switch v.Profile.DataColorSpace {
			case "GRAY":
				return 1
			case "CMYK":
				return 4
			default:
				return 3
			}
		}
		return 3
	case Pattern:
		if v.PatternBase != nil {
			return v.PatternBase.ComponentCount()
		}
		return 0
	case Separation:
		return 1
	case DeviceN:
		return len(v.Names)
	default:
		return 0
	}
}

// Sampler maps normalized device-space components to [0,1]^4 RGBA, the seam
// every color-space variant resolves to.
type Sampler = icc.Sampler

// Resolver maps a (Variant, rendering intent) pair to a Sampler. DefaultResolver
// is a usable implementation; hosts with their own CMS can substitute one.
type Resolver func(v *Variant, intent icc.Intent) (Sampler, error)

// DefaultResolver builds a Sampler for every variant kind using this
// package's built-in conversions, falling back to the ICC matrix/TRC engine
// for ICCBased and to sRGB-relative math for Cal*/Lab.
func DefaultResolver(v *Variant, intent icc.Intent) (Sampler, error) {
	const op = "colorspace.DefaultResolver"
	switch v.Kind {
	case DeviceGray:
		return samplerFunc(sampleDeviceGray), nil
	case DeviceRGB:
		return samplerFunc(sampleDeviceRGB), nil
	case DeviceCMYK:
		return samplerFunc(sampleDeviceCMYK), nil
	case CalGray:
		return calGraySampler{v}, nil
	case CalRGB:
		return calRGBSampler{v}, nil
	case Lab:
		return labSampler{v}, nil
	case ICCBased:
		if v.Profile == nil {
			return nil, rasterr.New(rasterr.Semantic, op, "ICCBased variant has no parsed profile")
		}
		return icc.ICCSampler{Profile: v.Profile, Intent: intent}, nil
	case Indexed:
		baseSampler, err := DefaultResolver(v.Base, intent)
		if err != nil {
			return nil, err
		}
		return indexedSampler{v, baseSampler}, nil
	case Pattern:
		if v.PatternBase == nil {
			return samplerFunc(func(_ []float32) [4]float32 { return [4]float32{0, 0, 0, 1} }), nil
		}
		return DefaultResolver(v.PatternBase, intent)
	case Separation, DeviceN:
		altSampler, err := DefaultResolver(v.Alternate, intent)
		if err != nil {
			return nil, err
		}
		return tintSampler{v, altSampler}, nil
	default:
		return nil, rasterr.New(rasterr.Unsupported, op, "unknown color-space kind %d", v.Kind)
	}
}

type samplerFunc func(color []float32) [4]float32

func (f samplerFunc) Sample(color []float32) [4]float32 { return f(color) }

func sampleDeviceGray(c []float32) [4]float32 {
	g := clamp01(c[0])
	return [4]float32{g, g, g, 1}
}

func sampleDeviceRGB(c []float32) [4]float32 {
	return [4]float32{clamp01(c[0]), clamp01(c[1]), clamp01(c[2]), 1}
}

// sampleDeviceCMYK uses the naive (non-ICC) conversion PDF viewers fall back
// to when no alternate profile is declared: r=1-min(1,c+k), etc.
func sampleDeviceCMYK(c []float32) [4]float32 {
	k := c[3]
	r := 1 - minF(1, c[0]+k)
	g := 1 - minF(1, c[1]+k)
	b := 1 - minF(1, c[2]+k)
	return [4]float32{clamp01(r), clamp01(g), clamp01(b), 1}
}

func minF(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
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

type calGraySampler struct{ v *Variant }

func (s calGraySampler) Sample(c []float32) [4]float32 {
	g := c[0]
	gamma := s.v.Gamma[0]
	if gamma == 0 {
		gamma = 1
	}
	lum := powf(clamp01(g), gamma)
	return [4]float32{clamp01(lum), clamp01(lum), clamp01(lum), 1}
}

type calRGBSampler struct{ v *Variant }

func (s calRGBSampler) Sample(c []float32) [4]float32 {
	gamma := s.v.Gamma
	gr, gg, gb := gamma[0], gamma[1], gamma[2]
	if gr == 0 {
		gr = 1
	}
	if gg == 0 {
		gg = 1
	}
	if gb == 0 {
		gb = 1
	}
	r := powf(clamp01(c[0]), gr)
	g := powf(clamp01(c[1]), gg)
	b := powf(clamp01(c[2]), gb)
	return [4]float32{clamp01(r), clamp01(g), clamp01(b), 1}
}

// labSampler converts CIE L*a*b* to sRGB via XYZ using the D50 PCS
// convention this module's ICC engine uses elsewhere, so Lab and ICCBased
// images share the same downstream matrix/gamma chain.
type labSampler struct{ v *Variant }

func (s labSampler) Sample(c []float32) [4]float32 {
	l, a, b := c[0], c[1], c[2]
	wp := s.v.WhitePoint
	if wp == ([3]float32{}) {
		wp = [3]float32{0.9642, 1.0, 0.8249}
	}

	fy := (l + 16) / 116
	fx := fy + a/500
	fz := fy - b/200

	x := wp[0] * labInv(fx)
	y := wp[1] * labInv(fy)
	z := wp[2] * labInv(fz)

	srgb := labXYZToSRGB(x, y, z)
	return [4]float32{clamp01(srgb[0]), clamp01(srgb[1]), clamp01(srgb[2]), 1}
}

func labInv(t float32) float32 {
	const delta = float32(6.0 / 29.0)
	if t > delta {
		return t * t * t
	}
	return 3 * delta * delta * (t - 4.0/29.0)
}

type indexedSampler struct {
	v    *Variant
	base Sampler
}

func (s indexedSampler) Sample(c []float32) [4]float32 {
	idx := int(c[0] + 0.5)
	baseArity := s.v.Base.ComponentCount()
	off := idx * baseArity
	if off < 0 || off+baseArity > len(s.v.PaletteData) {
		return [4]float32{0, 0, 0, 1}
	}
	comps := make([]float32, baseArity)
	for i := 0; i < baseArity; i++ {
		comps[i] = float32(s.v.PaletteData[off+i]) / 255
	}
	return s.base.Sample(comps)
}

type tintSampler struct {
	v   *Variant
	alt Sampler
}

func (s tintSampler) Sample(tints []float32) [4]float32 {
	if s.v.TintTransform == nil {
		return [4]float32{0, 0, 0, 1}
	}
	alt, err := s.v.TintTransform.Apply(tints)
	if err != nil {
		return [4]float32{0, 0, 0, 1}
	}
	return s.alt.Sample(alt)
}

func powf(x, g float32) float32 {
	return float32(math.Pow(float64(x), float64(g)))
}
