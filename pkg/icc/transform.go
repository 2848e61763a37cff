package icc

import "github.com/zayg21-pixel/pdf-pixel-sub010/internal/rasterr"

// ToPCS converts a device-space sample (matching p.DataColorSpace's channel
// count) to PCS XYZ under the given rendering intent. It prefers the
// profile's AToBn pipeline; when absent it falls back to the matrix/TRC
// chain (RGB profiles only), white-point-adapting to D50 unless intent is
// AbsoluteColorimetric, per the rendering-intent chain rule.
func (p *Profile) ToPCS(device []float32, intent Intent) ([3]float32, error) {
	const op = "icc.ToPCS"

	pipe := p.AToB[intent]
	if pipe == nil && intent == Saturation {
		pipe = p.AToB[Perceptual]
	}
	if pipe != nil {
		out := pipe.Eval(device)
		var xyz [3]float32
		copy(xyz[:], out)
		return xyz, nil
	}

	if !p.hasMatrix {
		return [3]float32{}, rasterr.New(rasterr.Unsupported, op, "profile has neither AToB pipeline nor RGB matrix/TRC")
	}
	if len(device) < 3 {
		return [3]float32{}, rasterr.New(rasterr.Semantic, op, "matrix/TRC fallback needs 3 device channels, got %d", len(device))
	}

	linear := [3]float32{
		p.RedTRC.Eval(device[0]),
		p.GreenTRC.Eval(device[1]),
		p.BlueTRC.Eval(device[2]),
	}
	xyz := p.Matrix.AsMatrix3().MulVec(linear)

	if intent != AbsoluteColorimetric {
		xyz = p.ChromaticAdaptation.MulVec(xyz)
	}
	return xyz, nil
}

// Sampler evaluates color in some device/PCS space to normalized [0,1]^4
// RGBA, the seam every §3 color-space variant implements against.
type Sampler interface {
	Sample(color []float32) [4]float32
}

// ICCSampler adapts a parsed Profile (assumed RGB-class) into a Sampler by
// running ToPCS under a fixed rendering intent and converting PCS XYZ to
// sRGB via the standard D65 sRGB matrix and transfer function.
type ICCSampler struct {
	Profile *Profile
	Intent  Intent
}

func (s ICCSampler) Sample(color []float32) [4]float32 {
	xyz, err := s.Profile.ToPCS(color, s.Intent)
	if err != nil {
		return [4]float32{0, 0, 0, 1}
	}
	rgb := xyzToSRGB(xyz)
	return [4]float32{clamp01(rgb[0]), clamp01(rgb[1]), clamp01(rgb[2]), 1}
}

// xyzD50toD65 adapts a D50 PCS tristimulus value to the D65 primaries sRGB
// is defined against.
var xyzD50toD65 = bradfordAdaptation(D50, D65)

// srgbMatrixInv is the D65 XYZ -> linear sRGB matrix (IEC 61966-2-1).
var srgbMatrixInv = Matrix3{
	{3.2406, -1.5372, -0.4986},
	{-0.9689, 1.8758, 0.0415},
	{0.0557, -0.2040, 1.0570},
}

func xyzToSRGB(xyz [3]float32) [3]float32 {
	d65 := xyzD50toD65.MulVec(xyz)
	linear := srgbMatrixInv.MulVec(d65)
	return [3]float32{
		encodeSRGB(linear[0]),
		encodeSRGB(linear[1]),
		encodeSRGB(linear[2]),
	}
}

// encodeSRGB applies the sRGB transfer function's inverse (linear -> gamma)
// piecewise.
func encodeSRGB(linear float32) float32 {
	if linear < 0 {
		return 0
	}
	const threshold = 0.0031308
	if linear <= threshold {
		return clamp01(12.92 * linear)
	}
	return clamp01(1.055*powApprox(linear, 1/2.4) - 0.055)
}
