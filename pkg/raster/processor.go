package raster

import (
	"github.com/zayg21-pixel/pdf-pixel-sub010/internal/rasterr"
	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/colorspace"
)

// OutputMode is the row processor's chosen output representation, decided
// once at construction per the should-convert decision tree.
type OutputMode int

const (
	Passthrough OutputMode = iota
	RGBAColorApplied
	StencilMask
)

// Descriptor carries the declared image properties the decision tree reads.
// Everything here mirrors the external image descriptor (§3); this package
// only reads the fields it needs to classify the image.
type Descriptor struct {
	ImageMask        bool
	HasDecodeArray   bool
	HasColorKeyMask  bool
	ColorSpace       *colorspace.Variant
	ConsumerAcceptsICC bool
	BitsPerComponent int
}

// DecideMode implements the §4.7 should-convert decision tree.
func DecideMode(d Descriptor) OutputMode {
	if d.ImageMask {
		return StencilMask
	}
	if d.HasDecodeArray || d.HasColorKeyMask {
		return RGBAColorApplied
	}
	if d.ColorSpace != nil && d.ColorSpace.Kind == colorspace.Indexed {
		return Passthrough
	}
	if d.ColorSpace != nil && d.ColorSpace.Kind == colorspace.ICCBased && !d.ConsumerAcceptsICC {
		return RGBAColorApplied
	}
	if d.ColorSpace != nil && (d.ColorSpace.Kind == colorspace.DeviceRGB || d.ColorSpace.Kind == colorspace.DeviceGray) {
		return Passthrough
	}
	if d.ColorSpace != nil && d.ColorSpace.ComponentCount() == 1 && d.BitsPerComponent <= 8 {
		return Passthrough
	}
	return RGBAColorApplied
}

// DecodeArray holds a PDF Decode array's per-component [min,max] pairs,
// remapping a raw sample range onto a declared value range before
// color-space conversion.
type DecodeArray [][2]float32

func (a DecodeArray) apply(ch int, x float32, bpc int, def [2]float32) float32 {
	maxVal := float32((uint32(1) << uint(bpc)) - 1)
	dmin, dmax := def[0], def[1]
	if ch < len(a) {
		dmin, dmax = a[ch][0], a[ch][1]
	}
	return dmin + x*(dmax-dmin)/maxVal
}

// defaultDecodeRange is the implicit per-channel Decode entry a color space
// carries when the image declares no explicit Decode array. Every RGBA
// sampler (sampleDeviceCMYK, ICCSampler, tintSampler, calRGBSampler, ...)
// expects its input already mapped through this range, not a raw sample.
// Device/ICC/tint spaces default to [0,1] per channel; Lab defaults to
// [0,100] for L* and its declared (or ±100 default) a*/b* range.
func defaultDecodeRange(cs *colorspace.Variant, ch int) [2]float32 {
	if cs != nil && cs.Kind == colorspace.Lab {
		switch ch {
		case 0:
			return [2]float32{0, 100}
		case 1:
			return labChannelRange(cs.Range[0], cs.Range[1])
		case 2:
			return labChannelRange(cs.Range[2], cs.Range[3])
		}
	}
	return [2]float32{0, 1}
}

func labChannelRange(min, max float32) [2]float32 {
	if min == 0 && max == 0 {
		return [2]float32{-100, 100}
	}
	return [2]float32{min, max}
}

// ColorKeyMask is a per-component [min,max] range (in raw sample units); a
// pixel whose every component falls inside its range is masked transparent.
type ColorKeyMask [][2]uint32

func (m ColorKeyMask) masked(samples []uint32) bool {
	if len(m) == 0 {
		return false
	}
	for i, r := range m {
		if i >= len(samples) || samples[i] < r[0] || samples[i] > r[1] {
			return false
		}
	}
	return true
}

// Processor converts one packed source row at a time into the chosen output
// mode's row representation.
type Processor struct {
	Mode         OutputMode
	Width        int
	Components   int
	Bpc          int
	ColorSpace   *colorspace.Variant
	Sampler      colorspace.Sampler
	Decode       DecodeArray
	ColorKey     ColorKeyMask
}

// ProcessRow converts one packed row of Width*Components samples at Bpc bit
// depth into the processor's output representation.
func (p *Processor) ProcessRow(row []byte) ([]byte, error) {
	const op = "raster.Processor.ProcessRow"
	switch p.Mode {
	case StencilMask:
		return p.processStencilRow(row)
	case Passthrough:
		if p.ColorSpace != nil && p.ColorSpace.Kind == colorspace.Indexed && p.Bpc < 8 {
			return unpackIndexedRow(row, p.Bpc, p.Width), nil
		}
		return row, nil
	case RGBAColorApplied:
		return p.processRGBARow(row, op)
	default:
		return nil, rasterr.New(rasterr.Semantic, op, "unknown output mode %d", p.Mode)
	}
}

func (p *Processor) processStencilRow(row []byte) ([]byte, error) {
	samples := unpackRow(row, 1, p.Width)
	out := make([]byte, p.Width)
	for i, s := range samples {
		if s == 0 {
			out[i] = 255
		}
	}
	return out, nil
}

func (p *Processor) processRGBARow(row []byte, op string) ([]byte, error) {
	if p.Sampler == nil {
		return nil, rasterr.New(rasterr.Semantic, op, "RGBA mode requires a resolved Sampler")
	}
	samples := unpackRow(row, p.Bpc, p.Width*p.Components)
	out := make([]byte, p.Width*4)

	comps := make([]float32, p.Components)
	for x := 0; x < p.Width; x++ {
		base := x * p.Components
		masked := p.ColorKey.masked(samples[base : base+p.Components])
		for ch := 0; ch < p.Components; ch++ {
			v := float32(samples[base+ch])
			comps[ch] = p.Decode.apply(ch, v, p.Bpc, defaultDecodeRange(p.ColorSpace, ch))
		}
		rgba := p.Sampler.Sample(comps)
		if masked {
			rgba[3] = 0
		}
		out[x*4+0] = to8(rgba[0])
		out[x*4+1] = to8(rgba[1])
		out[x*4+2] = to8(rgba[2])
		out[x*4+3] = to8(rgba[3])
	}
	return out, nil
}

func to8(v float32) byte {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}

// BuildPalette samples a non-indexed single-component space at each of
// 2^bpc codes, packing RGBA8 entries, for the Passthrough + synthesized
// palette branch of the decision tree.
func BuildPalette(sampler colorspace.Sampler, bpc int) []byte {
	n := 1 << uint(bpc)
	out := make([]byte, n*4)
	maxVal := float32(n - 1)
	for i := 0; i < n; i++ {
		rgba := sampler.Sample([]float32{float32(i) / maxVal})
		out[i*4+0] = to8(rgba[0])
		out[i*4+1] = to8(rgba[1])
		out[i*4+2] = to8(rgba[2])
		out[i*4+3] = to8(rgba[3])
	}
	return out
}

// IndexedPalette builds an RGBA8 palette for a §8-scenario Indexed color
// space by running each of [0,hival] through the color-space resolver's
// Sampler, matching how an Indexed image's PLTE/tRNS chunks are synthesized.
func IndexedPalette(sampler colorspace.Sampler, hival int) []byte {
	out := make([]byte, (hival+1)*4)
	for i := 0; i <= hival; i++ {
		rgba := sampler.Sample([]float32{float32(i)})
		out[i*4+0] = to8(rgba[0])
		out[i*4+1] = to8(rgba[1])
		out[i*4+2] = to8(rgba[2])
		out[i*4+3] = to8(rgba[3])
	}
	return out
}

// unpackIndexedRow reproduces the literal §8 scenario's passthrough path:
// unpacking a bpc<=8 single-component row into one byte per index.
func unpackIndexedRow(row []byte, bpc, width int) []byte {
	samples := unpackRow(row, bpc, width)
	out := make([]byte, width)
	for i, s := range samples {
		out[i] = byte(s)
	}
	return out
}
