// Package image ties the rest of the pipeline together: the image
// descriptor (§3), the external interfaces the core exposes to its
// collaborators (§6 color-space resolver, transfer function, row sink), and
// the orchestration that runs one image end to end — filter chain reversal,
// format decode, optional row conversion, row processing, and sink output.
package image

import (
	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/ccitt"
	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/colorspace"
	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/icc"
	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/raster"
)

// Kind is the image's terminal format, i.e. the decoder that owns its
// compressed bytes once the generic filter chain has stripped any outer
// Flate/LZW/ASCII wrapping.
type Kind int

const (
	Raw Kind = iota
	JPEG
	JPEG2000
	CCITT
	JBIG2
)

// FilterStage is one entry of the declared outer-to-inner filter chain
// (PDF's /Filter + /DecodeParms arrays, flattened by the caller).
type FilterStage struct {
	Name  string
	Parms map[string]int
}

// Descriptor is the immutable record describing a sampled raster, mirroring
// the data model's image descriptor. It is produced upstream by
// content-stream interpretation (external) and consumed once per image.
type Descriptor struct {
	Width, Height    int
	BitsPerComponent int
	ComponentCount   int
	ColorSpace       *colorspace.Variant

	DecodeArray  raster.DecodeArray
	ColorKeyMask raster.ColorKeyMask

	ImageMask   bool
	Interpolate bool

	RenderingIntent icc.Intent
	Type            Kind

	Filters []FilterStage

	// CCITTParams is only read when Type == CCITT.
	CCITTParams ccitt.Params

	// ICCProfileBytes carries the raw ICC profile bytes for passthrough
	// (iCCP chunk emission); ColorSpace.Profile is the parsed form used for
	// sampling.
	ICCProfileBytes []byte

	// ConsumerAcceptsICC mirrors step 4 of the should-convert decision tree:
	// whether the row sink can carry an embedded ICC profile faithfully.
	ConsumerAcceptsICC bool

	// Downsample, if non-nil, requests the averaging downsample converter
	// be interposed between the format decoder and the row processor.
	Downsample *DownsampleSpec
}

// DownsampleSpec requests the row converter scale the decoded raster down
// to TargetWidth x TargetHeight before row processing.
type DownsampleSpec struct {
	TargetWidth, TargetHeight int
}

func (d Descriptor) toRasterDescriptor() raster.Descriptor {
	return raster.Descriptor{
		ImageMask:          d.ImageMask,
		HasDecodeArray:     len(d.DecodeArray) > 0,
		HasColorKeyMask:    len(d.ColorKeyMask) > 0,
		ColorSpace:         d.ColorSpace,
		ConsumerAcceptsICC: d.ConsumerAcceptsICC,
		BitsPerComponent:   d.BitsPerComponent,
	}
}
