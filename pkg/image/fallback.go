package image

import (
	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/colorspace"
	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/filter"
	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/jpx"
	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/raster"
)

// FallbackRaster is the §7 degradation raster: an opaque-dimension, fully
// transparent 1x1 PNG. A caller composites it stretched over the image's
// declared bounds when the real decode fails.
func FallbackRaster() ([]byte, error) {
	enc, err := raster.NewPNGEncoder(1, 1)
	if err != nil {
		return nil, err
	}
	if err := enc.WriteRow([]byte{0, 0, 0, 0}); err != nil {
		return nil, err
	}
	return enc.Finish()
}

// DecodeWithFallback runs Decode and, on any failure, logs a warning
// against name and substitutes the fallback raster — decoders fail the
// image, never the document (§7 propagation policy).
func DecodeWithFallback(name string, encoded []byte, d Descriptor, resolve colorspace.Resolver, transfer TransferFunction, sink RowSink, dec filter.Decryptor, jpxDecoder jpx.Decoder) []byte {
	out, err := Decode(encoded, d, resolve, transfer, sink, dec, jpxDecoder)
	if err == nil {
		return out
	}

	logFallback(name, err)
	fb, ferr := FallbackRaster()
	if ferr != nil {
		return nil
	}
	return fb
}
