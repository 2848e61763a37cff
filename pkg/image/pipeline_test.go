package image

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/colorspace"
)

// TestDecodeRawDeviceRGBWithDecodeArray feeds one uncompressed RGB row
// straight through the pipeline (no filters, no CCITT/JPEG) and checks the
// PNG sink round-trips the exact pixels; the identity Decode array sends
// DeviceRGB to the RGBA-applied path (§4.7 step 2), whose RGBA8 rows match
// the sink's layout.
func TestDecodeRawDeviceRGBWithDecodeArray(t *testing.T) {
	d := Descriptor{
		Width:            2,
		Height:           1,
		BitsPerComponent: 8,
		ComponentCount:   3,
		ColorSpace:       &colorspace.Variant{Kind: colorspace.DeviceRGB},
	}

	// Passthrough writes component_count*bpc bytes per row into a PNG sink
	// declared at RGBA8; exercise that through the RGBA-applied path instead
	// by giving the descriptor a decode array, forcing step 2 of the
	// decision tree (RGBA) so the sink's fixed RGBA8 layout matches output.
	d.DecodeArray = [][2]float32{{0, 1}, {0, 1}, {0, 1}}

	encoded := []byte{255, 0, 0, 0, 255, 0} // two RGB8 pixels, no filters

	sink, err := NewPNGRowSink(d.Width, d.Height)
	if err != nil {
		t.Fatalf("NewPNGRowSink: %v", err)
	}

	out, err := Decode(encoded, d, colorspace.DefaultResolver, nil, sink, nil, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	r, g, b, a := img.At(0, 0).RGBA()
	if byte(r>>8) != 255 || byte(g>>8) != 0 || byte(b>>8) != 0 || byte(a>>8) != 255 {
		t.Fatalf("pixel 0 = (%d,%d,%d,%d), want (255,0,0,255)", r>>8, g>>8, b>>8, a>>8)
	}
}

// TestDecodeRawDeviceCMYKNoDecodeArray exercises the RGBA-applied path
// DeviceCMYK falls into by default (no Decode array, no color-key mask —
// decision-tree step 7). Raw CMYK bytes must be normalized through the
// implicit [0,1] default before reaching sampleDeviceCMYK, not passed
// through as raw 0..255 sample values: a pure-red CMYK pixel (C=0, M=255,
// Y=255, K=0) must decode to opaque red, not solid black.
func TestDecodeRawDeviceCMYKNoDecodeArray(t *testing.T) {
	d := Descriptor{
		Width:            1,
		Height:           1,
		BitsPerComponent: 8,
		ComponentCount:   4,
		ColorSpace:       &colorspace.Variant{Kind: colorspace.DeviceCMYK},
	}

	encoded := []byte{0, 255, 255, 0} // C=0 M=1 Y=1 K=0 -> pure red

	sink, err := NewPNGRowSink(d.Width, d.Height)
	if err != nil {
		t.Fatalf("NewPNGRowSink: %v", err)
	}

	out, err := Decode(encoded, d, colorspace.DefaultResolver, nil, sink, nil, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	r, g, b, a := img.At(0, 0).RGBA()
	if byte(r>>8) != 255 || byte(g>>8) != 0 || byte(b>>8) != 0 || byte(a>>8) != 255 {
		t.Fatalf("pixel 0 = (%d,%d,%d,%d), want (255,0,0,255)", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestDecodeWithFallbackOnUnsupportedKind(t *testing.T) {
	d := Descriptor{
		Width: 4, Height: 4,
		BitsPerComponent: 8,
		ComponentCount:   1,
		ColorSpace:       &colorspace.Variant{Kind: colorspace.DeviceGray},
		Type:             JBIG2,
	}
	sink, err := NewPNGRowSink(d.Width, d.Height)
	if err != nil {
		t.Fatalf("NewPNGRowSink: %v", err)
	}
	out := DecodeWithFallback("broken.jbig2", nil, d, colorspace.DefaultResolver, nil, sink, nil, nil)
	if len(out) == 0 {
		t.Fatalf("expected non-empty fallback raster")
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("fallback raster should be a valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 1 || img.Bounds().Dy() != 1 {
		t.Fatalf("fallback raster should be 1x1, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
	_, _, _, a := img.At(0, 0).RGBA()
	if a != 0 {
		t.Fatalf("fallback pixel should be fully transparent, alpha=%d", a)
	}
}
