package image

import "github.com/zayg21-pixel/pdf-pixel-sub010/pkg/raster"

// TransferFunction is the optional per-pixel function composed after color
// conversion (§6); a nil TransferFunction means identity.
type TransferFunction func(rgba [4]float32) [4]float32

// RowSink is the external integration seam a decoded raster is written to.
// The PNG encoder (§4.8) and the additive TIFF sink are the two
// implementations this module provides; a direct-to-GPU texture upload is
// another, supplied entirely by the host.
type RowSink interface {
	// Init carries an optional synthesized palette (Passthrough + Indexed)
	// and an optional raw ICC profile for passthrough, before any row is
	// written.
	Init(palette, iccProfile []byte) error
	WriteRow(row []byte) error
	Finish() ([]byte, error)
}

// pngRowSink adapts raster.PNGEncoder, whose signature/IHDR are written at
// construction time rather than at Init, to the RowSink interface.
type pngRowSink struct {
	enc *raster.PNGEncoder
}

// NewPNGRowSink builds a RowSink backed by the streaming PNG row encoder.
func NewPNGRowSink(width, height int) (RowSink, error) {
	enc, err := raster.NewPNGEncoder(width, height)
	if err != nil {
		return nil, err
	}
	return &pngRowSink{enc: enc}, nil
}

func (s *pngRowSink) Init(palette, iccProfile []byte) error {
	if len(palette) > 0 {
		s.enc.WritePLTE(palette)
	}
	if len(iccProfile) > 0 {
		return s.enc.WriteICCProfile("icc", iccProfile)
	}
	return nil
}

func (s *pngRowSink) WriteRow(row []byte) error { return s.enc.WriteRow(row) }
func (s *pngRowSink) Finish() ([]byte, error)   { return s.enc.Finish() }

// tiffRowSink adapts raster.TIFFSink (CMYK8 only, no palette/ICC metadata
// support) to RowSink.
type tiffRowSink struct {
	enc *raster.TIFFSink
}

// NewTIFFRowSink builds a RowSink backed by the additive CMYK TIFF sink.
func NewTIFFRowSink(width, height int) (RowSink, error) {
	enc, err := raster.NewTIFFSink(width, height)
	if err != nil {
		return nil, err
	}
	return &tiffRowSink{enc: enc}, nil
}

func (s *tiffRowSink) Init(palette, iccProfile []byte) error { return nil }
func (s *tiffRowSink) WriteRow(row []byte) error              { return s.enc.WriteRow(row) }
func (s *tiffRowSink) Finish() ([]byte, error)                { return s.enc.Finish() }
