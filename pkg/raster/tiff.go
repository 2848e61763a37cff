package raster

import (
	"bytes"
	"image"
	"image/color"

	"github.com/hhrutter/tiff"

	"github.com/zayg21-pixel/pdf-pixel-sub010/internal/rasterr"
)

// TIFFSink accumulates CMYK8 rows into a TIFF raster. PNG's color type 6
// cannot carry CMYK losslessly, so a host that wants CMYK8 output builds
// this sink (image.NewTIFFRowSink) in place of the PNG encoder; the row
// processor never selects it. It is additive, not the one mandated durable
// artifact.
type TIFFSink struct {
	width, height int
	img           *image.CMYK
	rowsWritten   int
	finished      bool
}

// NewTIFFSink builds a sink for a width x height CMYK8 raster.
func NewTIFFSink(width, height int) (*TIFFSink, error) {
	const op = "raster.NewTIFFSink"
	if width <= 0 || height <= 0 {
		return nil, rasterr.New(rasterr.Semantic, op, "non-positive dimension %dx%d", width, height)
	}
	return &TIFFSink{
		width:  width,
		height: height,
		img:    image.NewCMYK(image.Rect(0, 0, width, height)),
	}, nil
}

// WriteRow accepts one packed CMYK8 row (4 bytes per pixel, C/M/Y/K order).
func (s *TIFFSink) WriteRow(row []byte) error {
	const op = "raster.TIFFSink.WriteRow"
	if s.finished {
		return rasterr.New(rasterr.Semantic, op, "WriteRow after Finish")
	}
	if len(row) != s.width*4 {
		return rasterr.New(rasterr.Semantic, op, "row length %d, want %d", len(row), s.width*4)
	}
	if s.rowsWritten >= s.height {
		return rasterr.New(rasterr.Semantic, op, "more rows written than declared height %d", s.height)
	}
	y := s.rowsWritten
	for x := 0; x < s.width; x++ {
		i := x * 4
		s.img.SetCMYK(x, y, color.CMYK{C: row[i], M: row[i+1], Y: row[i+2], K: row[i+3]})
	}
	s.rowsWritten++
	return nil
}

// Finish encodes the accumulated raster as TIFF. It fails if fewer rows than
// the declared height were written.
func (s *TIFFSink) Finish() ([]byte, error) {
	const op = "raster.TIFFSink.Finish"
	if s.finished {
		return nil, rasterr.New(rasterr.Semantic, op, "Finish called twice")
	}
	if s.rowsWritten != s.height {
		return nil, rasterr.New(rasterr.Semantic, op, "Finish: wrote %d rows, declared height %d", s.rowsWritten, s.height)
	}
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, s.img, nil); err != nil {
		return nil, rasterr.Wrap(rasterr.Malformed, op, err)
	}
	s.finished = true
	return buf.Bytes(), nil
}
