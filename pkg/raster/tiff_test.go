package raster

import "testing"

func TestTIFFSinkRejectsWrongRowLength(t *testing.T) {
	s, err := NewTIFFSink(2, 1)
	if err != nil {
		t.Fatalf("NewTIFFSink: %v", err)
	}
	if err := s.WriteRow(make([]byte, 4)); err == nil {
		t.Fatalf("expected error for wrong row length")
	}
}

func TestTIFFSinkFinishRequiresAllRows(t *testing.T) {
	s, _ := NewTIFFSink(2, 2)
	s.WriteRow(make([]byte, 8))
	if _, err := s.Finish(); err == nil {
		t.Fatalf("expected error for Finish before all rows written")
	}
}

func TestTIFFSinkEncodesDeclaredSize(t *testing.T) {
	const w, h = 2, 2
	s, err := NewTIFFSink(w, h)
	if err != nil {
		t.Fatalf("NewTIFFSink: %v", err)
	}
	row := []byte{0, 0, 0, 255, 10, 20, 30, 40}
	for y := 0; y < h; y++ {
		if err := s.WriteRow(row); err != nil {
			t.Fatalf("WriteRow %d: %v", y, err)
		}
	}
	out, err := s.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("expected non-empty TIFF output")
	}
	// "II*\x00" little-endian TIFF byte order marker.
	if out[0] != 'I' || out[1] != 'I' {
		t.Fatalf("unexpected TIFF header %x", out[:4])
	}
}
