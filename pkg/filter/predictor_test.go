package filter

import (
	"bytes"
	"io"
	"math/rand"
	"testing"
)

// TestPredictorRoundTrip checks the §8 invariant: for random rows and every
// (predictor, bpc, colors), apply(encode(row)) == row.
func TestPredictorRoundTrip(t *testing.T) {
	const rows = 5
	columns := 9

	r := rand.New(rand.NewSource(7))

	for _, bpc := range []int{1, 2, 4, 8, 16} {
		for _, colors := range []int{1, 3} {
			p := PredictorParams{Colors: colors, Bpc: bpc, Columns: columns}

			// Build `rows` raw sample rows, each packed to p.rowSizeBytes().
			raw := make([][]byte, rows)
			for i := range raw {
				raw[i] = make([]byte, p.rowSizeBytes())
				r.Read(raw[i])
			}

			t.Run("TIFF", func(t *testing.T) {
				testPredictorKind(t, PredictorTIFF, p, raw)
			})
			for _, f := range []int{pngNone, pngSub, pngUp, pngAverage, pngPaeth} {
				f := f
				t.Run("PNG", func(t *testing.T) {
					testPNGPredictorKind(t, f, p, raw)
				})
			}
		}
	}
}

func testPredictorKind(t *testing.T, predictor int, p PredictorParams, raw [][]byte) {
	t.Helper()

	var encoded bytes.Buffer
	for _, row := range raw {
		enc := append([]byte(nil), row...)
		if err := applyTIFFRow(enc, p); err != nil {
			t.Fatalf("applyTIFFRow: %v", err)
		}
		encoded.Write(enc)
	}

	pp := p
	pp.Predictor = predictor
	out, err := UndoPredictor(bytes.NewReader(encoded.Bytes()), pp)
	if err != nil {
		t.Fatalf("UndoPredictor: %v", err)
	}
	got := mustReadAll(t, out)

	var want bytes.Buffer
	for _, row := range raw {
		want.Write(row)
	}
	if !bytes.Equal(got, want.Bytes()) {
		t.Fatalf("TIFF round trip mismatch bpc=%d colors=%d\n got: % x\nwant: % x", p.Bpc, p.Colors, got, want.Bytes())
	}
}

func testPNGPredictorKind(t *testing.T, filterTag int, p PredictorParams, raw [][]byte) {
	t.Helper()

	bpp := p.bytesPerPixel()
	rowSize := p.rowSizeBytes() + 1

	var encoded bytes.Buffer
	prior := make([]byte, p.rowSizeBytes())
	for _, row := range raw {
		out := make([]byte, rowSize)
		applyPNGRow(out, row, prior, filterTag, bpp)
		encoded.Write(out)
		prior = row
	}

	pp := p
	pp.Predictor = PredictorNone
	out, err := UndoPredictor(bytes.NewReader(encoded.Bytes()), pp)
	if err != nil {
		t.Fatalf("UndoPredictor: %v", err)
	}
	got := mustReadAll(t, out)

	var want bytes.Buffer
	for _, row := range raw {
		want.Write(row)
	}
	if !bytes.Equal(got, want.Bytes()) {
		t.Fatalf("PNG filter %d round trip mismatch bpc=%d colors=%d\n got: % x\nwant: % x",
			filterTag, p.Bpc, p.Colors, got, want.Bytes())
	}
}

func mustReadAll(t *testing.T, r io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	return b
}
