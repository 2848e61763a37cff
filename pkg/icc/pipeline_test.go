package icc

import "testing"

func TestPipelineEvalappliesMatrixAfterCLUT(t *testing.T) {
	clut := NewCLUTFromSampler(2, 3, func(in [3]float32) []float32 {
		return []float32{in[0], in[1], in[2]}
	})
	p := &Pipeline{
		InputChannels:  3,
		OutputChannels: 3,
		InputCurves:    []TRC{IdentityTRC{}, IdentityTRC{}, IdentityTRC{}},
		CLUT:           clut,
		Matrix:         Matrix3{{2, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		HasMatrix:      true,
		OutputCurves:   []TRC{IdentityTRC{}, IdentityTRC{}, IdentityTRC{}},
	}

	out := p.Eval([]float32{0.5, 0.25, 0.75})
	want := []float32{1.0, 0.25, 0.75}
	for i, w := range want {
		if diff := out[i] - w; diff > 1e-4 || diff < -1e-4 {
			t.Fatalf("channel %d = %v, want %v", i, out[i], w)
		}
	}
}
