package icc

import "testing"

// TestCLUTGridIdentity is the literal invariant: sampling the builder with
// the identity function and then querying the grid points exactly returns
// the grid value, since multilinear interpolation is exact at nodes.
func TestCLUTGridIdentity(t *testing.T) {
	const grid = 5
	c := NewCLUTFromSampler(grid, 3, func(in [3]float32) []float32 {
		return []float32{in[0], in[1], in[2]}
	})

	last := float32(grid - 1)
	for i := 0; i < grid; i++ {
		for j := 0; j < grid; j++ {
			for k := 0; k < grid; k++ {
				in := [3]float32{float32(i) / last, float32(j) / last, float32(k) / last}
				out := c.Eval(in)
				for axis, want := range in {
					if diff := out[axis] - want; diff > 1e-5 || diff < -1e-5 {
						t.Fatalf("node (%d,%d,%d) axis %d: got %v, want %v", i, j, k, axis, out[axis], want)
					}
				}
			}
		}
	}
}

func TestCLUTInterpolatesBetweenNodes(t *testing.T) {
	c := NewCLUTFromSampler(2, 1, func(in [3]float32) []float32 {
		return []float32{in[0] + in[1] + in[2]}
	})
	out := c.Eval([3]float32{0.5, 0.5, 0.5})
	want := float32(1.5)
	if diff := out[0] - want; diff > 1e-4 || diff < -1e-4 {
		t.Fatalf("midpoint = %v, want %v", out[0], want)
	}
}

func TestCLUTValidateRejectsBadGrid(t *testing.T) {
	c := &CLUT{GridSize: 1, OutputChannels: 3, data: make([]float32, 3)}
	if err := c.validate("test"); err == nil {
		t.Fatalf("expected error for grid size 1")
	}
}
