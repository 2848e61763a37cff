package icc

import (
	"math"
	"testing"
)

// TestParametricType3SRGBScenario is the literal §8 scenario: the sRGB
// transfer function at x=0.5 evaluates to ~0.2140.
func TestParametricType3SRGBScenario(t *testing.T) {
	trc := ParametricTRC{
		Type: 3,
		G:    2.4,
		A:    1 / 1.055,
		B:    0.055 / 1.055,
		C:    1 / 12.92,
		D:    0.04045,
	}
	got := trc.Eval(0.5)
	want := float32(0.2140)
	if math.Abs(float64(got-want)) > 1e-3 {
		t.Fatalf("Eval(0.5) = %v, want ~%v", got, want)
	}
}

// TestTRCMonotonicity checks every TRC kind is monotone non-decreasing on
// [0,1], the invariant the design requires of every parsed curve.
func TestTRCMonotonicity(t *testing.T) {
	curves := []TRC{
		GammaTRC{G: 2.2},
		GammaTRC{G: 0.45},
		NewSampledTRC([]uint16{0, 10000, 20000, 65535}),
		ParametricTRC{Type: 0, G: 2.2},
		ParametricTRC{Type: 1, G: 2.2, A: 1, B: 0},
		ParametricTRC{Type: 2, G: 2.2, A: 1, B: 0, C: 0.01},
		ParametricTRC{Type: 3, G: 2.4, A: 1 / 1.055, B: 0.055 / 1.055, C: 1 / 12.92, D: 0.04045},
		ParametricTRC{Type: 4, G: 2.4, A: 1 / 1.055, B: 0.055 / 1.055, C: 1 / 12.92, D: 0.04045, E: 0, F: 0},
	}

	const steps = 200
	const eps = 1e-4
	for ci, c := range curves {
		prev := c.Eval(0)
		for i := 1; i <= steps; i++ {
			x := float32(i) / steps
			v := c.Eval(x)
			if v < prev-eps {
				t.Fatalf("curve %d not monotone at x=%v: %v < %v", ci, x, v, prev)
			}
			prev = v
		}
	}
}

func TestSampledTRCResamplesShortTables(t *testing.T) {
	trc := NewSampledTRC([]uint16{0, 32768, 65535})
	if len(trc.samples) < minSampledLen {
		t.Fatalf("short table not resampled: got %d entries", len(trc.samples))
	}
	if v := trc.Eval(0); v != 0 {
		t.Fatalf("Eval(0) = %v, want 0", v)
	}
	if v := trc.Eval(1); math.Abs(float64(v-1)) > 1e-3 {
		t.Fatalf("Eval(1) = %v, want ~1", v)
	}
}
