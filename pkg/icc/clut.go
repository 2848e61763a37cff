package icc

import "github.com/zayg21-pixel/pdf-pixel-sub010/internal/rasterr"

// CLUT is a uniform N-D lookup table over [0,1]^InputChannels, producing
// OutputChannels normalized floats per node. Only 3-D input (trilinear) is
// implemented; higher dimensions would need the general multilinear walk
// this trilinear path is a specialization of.
type CLUT struct {
	GridSize      int // nodes per axis
	InputChannels int
	OutputChannels int
	data          []float32 // [g0][g1][g2][out], row-major
}

// NewCLUTFromSampler builds a CLUT by evaluating sampler at every node of a
// uniform 3-D grid of the given size; used to flatten a non-CLUT (pure
// matrix/TRC) profile into a CLUT-shaped transform for a uniform pipeline,
// and in tests to check the grid-identity invariant.
func NewCLUTFromSampler(gridSize, outChannels int, sampler func(in [3]float32) []float32) *CLUT {
	c := &CLUT{GridSize: gridSize, InputChannels: 3, OutputChannels: outChannels}
	c.data = make([]float32, gridSize*gridSize*gridSize*outChannels)
	last := float32(gridSize - 1)
	idx := 0
	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			for k := 0; k < gridSize; k++ {
				in := [3]float32{float32(i) / last, float32(j) / last, float32(k) / last}
				out := sampler(in)
				copy(c.data[idx:idx+outChannels], out)
				idx += outChannels
			}
		}
	}
	return c
}

func (c *CLUT) nodeOffset(i, j, k int) int {
	g := c.GridSize
	return ((i*g+j)*g + k) * c.OutputChannels
}

// Eval performs trilinear interpolation of a 3-D input in [0,1]^3 against the
// grid, returning OutputChannels normalized floats.
func (c *CLUT) Eval(in [3]float32) []float32 {
	last := float32(c.GridSize - 1)
	var fi, ff [3]int
	var frac [3]float32
	for a := 0; a < 3; a++ {
		x := clamp01(in[a]) * last
		i0 := int(x)
		if i0 >= c.GridSize-1 {
			i0 = c.GridSize - 2
			if i0 < 0 {
				i0 = 0
			}
		}
		fi[a] = i0
		ff[a] = i0 + 1
		frac[a] = x - float32(i0)
	}

	out := make([]float32, c.OutputChannels)
	for corner := 0; corner < 8; corner++ {
		i := fi[0]
		if corner&1 != 0 {
			i = ff[0]
		}
		j := fi[1]
		if corner&2 != 0 {
			j = ff[1]
		}
		k := fi[2]
		if corner&4 != 0 {
			k = ff[2]
		}

		w := float32(1)
		if corner&1 != 0 {
			w *= frac[0]
		} else {
			w *= 1 - frac[0]
		}
		if corner&2 != 0 {
			w *= frac[1]
		} else {
			w *= 1 - frac[1]
		}
		if corner&4 != 0 {
			w *= frac[2]
		} else {
			w *= 1 - frac[2]
		}

		off := c.nodeOffset(i, j, k)
		for c2 := 0; c2 < len(out); c2++ {
			out[c2] += w * c.data[off+c2]
		}
	}
	return out
}

func (c *CLUT) validate(op string) error {
	if c.GridSize < 2 {
		return rasterr.New(rasterr.Malformed, op, "CLUT grid size %d too small for interpolation", c.GridSize)
	}
	want := c.GridSize * c.GridSize * c.GridSize * c.OutputChannels
	if len(c.data) != want {
		return rasterr.New(rasterr.Malformed, op, "CLUT data length %d, want %d", len(c.data), want)
	}
	return nil
}
