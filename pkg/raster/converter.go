// Package raster implements the post-decode stages of the image pipeline:
// nearest-neighbor and averaging row converters, the row processor that
// picks an output mode and applies color-space conversion, and the
// streaming PNG row encoder that emits the final raster.
package raster

import (
	"github.com/zayg21-pixel/pdf-pixel-sub010/internal/rasterr"
	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/bitio"
)

// validBpc reports whether bpc is one of the bit depths this pipeline
// unpacks samples at.
func validBpc(bpc int) bool {
	switch bpc {
	case 1, 2, 4, 8, 16:
		return true
	}
	return false
}

// unpackRow reads n samples of the given bit depth from a packed row.
func unpackRow(row []byte, bpc, n int) []uint32 {
	out := make([]uint32, n)
	br := bitio.NewUintBitReader(row)
	for i := 0; i < n; i++ {
		v, ok := br.ReadBits(bpc)
		if !ok {
			break
		}
		out[i] = v
	}
	return out
}

// NearestNeighbor resamples rows and columns independently by precomputing,
// for each destination coordinate, the nearest source coordinate under
// pixel-center sampling. Output bit depth equals input.
type NearestNeighbor struct {
	srcWidth, srcHeight   int
	dstWidth, dstHeight   int
	components            int
	bpc                   int
	srcColForDst          []int
	srcRowForDst          []int
	pendingSrcRow         int
	haveSrcRow            bool
	lastSrcRow            []uint32
}

// NewNearestNeighbor builds a converter from srcW x srcH to dstW x dstH.
func NewNearestNeighbor(srcW, srcH, dstW, dstH, components, bpc int) (*NearestNeighbor, error) {
	const op = "raster.NewNearestNeighbor"
	if !validBpc(bpc) {
		return nil, rasterr.New(rasterr.Semantic, op, "unsupported bpc %d", bpc)
	}
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return nil, rasterr.New(rasterr.Semantic, op, "non-positive dimension")
	}

	n := &NearestNeighbor{
		srcWidth: srcW, srcHeight: srcH,
		dstWidth: dstW, dstHeight: dstH,
		components: components, bpc: bpc,
	}
	n.srcColForDst = mapAxis(srcW, dstW)
	n.srcRowForDst = mapAxis(srcH, dstH)
	return n, nil
}

// mapAxis computes src index for each dst index via pixel-center sampling
// s = (d+0.5)/scale - 0.5, monotonized (clamped into range and non-decreasing).
func mapAxis(srcN, dstN int) []int {
	out := make([]int, dstN)
	scale := float64(dstN) / float64(srcN)
	prev := 0
	for d := 0; d < dstN; d++ {
		s := (float64(d)+0.5)/scale - 0.5
		idx := int(s + 0.5)
		if idx < 0 {
			idx = 0
		}
		if idx > srcN-1 {
			idx = srcN - 1
		}
		if idx < prev {
			idx = prev
		}
		out[d] = idx
		prev = idx
	}
	return out
}

// WriteSourceRow feeds one source row (srcRowIndex must be strictly
// increasing). dst receives zero or more output rows via emit; most source
// rows map to exactly one destination row, some to zero (skipped) or
// multiple (replicated) depending on the scale factor.
func (n *NearestNeighbor) WriteSourceRow(srcRowIndex int, row []byte, emit func(dstRowIndex int, row []uint32)) {
	n.pendingSrcRow = srcRowIndex
	n.lastSrcRow = unpackRow(row, n.bpc, n.srcWidth*n.components)
	n.haveSrcRow = true

	for d, s := range n.srcRowForDst {
		if s == srcRowIndex {
			emit(d, n.resampleCols(n.lastSrcRow))
		}
	}
}

func (n *NearestNeighbor) resampleCols(src []uint32) []uint32 {
	out := make([]uint32, n.dstWidth*n.components)
	for d, s := range n.srcColForDst {
		copy(out[d*n.components:(d+1)*n.components], src[s*n.components:(s+1)*n.components])
	}
	return out
}

// AveragingDownsample accumulates source samples into per-destination-pixel
// buckets and emits a destination row once every contributing source row
// has been consumed. Only downsampling is supported in both axes.
type AveragingDownsample struct {
	srcWidth, srcHeight int
	dstWidth, dstHeight int
	components          int
	bpc                 int
	max                 uint32

	// Each source row contributes to exactly one dst row.
	srcRowForDst []int // dst row for each src row (inverse mapping)
	rowsPerDst   []int // remaining source rows still expected for dst row d

	sum   [][]int64
	count [][]int
}

// NewAveragingDownsample builds a downsampling converter; srcW>=dstW and
// srcH>=dstH are required (construction error otherwise).
func NewAveragingDownsample(srcW, srcH, dstW, dstH, components, bpc int) (*AveragingDownsample, error) {
	const op = "raster.NewAveragingDownsample"
	if !validBpc(bpc) {
		return nil, rasterr.New(rasterr.Semantic, op, "unsupported bpc %d", bpc)
	}
	if dstW > srcW || dstH > srcH {
		return nil, rasterr.New(rasterr.Semantic, op, "averaging converter only supports downsampling, got %dx%d -> %dx%d", srcW, srcH, dstW, dstH)
	}
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return nil, rasterr.New(rasterr.Semantic, op, "non-positive dimension")
	}

	a := &AveragingDownsample{
		srcWidth: srcW, srcHeight: srcH,
		dstWidth: dstW, dstHeight: dstH,
		components: components, bpc: bpc,
		max: uint32(1)<<uint(bpc) - 1,
	}

	a.srcRowForDst = make([]int, srcH)
	rowsPerDst := make([]int, dstH)
	for s := 0; s < srcH; s++ {
		d := s * dstH / srcH
		a.srcRowForDst[s] = d
		rowsPerDst[d]++
	}
	a.rowsPerDst = rowsPerDst

	a.sum = make([][]int64, dstH)
	a.count = make([][]int, dstH)
	return a, nil
}

func (a *AveragingDownsample) ensureBucket(d int) {
	if a.sum[d] == nil {
		a.sum[d] = make([]int64, a.dstWidth*a.components)
		a.count[d] = make([]int, a.dstWidth*a.components)
	}
}

func (a *AveragingDownsample) srcColToDst(s int) int {
	return s * a.dstWidth / a.srcWidth
}

// WriteSourceRow feeds one source row in strictly increasing order. emit is
// called with the destination row (one averaged sample per uint32, at the
// source bit depth; samples are not widened to 8 bits) once its last
// contributing source row has been consumed.
func (a *AveragingDownsample) WriteSourceRow(srcRowIndex int, row []byte, emit func(dstRowIndex int, row []uint32)) {
	d := a.srcRowForDst[srcRowIndex]
	a.ensureBucket(d)

	samples := unpackRow(row, a.bpc, a.srcWidth*a.components)
	for s := 0; s < a.srcWidth; s++ {
		dc := a.srcColToDst(s)
		for ch := 0; ch < a.components; ch++ {
			idx := dc*a.components + ch
			a.sum[d][idx] += int64(samples[s*a.components+ch])
			a.count[d][idx]++
		}
	}

	a.rowsPerDst[d]--
	if a.rowsPerDst[d] == 0 {
		out := make([]uint32, a.dstWidth*a.components)
		for i := range out {
			c := a.count[d][i]
			if c == 0 {
				continue
			}
			v := (a.sum[d][i] + int64(c)/2) / int64(c)
			if v < 0 {
				v = 0
			}
			if uint32(v) > a.max {
				v = int64(a.max)
			}
			out[i] = uint32(v)
		}
		emit(d, out)
		a.sum[d] = nil
		a.count[d] = nil
	}
}
