package icc

import (
	"encoding/binary"

	"github.com/zayg21-pixel/pdf-pixel-sub010/internal/rasterr"
)

// Pipeline is a parsed AToBn tag: input curves -> 3-D CLUT -> matrix ->
// output curves, the classic ICC lut8Type/lut16Type layout.
type Pipeline struct {
	InputChannels, OutputChannels int
	InputCurves                  []TRC
	CLUT                         *CLUT
	Matrix                       Matrix3
	HasMatrix                    bool
	OutputCurves                 []TRC
}

// Eval runs a device-space sample (InputChannels values in [0,1]) through
// the full pipeline and returns OutputChannels normalized floats.
func (p *Pipeline) Eval(in []float32) []float32 {
	pre := make([]float32, len(in))
	for i, x := range in {
		if i < len(p.InputCurves) {
			pre[i] = p.InputCurves[i].Eval(x)
		} else {
			pre[i] = x
		}
	}

	var clutIn [3]float32
	copy(clutIn[:], pre)
	out := p.CLUT.Eval(clutIn)

	if p.HasMatrix && len(out) >= 3 {
		var v [3]float32
		copy(v[:], out[:3])
		v = p.Matrix.MulVec(v)
		copy(out[:3], v[:])
	}

	for i := range out {
		if i < len(p.OutputCurves) {
			out[i] = p.OutputCurves[i].Eval(out[i])
		}
	}
	return out
}

// readAToBTag parses an mft1 (lut8Type) or mft2 (lut16Type) tag: the two
// classic fixed-layout AToBn representations. lutAtoBType (multi-processing
// element) pipelines are not parsed; callers fall back to the matrix/TRC
// path when AToB is nil.
func (p *Profile) readAToBTag(e tagEntry) (*Pipeline, error) {
	const op = "icc.readAToBTag"
	b, err := p.tagBytes(e)
	if err != nil {
		return nil, err
	}
	if len(b) < 4 {
		return nil, rasterr.New(rasterr.Truncated, op, "AToB tag too short")
	}
	switch trimSig(b[0:4]) {
	case "mft1":
		return parseLUT8(b)
	case "mft2":
		return parseLUT16(b)
	default:
		return nil, rasterr.New(rasterr.Unsupported, op, "AToB tag type %q not supported", trimSig(b[0:4]))
	}
}

// lut8Type / lut16Type share a 48-byte header:
//   4  type signature
//   4  reserved
//   1  number of input channels
//   1  number of output channels
//   1  number of CLUT grid points per axis
//   1  reserved/padding
//   36 3x3 matrix, s15Fixed16
// followed (lut16Type only) by 2-byte input/output table entry counts, then
// input tables, CLUT entries, output tables — each entry u8 (mft1) or u16
// (mft2), normalized to [0,1].

func parseLUT8(b []byte) (*Pipeline, error) {
	const op = "icc.parseLUT8"
	if len(b) < 48 {
		return nil, rasterr.New(rasterr.Truncated, op, "lut8Type header too short")
	}
	inCh, outCh, grid := int(b[8]), int(b[9]), int(b[10])
	m := readMatrixAt(b, 12)

	const inTableLen, outTableLen = 256, 256
	off := 48
	inCurves, off, err := readByteCurves(b, off, inCh, inTableLen)
	if err != nil {
		return nil, rasterr.Wrap(rasterr.Truncated, op, err)
	}

	clutEntries := pow(grid, inCh)
	need := clutEntries * outCh
	if off+need > len(b) {
		return nil, rasterr.New(rasterr.Truncated, op, "lut8Type CLUT truncated")
	}
	clutData := make([]float32, need)
	for i := 0; i < need; i++ {
		clutData[i] = float32(b[off+i]) / 255
	}
	off += need

	outCurves, _, err := readByteCurves(b, off, outCh, outTableLen)
	if err != nil {
		return nil, rasterr.Wrap(rasterr.Truncated, op, err)
	}

	return &Pipeline{
		InputChannels: inCh, OutputChannels: outCh,
		InputCurves: inCurves,
		CLUT:        &CLUT{GridSize: grid, InputChannels: inCh, OutputChannels: outCh, data: clutData},
		Matrix:      m, HasMatrix: inCh == 3,
		OutputCurves: outCurves,
	}, nil
}

func parseLUT16(b []byte) (*Pipeline, error) {
	const op = "icc.parseLUT16"
	if len(b) < 52 {
		return nil, rasterr.New(rasterr.Truncated, op, "lut16Type header too short")
	}
	inCh, outCh, grid := int(b[8]), int(b[9]), int(b[10])
	m := readMatrixAt(b, 12)
	inTableLen := int(binary.BigEndian.Uint16(b[48:50]))
	outTableLen := int(binary.BigEndian.Uint16(b[50:52]))

	off := 52
	inCurves, off, err := readWordCurves(b, off, inCh, inTableLen)
	if err != nil {
		return nil, rasterr.Wrap(rasterr.Truncated, op, err)
	}

	clutEntries := pow(grid, inCh)
	need := clutEntries * outCh
	if off+need*2 > len(b) {
		return nil, rasterr.New(rasterr.Truncated, op, "lut16Type CLUT truncated")
	}
	clutData := make([]float32, need)
	for i := 0; i < need; i++ {
		clutData[i] = float32(binary.BigEndian.Uint16(b[off+i*2:])) / 65535
	}
	off += need * 2

	outCurves, _, err := readWordCurves(b, off, outCh, outTableLen)
	if err != nil {
		return nil, rasterr.Wrap(rasterr.Truncated, op, err)
	}

	return &Pipeline{
		InputChannels: inCh, OutputChannels: outCh,
		InputCurves: inCurves,
		CLUT:        &CLUT{GridSize: grid, InputChannels: inCh, OutputChannels: outCh, data: clutData},
		Matrix:      m, HasMatrix: inCh == 3,
		OutputCurves: outCurves,
	}, nil
}

func readMatrixAt(b []byte, off int) Matrix3 {
	var m Matrix3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m[r][c] = s15Fixed16(binary.BigEndian.Uint32(b[off:]))
			off += 4
		}
	}
	return m
}

func readByteCurves(b []byte, off, channels, tableLen int) ([]TRC, int, error) {
	curves := make([]TRC, channels)
	for ch := 0; ch < channels; ch++ {
		if off+tableLen > len(b) {
			return nil, off, rasterr.New(rasterr.Truncated, "icc.readByteCurves", "input/output curve truncated")
		}
		samples := make([]uint16, tableLen)
		for i := 0; i < tableLen; i++ {
			samples[i] = uint16(b[off+i]) * 257
		}
		curves[ch] = NewSampledTRC(samples)
		off += tableLen
	}
	return curves, off, nil
}

func readWordCurves(b []byte, off, channels, tableLen int) ([]TRC, int, error) {
	curves := make([]TRC, channels)
	for ch := 0; ch < channels; ch++ {
		need := tableLen * 2
		if off+need > len(b) {
			return nil, off, rasterr.New(rasterr.Truncated, "icc.readWordCurves", "input/output curve truncated")
		}
		samples := make([]uint16, tableLen)
		for i := 0; i < tableLen; i++ {
			samples[i] = binary.BigEndian.Uint16(b[off+i*2:])
		}
		curves[ch] = NewSampledTRC(samples)
		off += need
	}
	return curves, off, nil
}

func pow(base, exp int) int {
	r := 1
	for i := 0; i < exp; i++ {
		r *= base
	}
	return r
}
