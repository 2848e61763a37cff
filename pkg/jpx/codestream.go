package jpx

import (
	"github.com/zayg21-pixel/pdf-pixel-sub010/internal/rasterr"
	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/bitio"
)

// parseMainHeader reads SOC + SIZ from a raw codestream and stops — it never
// reads past the first SOT, since COD/QCD/tile data only matter to a full
// wavelet decoder this intake does not implement.
func parseMainHeader(cs []byte) (*Header, error) {
	const op = "jpx.parseMainHeader"
	r := bitio.NewBigEndianReader(cs)

	soc, ok := r.ReadU16(0)
	if !ok {
		return nil, rasterr.New(rasterr.Truncated, op, "truncated codestream")
	}
	if Marker(soc) != SOC {
		return nil, rasterr.New(rasterr.Malformed, op, "missing SOC marker, got %#04x", soc)
	}

	sizMarker, ok := r.ReadU16(2)
	if !ok {
		return nil, rasterr.New(rasterr.Truncated, op, "truncated codestream after SOC")
	}
	if Marker(sizMarker) != SIZ {
		return nil, rasterr.New(rasterr.Malformed, op, "expected SIZ after SOC, got %#04x", sizMarker)
	}

	return readSIZSegment(r, 4)
}

// readSIZSegment parses the SIZ marker segment starting at the offset of its
// Lsiz length field (ISO/IEC 15444-1 §A.5.1).
func readSIZSegment(r *bitio.BigEndianReader, offset int) (*Header, error) {
	const op = "jpx.readSIZSegment"

	length, ok := r.ReadU16(offset)
	if !ok {
		return nil, rasterr.New(rasterr.Truncated, op, "truncated SIZ length")
	}

	// offset+2: Rsiz (capabilities, unused by header-only intake)
	o := offset + 4
	fields := make([]uint32, 8)
	for i := range fields {
		v, ok := r.ReadU32(o)
		if !ok {
			return nil, rasterr.New(rasterr.Truncated, op, "truncated SIZ image/tile size fields")
		}
		fields[i] = v
		o += 4
	}

	numComponents, ok := r.ReadU16(o)
	if !ok {
		return nil, rasterr.New(rasterr.Truncated, op, "truncated SIZ component count")
	}
	o += 2

	expectedLen := 38 + 3*int(numComponents)
	if int(length) != expectedLen {
		return nil, rasterr.New(rasterr.Semantic, op, "SIZ length mismatch: declared %d, expected %d", length, expectedLen)
	}

	if fields[0] == 0 || fields[1] == 0 {
		return nil, rasterr.New(rasterr.Semantic, op, "zero image dimension in SIZ")
	}

	components := make([]ComponentInfo, numComponents)
	for i := range components {
		ssiz, ok := r.ReadBytes(o, 1)
		if !ok {
			return nil, rasterr.New(rasterr.Truncated, op, "truncated SIZ component %d", i)
		}
		xy, ok := r.ReadBytes(o+1, 2)
		if !ok {
			return nil, rasterr.New(rasterr.Truncated, op, "truncated SIZ component %d subsampling", i)
		}
		components[i] = ComponentInfo{
			BitDepth:     ssiz[0],
			SubsamplingX: xy[0],
			SubsamplingY: xy[1],
		}
		o += 3
	}

	return &Header{
		Width:         fields[0],
		Height:        fields[1],
		XOffset:       fields[2],
		YOffset:       fields[3],
		TileWidth:     fields[4],
		TileHeight:    fields[5],
		NumComponents: int(numComponents),
		Components:    components,
	}, nil
}
