package jpx

import (
	"github.com/zayg21-pixel/pdf-pixel-sub010/internal/rasterr"
	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/bitio"
)

// boxTypeContCodestream is the JP2 box type this intake walks the top-level
// box sequence to find.
const boxTypeContCodestream = 0x6A703263 // "jp2c"

// extractCodestreamBox walks the top-level JP2 box sequence and returns the
// contents of the first contiguous codestream box ("jp2c"). Only the box
// header/length framing is parsed — sub-boxes inside "jp2h" (ihdr, colr,
// ...) are not needed for header-only intake since SIZ in the codestream
// itself repeats width/height/component count.
func extractCodestreamBox(data []byte) ([]byte, error) {
	const op = "jpx.extractCodestreamBox"
	r := bitio.NewBigEndianReader(data)
	offset := 0

	for offset+8 <= r.Len() {
		length32, ok := r.ReadU32(offset)
		if !ok {
			return nil, rasterr.New(rasterr.Truncated, op, "truncated box header at offset %d", offset)
		}
		typ, ok := r.ReadU32(offset + 4)
		if !ok {
			return nil, rasterr.New(rasterr.Truncated, op, "truncated box header at offset %d", offset)
		}

		headerLen := 8
		length := uint64(length32)
		if length32 == 1 {
			ext, ok := readU64(r, offset+8)
			if !ok {
				return nil, rasterr.New(rasterr.Truncated, op, "truncated extended box length at offset %d", offset)
			}
			length = ext
			headerLen = 16
		} else if length32 == 0 {
			// Box extends to end of stream.
			length = uint64(r.Len() - offset)
		}

		if length < uint64(headerLen) || offset+int(length) > r.Len() {
			return nil, rasterr.New(rasterr.Malformed, op, "invalid box length %d at offset %d", length, offset)
		}

		contentStart := offset + headerLen
		contentEnd := offset + int(length)

		if typ == boxTypeContCodestream {
			b, ok := r.ReadBytes(contentStart, contentEnd-contentStart)
			if !ok {
				return nil, rasterr.New(rasterr.Truncated, op, "truncated codestream box")
			}
			return b, nil
		}

		offset = contentEnd
	}

	return nil, rasterr.New(rasterr.Malformed, op, "no contiguous codestream box (jp2c) found")
}

func readU64(r *bitio.BigEndianReader, offset int) (uint64, bool) {
	hi, ok := r.ReadU32(offset)
	if !ok {
		return 0, false
	}
	lo, ok := r.ReadU32(offset + 4)
	if !ok {
		return 0, false
	}
	return uint64(hi)<<32 | uint64(lo), true
}
