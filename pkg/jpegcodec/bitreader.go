package jpegcodec

import (
	"io"

	"github.com/zayg21-pixel/pdf-pixel-sub010/internal/rasterr"
)

// entropyReader is an MSB-first bit reader over JPEG entropy-coded data: it
// transparently strips byte-stuffing (0xFF 0x00 -> 0xFF) and stops at the
// next real marker (0xFF followed by a non-zero, non-stuffing byte).
type entropyReader struct {
	src    []byte
	pos    int
	bitBuf uint32
	nBits  uint
	marker bool // a real marker was encountered; further reads return 0 bits
}

func newEntropyReader(src []byte) *entropyReader {
	return &entropyReader{src: src}
}

func (r *entropyReader) fillByte() (byte, bool) {
	for {
		if r.marker || r.pos >= len(r.src) {
			return 0, false
		}
		b := r.src[r.pos]
		r.pos++
		if b == 0xFF {
			if r.pos < len(r.src) && r.src[r.pos] == 0x00 {
				r.pos++
				return 0xFF, true
			}
			if r.pos < len(r.src) && r.src[r.pos] >= 0xD0 && r.src[r.pos] <= 0xD7 {
				// Restart marker embedded in the entropy segment: the caller
				// resets predictor/decoder state around restartInterval
				// boundaries, so just skip the two marker bytes and keep
				// feeding bits from whatever follows.
				r.pos++
				continue
			}
			// Real marker: stop feeding entropy bits.
			r.pos--
			r.marker = true
			return 0, false
		}
		return b, true
	}
}

// readBits returns the next n bits (MSB first). Once a marker is hit it
// pads with zero bits (an infinite zero tail, like CCITT's end-of-stream
// padding) and still reports ok=true.
func (r *entropyReader) readBits(n int) (uint32, bool) {
	for r.nBits < uint(n) {
		b, ok := r.fillByte()
		if !ok {
			// Pad with zero bits rather than fail outright; the caller
			// reports truncation only if it never finds a valid symbol.
			r.bitBuf = r.bitBuf << 8
			r.nBits += 8
			continue
		}
		r.bitBuf = r.bitBuf<<8 | uint32(b)
		r.nBits += 8
	}
	v := (r.bitBuf >> (r.nBits - uint(n))) & ((1 << uint(n)) - 1)
	r.nBits -= uint(n)
	return v, true
}

func (r *entropyReader) peekBits(n int) uint32 {
	v, _ := r.readBits(n)
	r.nBits += uint(n)
	return v
}

// receiveExtend reads n bits and sign-extends per JPEG Annex F.
func receiveExtend(r *entropyReader, n int) int32 {
	if n == 0 {
		return 0
	}
	v, _ := r.readBits(n)
	vv := int32(v)
	if vv < 1<<(uint(n)-1) {
		vv -= 1<<uint(n) - 1
	}
	return vv
}

// decodeHuff walks the flat 16-bit lookup table to resolve one symbol.
func decodeHuff(r *entropyReader, t *huffTable) (uint8, error) {
	peek := r.peekBits(16)
	e := t.lut[peek]
	if e.length == 0 {
		return 0, rasterr.New(rasterr.Malformed, "jpegcodec.decodeHuff", "no matching Huffman code")
	}
	r.readBits(int(e.length))
	return e.symbol, nil
}

func (r *entropyReader) reset() {
	r.bitBuf = 0
	r.nBits = 0
	r.marker = false
}

var errShortRead = io.ErrUnexpectedEOF
