package raster

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"hash"
	"hash/adler32"
	"hash/crc32"

	"github.com/zayg21-pixel/pdf-pixel-sub010/internal/rasterr"
)

var pngSignature = [8]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

const idatFlushThreshold = 64 * 1024

// PNG row filter tags (RFC 2083); mirrors pkg/filter's predictor constants
// but is kept local since this encoder applies filters (picks one per row,
// writes forward) rather than undoes them.
const (
	filterNone = iota
	filterSub
	filterUp
	filterAverage
	filterPaeth
)

// PNGEncoder is a streaming PNG row sink: fixed output color type 6 (RGBA),
// bit depth 8, interlace 0. It writes the signature and IHDR up front, picks
// an adaptive filter per row, and flushes IDAT chunks as the internal
// DEFLATE buffer fills.
type PNGEncoder struct {
	out    *bytes.Buffer
	width  int
	height int

	finished    bool
	rowsWritten int

	prior []byte

	zlibHeaderWritten bool
	adlerState        hash.Hash32
	deflate           *flate.Writer
	idatBuf           bytes.Buffer
}

// NewPNGEncoder constructs an encoder for a width x height RGBA8 raster and
// writes the signature + IHDR to out immediately.
func NewPNGEncoder(width, height int) (*PNGEncoder, error) {
	const op = "raster.NewPNGEncoder"
	if width <= 0 || height <= 0 {
		return nil, rasterr.New(rasterr.Semantic, op, "non-positive dimension %dx%d", width, height)
	}
	e := &PNGEncoder{
		out:    &bytes.Buffer{},
		width:  width,
		height: height,
		prior:  make([]byte, width*4),
	}
	e.out.Write(pngSignature[:])
	e.writeIHDR()

	w, err := flate.NewWriter(&e.idatBuf, flate.DefaultCompression)
	if err != nil {
		return nil, rasterr.Wrap(rasterr.Malformed, op, err)
	}
	e.deflate = w
	return e, nil
}

func (e *PNGEncoder) writeChunk(typ string, data []byte) {
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(len(data)))
	copy(hdr[4:8], typ)
	e.out.Write(hdr[:])
	e.out.Write(data)
	crc := crc32.NewIEEE()
	crc.Write(hdr[4:8])
	crc.Write(data)
	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], crc.Sum32())
	e.out.Write(crcBuf[:])
}

func (e *PNGEncoder) writeIHDR() {
	var ihdr [13]byte
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(e.width))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(e.height))
	ihdr[8] = 8  // bit depth
	ihdr[9] = 6  // color type: RGBA
	ihdr[10] = 0 // compression
	ihdr[11] = 0 // filter
	ihdr[12] = 0 // interlace
	e.writeChunk("IHDR", ihdr[:])
}

// WritePLTE emits a palette chunk (3 bytes per entry); used when the row
// processor built an indexed palette for passthrough images the consumer
// wants re-synthesized as a PNG palette.
func (e *PNGEncoder) WritePLTE(rgba []byte) {
	entries := len(rgba) / 4
	plte := make([]byte, entries*3)
	trns := make([]byte, entries)
	hasAlpha := false
	for i := 0; i < entries; i++ {
		plte[i*3+0] = rgba[i*4+0]
		plte[i*3+1] = rgba[i*4+1]
		plte[i*3+2] = rgba[i*4+2]
		trns[i] = rgba[i*4+3]
		if trns[i] != 255 {
			hasAlpha = true
		}
	}
	e.writeChunk("PLTE", plte)
	if hasAlpha {
		e.writeChunk("tRNS", trns)
	}
}

// WriteICCProfile emits an iCCP chunk (profile name + compression method 0
// + zlib-compressed profile bytes).
func (e *PNGEncoder) WriteICCProfile(name string, profile []byte) error {
	var buf bytes.Buffer
	buf.WriteString(name)
	buf.WriteByte(0)
	buf.WriteByte(0) // compression method: zlib/deflate

	var zbuf bytes.Buffer
	zbuf.Write([]byte{0x78, 0x9C})
	zw, err := flate.NewWriter(&zbuf, flate.DefaultCompression)
	if err != nil {
		return rasterr.Wrap(rasterr.Malformed, "raster.WriteICCProfile", err)
	}
	if _, err := zw.Write(profile); err != nil {
		return rasterr.Wrap(rasterr.Malformed, "raster.WriteICCProfile", err)
	}
	if err := zw.Close(); err != nil {
		return rasterr.Wrap(rasterr.Malformed, "raster.WriteICCProfile", err)
	}
	var adlerBuf [4]byte
	binary.BigEndian.PutUint32(adlerBuf[:], adler32.Checksum(profile))
	zbuf.Write(adlerBuf[:])

	buf.Write(zbuf.Bytes())
	e.writeChunk("iCCP", buf.Bytes())
	return nil
}

// WriteRow filters one RGBA8 row (len(row) == width*4) and feeds it into the
// IDAT DEFLATE stream, flushing a chunk once the buffered output crosses
// idatFlushThreshold.
func (e *PNGEncoder) WriteRow(row []byte) error {
	const op = "raster.PNGEncoder.WriteRow"
	if e.finished {
		return rasterr.New(rasterr.Semantic, op, "WriteRow after Finish")
	}
	if len(row) != e.width*4 {
		return rasterr.New(rasterr.Semantic, op, "row length %d, want %d", len(row), e.width*4)
	}
	if e.rowsWritten >= e.height {
		return rasterr.New(rasterr.Semantic, op, "more rows written than declared height %d", e.height)
	}

	filtered := e.chooseFilter(row, e.prior)

	if !e.zlibHeaderWritten {
		e.idatBuf.Write([]byte{0x78, 0x9C})
		e.zlibHeaderWritten = true
		e.adlerState = adler32.New()
	}
	e.adlerState.Write(filtered)
	if _, err := e.deflate.Write(filtered); err != nil {
		return rasterr.Wrap(rasterr.Malformed, op, err)
	}

	e.prior = append(e.prior[:0], row...)
	e.rowsWritten++

	if e.idatBuf.Len() >= idatFlushThreshold {
		e.flushIDAT()
	}
	return nil
}

func (e *PNGEncoder) flushIDAT() {
	if e.idatBuf.Len() == 0 {
		return
	}
	data := make([]byte, e.idatBuf.Len())
	copy(data, e.idatBuf.Bytes())
	e.idatBuf.Reset()
	e.writeChunk("IDAT", data)
}

// chooseFilter tries all five PNG filters, scoring each by sum of absolute
// residuals (treated as signed bytes) with an early-out once the running
// cost reaches the best seen, and returns [filterByte, filtered bytes...]
// for the lowest-scoring filter.
func (e *PNGEncoder) chooseFilter(raw, prior []byte) []byte {
	const bpp = 4
	candidates := [5][]byte{}
	scores := [5]int{}
	best := -1

	for f := 0; f < 5; f++ {
		buf := make([]byte, len(raw)+1)
		buf[0] = byte(f)
		score := 0
		aborted := false
		for i, v := range raw {
			var a, b, c byte
			if i >= bpp {
				a = raw[i-bpp]
				c = prior[i-bpp]
			}
			b = prior[i]
			var out byte
			switch f {
			case filterNone:
				out = v
			case filterSub:
				out = v - a
			case filterUp:
				out = v - b
			case filterAverage:
				out = v - byte((int(a)+int(b))/2)
			case filterPaeth:
				out = v - paethPredict(a, b, c)
			}
			buf[1+i] = out
			score += residual(out)
			if best >= 0 && score >= scores[best] {
				aborted = true
				break
			}
		}
		if aborted {
			continue
		}
		candidates[f] = buf
		scores[f] = score
		if best < 0 || score < scores[best] {
			best = f
		}
	}
	// The filterNone pass (f==0) never aborts early, since best is still
	// unset on its own pass, so best is always assigned by the time the
	// loop ends.
	return candidates[best]
}

func residual(b byte) int {
	v := int(int8(b))
	if v < 0 {
		return -v
	}
	return v
}

func paethPredict(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Finish writes the Adler-32 trailer, flushes any remaining IDAT data, and
// writes IEND. It fails if fewer rows than the declared height were written.
func (e *PNGEncoder) Finish() ([]byte, error) {
	const op = "raster.PNGEncoder.Finish"
	if e.finished {
		return nil, rasterr.New(rasterr.Semantic, op, "Finish called twice")
	}
	if e.rowsWritten != e.height {
		return nil, rasterr.New(rasterr.Semantic, op, "Finish: wrote %d rows, declared height %d", e.rowsWritten, e.height)
	}
	if err := e.deflate.Close(); err != nil {
		return nil, rasterr.Wrap(rasterr.Malformed, op, err)
	}

	var adlerTrailer [4]byte
	binary.BigEndian.PutUint32(adlerTrailer[:], e.adlerState.Sum32())
	e.idatBuf.Write(adlerTrailer[:])
	e.flushIDAT()

	e.writeChunk("IEND", nil)
	e.finished = true
	return e.out.Bytes(), nil
}
