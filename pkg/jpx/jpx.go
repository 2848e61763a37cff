// Package jpx implements the header-only JPEG 2000 intake named as an Open
// Question in the design: JP2 box unwrapping and codestream main-header
// parsing (SIZ) are implemented directly; the wavelet/EBCOT entropy decode
// is not, and Decode instead defers to an external Decoder the host may
// register, per "implementations that skip this should fall back to an
// external JPX decoder rather than guess."
package jpx

import (
	"github.com/zayg21-pixel/pdf-pixel-sub010/internal/rasterr"
)

// Marker codes this intake recognizes (ISO/IEC 15444-1 Annex A). Only the
// delimiting and SIZ marker are needed to locate and parse the main header.
type Marker uint16

const (
	SOC Marker = 0xFF4F // start of codestream
	SIZ Marker = 0xFF51 // image and tile size
	SOT Marker = 0xFF90 // start of tile-part: main header ends here
	EOC Marker = 0xFFD9 // end of codestream
)

// ComponentInfo mirrors one SIZ component size entry (Ssiz/XRsiz/YRsiz).
type ComponentInfo struct {
	BitDepth     uint8 // low 7 bits are precision-1; bit 7 is the signed flag
	SubsamplingX uint8
	SubsamplingY uint8
}

// Precision returns the component bit precision (1..38).
func (c ComponentInfo) Precision() int { return int(c.BitDepth&0x7F) + 1 }

// Signed reports whether component samples are two's-complement signed.
func (c ComponentInfo) Signed() bool { return c.BitDepth&0x80 != 0 }

// Header is the subset of the JPEG 2000 main header this intake parses: the
// SIZ marker segment, which alone fixes the image descriptor fields (§3)
// this pipeline needs regardless of whether a full decode is available.
type Header struct {
	Width, Height     uint32
	XOffset, YOffset  uint32
	TileWidth, TileHeight uint32
	NumComponents     int
	Components        []ComponentInfo
}

// Image is the fully decoded raster an external Decoder produces, in the
// same row format every other format decoder in this pipeline emits.
type Image struct {
	Width, Height int
	NumComponents int
	Rows          [][]byte
}

// Decoder is the external seam for a full wavelet/EBCOT JPEG 2000 decoder.
// A host that has one (e.g. backed by a C library or another Go module)
// registers it; without one, Decode reports Unsupported so the page-level
// caller can apply the §7 fallback raster.
type Decoder interface {
	Decode(codestream []byte, hdr *Header) (*Image, error)
}

// ParseHeader unwraps a JP2-boxed or raw-codestream byte stream down to the
// codestream bytes and its parsed SIZ header, without touching tile data.
func ParseHeader(data []byte) (*Header, []byte, error) {
	const op = "jpx.ParseHeader"
	codestream := data
	if looksLikeJP2(data) {
		cs, err := extractCodestreamBox(data)
		if err != nil {
			return nil, nil, err
		}
		codestream = cs
	}

	hdr, err := parseMainHeader(codestream)
	if err != nil {
		return nil, nil, rasterr.Wrap(rasterr.Malformed, op, err)
	}
	return hdr, codestream, nil
}

// Decode parses the header and, if ext is non-nil, delegates the full
// decode to it. With no registered decoder, the wavelet path is genuinely
// unimplemented and this reports Unsupported rather than guessing at pixels.
func Decode(data []byte, ext Decoder) (*Image, error) {
	const op = "jpx.Decode"
	hdr, codestream, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if ext != nil {
		return ext.Decode(codestream, hdr)
	}
	return nil, rasterr.New(rasterr.Unsupported, op,
		"no external JPEG2000 decoder registered (width=%d height=%d components=%d)",
		hdr.Width, hdr.Height, hdr.NumComponents)
}

func looksLikeJP2(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	// JP2 signature box: length=0x0000000C, type="jP  " (0x6A502020).
	return data[4] == 'j' && data[5] == 'P' && data[6] == ' ' && data[7] == ' '
}
