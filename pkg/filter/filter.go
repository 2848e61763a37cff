// Package filter reverses the PDF stream filter chain that sits in front of
// every image decoder: Flate/LZW with PNG or TIFF prediction, ASCIIHex,
// ASCII85, RunLength, and a Crypt passthrough for an external decryptor. Once
// reversed, the resulting byte stream is handed to a format-specific row
// producer (CCITT, JPEG, raw) — filter never looks inside image semantics.
package filter

import (
	"io"

	"github.com/pkg/errors"
)

// PDF defines the following filter names (see 7.4).
const (
	ASCII85   = "ASCII85Decode"
	ASCIIHex  = "ASCIIHexDecode"
	RunLength = "RunLengthDecode"
	LZW       = "LZWDecode"
	Flate     = "FlateDecode"
	CCITTFax  = "CCITTFaxDecode"
	JBIG2     = "JBIG2Decode"
	DCT       = "DCTDecode"
	JPX       = "JPXDecode"
	Crypt     = "Crypt"
)

// ErrUnsupportedFilter signals a filter name this chain does not reverse.
var ErrUnsupportedFilter = errors.New("filter: unsupported filter")

// Decryptor is the external seam a Crypt filter stage calls into. A document
// without encryption never registers one; Decrypt is then a passthrough.
type Decryptor interface {
	Decrypt(objNr, genNr int, name string, b []byte) ([]byte, error)
}

// Filter reverses (Decode) or produces (Encode) one stage of a filter chain.
type Filter interface {
	Decode(r io.Reader) (io.Reader, error)
	Encode(r io.Reader) (io.Reader, error)
}

type baseFilter struct {
	parms map[string]int
}

func (f baseFilter) intParm(name string, def int) int {
	if v, ok := f.parms[name]; ok {
		return v
	}
	return def
}

func (f baseFilter) boolParm(name string) bool {
	v, ok := f.parms[name]
	return ok && v != 0
}

// NewFilter returns the Filter for filterName, parameterized by parms (the
// PDF DecodeParms dictionary flattened to ints/bools by the caller).
func NewFilter(filterName string, parms map[string]int, dec Decryptor) (Filter, error) {
	switch filterName {
	case ASCII85:
		return ascii85Decode{baseFilter{parms}}, nil
	case ASCIIHex:
		return asciiHexDecode{baseFilter{parms}}, nil
	case RunLength:
		return runLengthDecode{baseFilter{parms}}, nil
	case LZW:
		return lzwDecode{baseFilter{parms}}, nil
	case Flate:
		return flateDecode{baseFilter{parms}}, nil
	case Crypt:
		return cryptDecode{baseFilter{parms}, dec}, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedFilter, "filter %q", filterName)
	}
}

// List returns the filters reversible by this chain in isolation of image
// processing (CCITTFax/DCT/JPX/JBIG2 only make sense as the terminal stage of
// an image's filter pipeline and are decoded by pkg/ccitt, pkg/jpegcodec and
// pkg/jpx respectively).
func List() []string {
	return []string{ASCII85, ASCIIHex, RunLength, LZW, Flate, Crypt}
}

// Chain reverses an ordered sequence of filters, outer to inner, feeding the
// output of each stage into the next. An empty chain returns r unchanged.
func Chain(r io.Reader, stages []Filter) (io.Reader, error) {
	cur := r
	for i, f := range stages {
		next, err := f.Decode(cur)
		if err != nil {
			return nil, errors.Wrapf(err, "filter chain stage %d", i)
		}
		cur = next
	}
	return cur, nil
}
