package filter

import (
	"bytes"
	"io"
	"io/ioutil"

	"github.com/hhrutter/lzw"
	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/log"
	"github.com/pkg/errors"
)

type lzwDecode struct {
	baseFilter
}

func (f lzwDecode) predictorParams() PredictorParams {
	return PredictorParams{
		Predictor: f.intParm("Predictor", PredictorNo),
		Colors:    f.intParm("Colors", 1),
		Bpc:       f.intParm("BitsPerComponent", 8),
		Columns:   f.intParm("Columns", 1),
	}
}

// Decode implements decoding for an LZWDecode filter: variable 9-12 bit
// codes via hhrutter/lzw, followed by optional TIFF/PNG predictor undo.
func (f lzwDecode) Decode(r io.Reader) (io.Reader, error) {
	log.Trace.Println("lzw: decode begin")

	ec := f.intParm("EarlyChange", 1)
	rc := lzw.NewReader(r, ec == 1)
	defer rc.Close()

	p := f.predictorParams()
	out, err := UndoPredictor(rc, p)
	if err != nil {
		return nil, errors.Wrap(err, "lzw: predictor undo")
	}
	return out, nil
}

// Encode implements encoding for an LZWDecode filter.
func (f lzwDecode) Encode(r io.Reader) (io.Reader, error) {
	p, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	ec := f.intParm("EarlyChange", 1)

	var b bytes.Buffer
	wc := lzw.NewWriter(&b, ec == 1)
	if _, err := wc.Write(p); err != nil {
		return nil, err
	}
	if err := wc.Close(); err != nil {
		return nil, err
	}
	return &b, nil
}
