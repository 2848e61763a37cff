package filter

import (
	"bytes"
	"compress/zlib"
	"io"
	"io/ioutil"

	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/log"
	"github.com/pkg/errors"
)

type flateDecode struct {
	baseFilter
}

func (f flateDecode) predictorParams() PredictorParams {
	return PredictorParams{
		Predictor: f.intParm("Predictor", PredictorNo),
		Colors:    f.intParm("Colors", 1),
		Bpc:       f.intParm("BitsPerComponent", 8),
		Columns:   f.intParm("Columns", 1),
	}
}

// Decode implements decoding for a FlateDecode filter, including the optional
// TIFF/PNG predictor postprocessing described in §4.2.
func (f flateDecode) Decode(r io.Reader) (io.Reader, error) {
	log.Trace.Println("flate: decode begin")

	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "flate: zlib header")
	}
	defer zr.Close()

	p := f.predictorParams()
	if !intMemberOf(p.Predictor, []int{PredictorNo, 0, PredictorTIFF, PredictorNone,
		PredictorSub, PredictorUp, PredictorAverage, PredictorPaeth, PredictorOptimum}) {
		return nil, errors.Errorf("flate: undefined Predictor %d", p.Predictor)
	}

	out, err := UndoPredictor(zr, p)
	if err != nil {
		return nil, errors.Wrap(err, "flate: predictor undo")
	}
	return out, nil
}

// Encode implements encoding for a FlateDecode filter. Predictor preprocessing
// is the encoder's responsibility upstream; Encode only applies the zlib
// container.
func (f flateDecode) Encode(r io.Reader) (io.Reader, error) {
	p, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var b bytes.Buffer
	w := zlib.NewWriter(&b)
	if _, err := w.Write(p); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return &b, nil
}

func intMemberOf(i int, list []int) bool {
	for _, v := range list {
		if i == v {
			return true
		}
	}
	return false
}
