package image

import (
	"bytes"
	"io/ioutil"

	"github.com/zayg21-pixel/pdf-pixel-sub010/internal/rasterr"
	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/bitio"
	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/ccitt"
	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/colorspace"
	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/filter"
	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/jpegcodec"
	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/jpx"
	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/log"
	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/raster"
)

// reverseFilters runs the declared outer-to-inner filter chain, producing
// the plain byte stream a format decoder consumes. CCITTFaxDecode/DCTDecode
// /JPXDecode/JBIG2Decode are never chained here — they are always the
// terminal stage and are instead handled by decodeRows per d.Type.
func reverseFilters(encoded []byte, stages []FilterStage, dec filter.Decryptor) ([]byte, error) {
	const op = "image.reverseFilters"
	filters := make([]filter.Filter, 0, len(stages))
	for _, st := range stages {
		f, err := filter.NewFilter(st.Name, st.Parms, dec)
		if err != nil {
			return nil, rasterr.Wrap(rasterr.Unsupported, op, err)
		}
		filters = append(filters, f)
	}
	r, err := filter.Chain(bytes.NewReader(encoded), filters)
	if err != nil {
		return nil, rasterr.Wrap(rasterr.Malformed, op, err)
	}
	out, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, rasterr.Wrap(rasterr.Truncated, op, err)
	}
	return out, nil
}

// decodeRows dispatches the terminal format decode, returning packed
// samples one row at a time at d.BitsPerComponent/d.ComponentCount, except
// for JPEG where rows are always byte-per-sample (JPEG never emits sub-byte
// samples).
func decodeRows(d Descriptor, plain []byte, jpxDecoder jpx.Decoder) ([][]byte, error) {
	const op = "image.decodeRows"
	switch d.Type {
	case Raw:
		return splitRows(plain, rowSizeBytes(d)), nil

	case CCITT:
		r, err := ccitt.Decode(bytes.NewReader(plain), d.CCITTParams)
		if err != nil {
			return nil, err
		}
		out, err := ioutil.ReadAll(r)
		if err != nil {
			return nil, rasterr.Wrap(rasterr.Truncated, op, err)
		}
		rowBytes := (d.CCITTParams.Columns + 7) / 8
		return splitRows(out, rowBytes), nil

	case JPEG:
		img, err := jpegcodec.Decode(bytes.NewReader(plain))
		if err != nil {
			return nil, err
		}
		return img.Rows, nil

	case JPEG2000:
		img, err := jpx.Decode(plain, jpxDecoder)
		if err != nil {
			return nil, err
		}
		return img.Rows, nil

	default:
		return nil, rasterr.New(rasterr.Unsupported, op, "unsupported image kind %d", d.Type)
	}
}

func rowSizeBytes(d Descriptor) int {
	return (d.BitsPerComponent*d.ComponentCount*d.Width + 7) / 8
}

func splitRows(b []byte, rowBytes int) [][]byte {
	n := len(b) / rowBytes
	rows := make([][]byte, n)
	for i := 0; i < n; i++ {
		rows[i] = b[i*rowBytes : (i+1)*rowBytes]
	}
	return rows
}

// applyDownsample interposes the averaging downsample converter between the
// format decoder and the row processor when d.Downsample is set, repacking
// its unpacked uint32 samples back to d.BitsPerComponent before returning.
func applyDownsample(d Descriptor, rows [][]byte) (Descriptor, [][]byte, error) {
	if d.Downsample == nil {
		return d, rows, nil
	}
	conv, err := raster.NewAveragingDownsample(d.Width, d.Height, d.Downsample.TargetWidth, d.Downsample.TargetHeight, d.ComponentCount, d.BitsPerComponent)
	if err != nil {
		return d, nil, err
	}

	out := make([][]byte, d.Downsample.TargetHeight)
	for y, row := range rows {
		conv.WriteSourceRow(y, row, func(dstY int, samples []uint32) {
			out[dstY] = packSamples(samples, d.BitsPerComponent)
		})
	}

	scaled := d
	scaled.Width = d.Downsample.TargetWidth
	scaled.Height = d.Downsample.TargetHeight
	scaled.Downsample = nil
	return scaled, out, nil
}

func packSamples(samples []uint32, bpc int) []byte {
	w := bitio.NewUintBitWriter()
	for _, s := range samples {
		w.WriteBits(bpc, s)
	}
	w.AlignToByte()
	return w.Bytes()
}

// buildProcessor resolves the color-space sampler (when the decision tree
// needs one) and constructs the row processor for d.
func buildProcessor(d Descriptor, resolve colorspace.Resolver) (*raster.Processor, error) {
	mode := raster.DecideMode(d.toRasterDescriptor())

	var sampler colorspace.Sampler
	if mode == raster.RGBAColorApplied && d.ColorSpace != nil {
		s, err := resolve(d.ColorSpace, d.RenderingIntent)
		if err != nil {
			return nil, err
		}
		sampler = s
	}

	return &raster.Processor{
		Mode:       mode,
		Width:      d.Width,
		Components: d.ComponentCount,
		Bpc:        d.BitsPerComponent,
		ColorSpace: d.ColorSpace,
		Sampler:    sampler,
		Decode:     d.DecodeArray,
		ColorKey:   d.ColorKeyMask,
	}, nil
}

// buildPalette synthesizes the PLTE payload for the Passthrough+palette
// branches of the decision tree (§4.7 steps 3 and 6), or returns nil when
// the chosen mode carries no palette.
func buildPalette(d Descriptor, proc *raster.Processor, resolve colorspace.Resolver) ([]byte, error) {
	if proc.Mode != raster.Passthrough || d.ColorSpace == nil {
		return nil, nil
	}
	if d.ColorSpace.Kind == colorspace.Indexed {
		sampler, err := resolve(d.ColorSpace.Base, d.RenderingIntent)
		if err != nil {
			return nil, err
		}
		return raster.IndexedPalette(sampler, d.ColorSpace.HiVal), nil
	}
	if d.ColorSpace.ComponentCount() == 1 {
		sampler, err := resolve(d.ColorSpace, d.RenderingIntent)
		if err != nil {
			return nil, err
		}
		return raster.BuildPalette(sampler, d.BitsPerComponent), nil
	}
	return nil, nil
}

// Decode runs one image through the full pipeline: filter chain reversal,
// format decode, optional downsample, row processing, and sink output. The
// returned bytes are whatever sink.Finish produced.
func Decode(encoded []byte, d Descriptor, resolve colorspace.Resolver, transfer TransferFunction, sink RowSink, dec filter.Decryptor, jpxDecoder jpx.Decoder) ([]byte, error) {
	plain, err := reverseFilters(encoded, d.Filters, dec)
	if err != nil {
		return nil, err
	}

	rows, err := decodeRows(d, plain, jpxDecoder)
	if err != nil {
		return nil, err
	}

	d, rows, err = applyDownsample(d, rows)
	if err != nil {
		return nil, err
	}

	proc, err := buildProcessor(d, resolve)
	if err != nil {
		return nil, err
	}

	palette, err := buildPalette(d, proc, resolve)
	if err != nil {
		return nil, err
	}
	if err := sink.Init(palette, d.ICCProfileBytes); err != nil {
		return nil, err
	}

	for i, row := range rows {
		if i >= d.Height {
			break
		}
		out, err := proc.ProcessRow(row)
		if err != nil {
			return nil, err
		}
		if transfer != nil && proc.Mode == raster.RGBAColorApplied {
			out = applyTransfer(out, transfer)
		}
		if err := sink.WriteRow(out); err != nil {
			return nil, err
		}
	}

	return sink.Finish()
}

func applyTransfer(row []byte, tr TransferFunction) []byte {
	out := make([]byte, len(row))
	for i := 0; i+3 < len(row); i += 4 {
		in := [4]float32{
			float32(row[i]) / 255,
			float32(row[i+1]) / 255,
			float32(row[i+2]) / 255,
			float32(row[i+3]) / 255,
		}
		rgba := tr(in)
		out[i] = to8Clamped(rgba[0])
		out[i+1] = to8Clamped(rgba[1])
		out[i+2] = to8Clamped(rgba[2])
		out[i+3] = to8Clamped(rgba[3])
	}
	return out
}

func to8Clamped(v float32) byte {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}

// logFallback is called by the page-level caller (not from within Decode,
// which never swallows its own errors) to record why an image degraded to
// the §7 1x1 transparent fallback raster.
func logFallback(name string, err error) {
	log.Info.Printf("image %q: decode failed, using fallback raster: %v", name, err)
}
