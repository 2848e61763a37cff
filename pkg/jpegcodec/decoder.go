package jpegcodec

import (
	"io"

	"github.com/zayg21-pixel/pdf-pixel-sub010/internal/rasterr"
	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/log"
)

const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerDQT  = 0xDB
	markerDHT  = 0xC4
	markerDRI  = 0xDD
	markerSOS  = 0xDA
	markerSOF0 = 0xC0
	markerSOF1 = 0xC1
	markerSOF2 = 0xC2
	markerAPP0 = 0xE0
	markerAPP14 = 0xEE
)

// component describes one scan component's sampling geometry and holds the
// coefficient storage shared across every scan that touches it (progressive
// JPEG refines coefficients over multiple scans before the final IDCT pass).
type component struct {
	id        uint8
	h, v      int
	tq        int
	blocksPerLine, blocksPerCol int
	coeffs    [][64]int32
	dcPred    int32
	eobRun    int
}

// Image is the fully decoded, color-converted raster, one packed 8-bit
// sample row at a time in the pipeline's row format.
type Image struct {
	Width, Height int
	NumComponents int
	Rows          [][]byte
}

type decoder struct {
	data []byte
	pos  int

	quant   [4]*quantTable
	dcTable [4]*huffTable
	acTable [4]*huffTable

	width, height int
	comps         []component
	restartInterval int

	adobeTransform int // -1 unset, 0 none/CMYK, 1 YCbCr, 2 YCCK
	maxH, maxV     int
}

// Decode parses and fully decodes a JPEG (baseline or progressive) image
// stream into color-converted 8-bit sample rows.
func Decode(r io.Reader) (*Image, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, rasterr.Wrap(rasterr.Truncated, "jpegcodec.Decode", err)
	}
	d := &decoder{data: raw, adobeTransform: -1}
	if err := d.run(); err != nil {
		return nil, err
	}
	return d.assemble()
}

func (d *decoder) u8() (byte, bool) {
	if d.pos >= len(d.data) {
		return 0, false
	}
	b := d.data[d.pos]
	d.pos++
	return b, true
}

func (d *decoder) u16() (uint16, bool) {
	if d.pos+2 > len(d.data) {
		return 0, false
	}
	v := uint16(d.data[d.pos])<<8 | uint16(d.data[d.pos+1])
	d.pos += 2
	return v, true
}

func (d *decoder) run() error {
	b0, ok := d.u8()
	b1, ok2 := d.u8()
	if !ok || !ok2 || b0 != 0xFF || b1 != markerSOI {
		return rasterr.New(rasterr.Malformed, "jpegcodec.run", "missing SOI marker")
	}

	for {
		marker, err := d.nextMarker()
		if err != nil {
			return err
		}
		switch marker {
		case markerEOI:
			return nil
		case markerDQT:
			if err := d.readDQT(); err != nil {
				return err
			}
		case markerDHT:
			if err := d.readDHT(); err != nil {
				return err
			}
		case markerDRI:
			if err := d.readDRI(); err != nil {
				return err
			}
		case markerSOF0, markerSOF1, markerSOF2:
			if err := d.readSOF(marker == markerSOF2); err != nil {
				return err
			}
		case markerSOS:
			if err := d.readSOS(); err != nil {
				return err
			}
		case markerAPP14:
			d.readAdobeAPP14()
		default:
			d.skipSegment()
		}
	}
}

// nextMarker scans to the next 0xFF marker byte (skipping fill bytes) and
// returns the marker code.
func (d *decoder) nextMarker() (byte, error) {
	for {
		b, ok := d.u8()
		if !ok {
			return 0, rasterr.New(rasterr.Truncated, "jpegcodec.nextMarker", "ran out of data before EOI")
		}
		if b != 0xFF {
			continue
		}
		m, ok := d.u8()
		if !ok {
			return 0, rasterr.New(rasterr.Truncated, "jpegcodec.nextMarker", "truncated marker")
		}
		if m == 0x00 || m == 0xFF {
			continue
		}
		return m, nil
	}
}

func (d *decoder) skipSegment() {
	n, ok := d.u16()
	if !ok {
		d.pos = len(d.data)
		return
	}
	d.pos += int(n) - 2
}

func (d *decoder) readDQT() error {
	n, ok := d.u16()
	if !ok {
		return rasterr.New(rasterr.Truncated, "jpegcodec.readDQT", "truncated segment")
	}
	end := d.pos + int(n) - 2
	for d.pos < end {
		pq, ok := d.u8()
		if !ok {
			return rasterr.New(rasterr.Truncated, "jpegcodec.readDQT", "truncated table")
		}
		precision, id := pq>>4, pq&0x0F
		if id > 3 {
			return rasterr.New(rasterr.Malformed, "jpegcodec.readDQT", "quant table id %d out of range", id)
		}
		var q quantTable
		for i := 0; i < 64; i++ {
			var v uint16
			if precision == 0 {
				b, ok := d.u8()
				if !ok {
					return rasterr.New(rasterr.Truncated, "jpegcodec.readDQT", "truncated entries")
				}
				v = uint16(b)
			} else {
				w, ok := d.u16()
				if !ok {
					return rasterr.New(rasterr.Truncated, "jpegcodec.readDQT", "truncated entries")
				}
				v = w
			}
			q[zigzag[i]] = v
		}
		d.quant[id] = &q
	}
	return nil
}

func (d *decoder) readDHT() error {
	n, ok := d.u16()
	if !ok {
		return rasterr.New(rasterr.Truncated, "jpegcodec.readDHT", "truncated segment")
	}
	end := d.pos + int(n) - 2
	for d.pos < end {
		tc, ok := d.u8()
		if !ok {
			return rasterr.New(rasterr.Truncated, "jpegcodec.readDHT", "truncated table header")
		}
		class, id := tc>>4, tc&0x0F
		if id > 3 {
			return rasterr.New(rasterr.Malformed, "jpegcodec.readDHT", "huffman table id %d out of range", id)
		}
		var bits [16]int
		total := 0
		for i := 0; i < 16; i++ {
			b, ok := d.u8()
			if !ok {
				return rasterr.New(rasterr.Truncated, "jpegcodec.readDHT", "truncated bit counts")
			}
			bits[i] = int(b)
			total += int(b)
		}
		values := make([]uint8, total)
		for i := range values {
			b, ok := d.u8()
			if !ok {
				return rasterr.New(rasterr.Truncated, "jpegcodec.readDHT", "truncated values")
			}
			values[i] = b
		}
		t := buildHuffTable(bits, values)
		if class == 0 {
			d.dcTable[id] = t
		} else {
			d.acTable[id] = t
		}
	}
	return nil
}

func (d *decoder) readDRI() error {
	if _, ok := d.u16(); !ok {
		return rasterr.New(rasterr.Truncated, "jpegcodec.readDRI", "truncated segment")
	}
	v, ok := d.u16()
	if !ok {
		return rasterr.New(rasterr.Truncated, "jpegcodec.readDRI", "truncated interval")
	}
	d.restartInterval = int(v)
	return nil
}

func (d *decoder) readAdobeAPP14() {
	n, ok := d.u16()
	if !ok {
		return
	}
	end := d.pos + int(n) - 2
	if end-d.pos >= 12 && d.pos+5 <= len(d.data) && string(d.data[d.pos:d.pos+5]) == "Adobe" {
		d.adobeTransform = int(d.data[end-1])
	}
	d.pos = end
}

func (d *decoder) readSOF(progressive bool) error {
	_ = progressive
	if _, ok := d.u16(); !ok {
		return rasterr.New(rasterr.Truncated, "jpegcodec.readSOF", "truncated segment")
	}
	precision, ok := d.u8()
	if !ok || precision != 8 {
		return rasterr.New(rasterr.Unsupported, "jpegcodec.readSOF", "only 8-bit sample precision is supported")
	}
	h, ok1 := d.u16()
	w, ok2 := d.u16()
	nc, ok3 := d.u8()
	if !ok1 || !ok2 || !ok3 {
		return rasterr.New(rasterr.Truncated, "jpegcodec.readSOF", "truncated frame header")
	}
	d.width, d.height = int(w), int(h)
	if d.width <= 0 || d.height <= 0 {
		return rasterr.New(rasterr.Oversize, "jpegcodec.readSOF", "non-positive dimensions")
	}

	d.comps = make([]component, nc)
	d.maxH, d.maxV = 1, 1
	for i := range d.comps {
		id, ok1 := d.u8()
		hv, ok2 := d.u8()
		tq, ok3 := d.u8()
		if !ok1 || !ok2 || !ok3 {
			return rasterr.New(rasterr.Truncated, "jpegcodec.readSOF", "truncated component entry")
		}
		c := &d.comps[i]
		c.id = id
		c.h = int(hv >> 4)
		c.v = int(hv & 0x0F)
		c.tq = int(tq)
		if c.h > d.maxH {
			d.maxH = c.h
		}
		if c.v > d.maxV {
			d.maxV = c.v
		}
	}

	mcuWidth := 8 * d.maxH
	mcuHeight := 8 * d.maxV
	mcusPerLine := (d.width + mcuWidth - 1) / mcuWidth
	mcusPerCol := (d.height + mcuHeight - 1) / mcuHeight

	for i := range d.comps {
		c := &d.comps[i]
		c.blocksPerLine = mcusPerLine * c.h
		c.blocksPerCol = mcusPerCol * c.v
		c.coeffs = make([][64]int32, c.blocksPerLine*c.blocksPerCol)
	}
	return nil
}

func (d *decoder) componentByID(id uint8) *component {
	for i := range d.comps {
		if d.comps[i].id == id {
			return &d.comps[i]
		}
	}
	return nil
}

type scanComp struct {
	c      *component
	dcSel  int
	acSel  int
}

func (d *decoder) readSOS() error {
	if _, ok := d.u16(); !ok {
		return rasterr.New(rasterr.Truncated, "jpegcodec.readSOS", "truncated segment")
	}
	ns, ok := d.u8()
	if !ok {
		return rasterr.New(rasterr.Truncated, "jpegcodec.readSOS", "truncated component count")
	}
	scan := make([]scanComp, ns)
	for i := range scan {
		cs, ok1 := d.u8()
		td, ok2 := d.u8()
		if !ok1 || !ok2 {
			return rasterr.New(rasterr.Truncated, "jpegcodec.readSOS", "truncated scan component")
		}
		c := d.componentByID(cs)
		if c == nil {
			return rasterr.New(rasterr.Malformed, "jpegcodec.readSOS", "unknown component selector %d", cs)
		}
		scan[i] = scanComp{c: c, dcSel: int(td >> 4), acSel: int(td & 0x0F)}
	}
	ss, ok1 := d.u8()
	se, ok2 := d.u8()
	ahal, ok3 := d.u8()
	if !ok1 || !ok2 || !ok3 {
		return rasterr.New(rasterr.Truncated, "jpegcodec.readSOS", "truncated spectral selection")
	}
	ah, al := int(ahal>>4), int(ahal&0x0F)

	entropyStart := d.pos
	entropyEnd := d.findEntropyEnd()
	r := newEntropyReader(d.data[entropyStart:entropyEnd])
	d.pos = entropyEnd

	for i := range scan {
		scan[i].c.dcPred = 0
		scan[i].c.eobRun = 0
	}

	if len(scan) == 1 && (int(ss) > 0 || len(d.comps) > 1) {
		return d.decodeNonInterleavedScan(r, scan[0], int(ss), int(se), ah, al)
	}
	return d.decodeInterleavedScan(r, scan, int(ss), int(se), ah, al)
}

// findEntropyEnd locates the byte offset of the next real marker (not a
// restart marker, which is part of the entropy segment) after the current
// position, leaving d.pos there.
func (d *decoder) findEntropyEnd() int {
	p := d.pos
	for p+1 < len(d.data) {
		if d.data[p] == 0xFF {
			m := d.data[p+1]
			if m != 0x00 && !(m >= 0xD0 && m <= 0xD7) {
				return p
			}
		}
		p++
	}
	return len(d.data)
}

func (d *decoder) decodeInterleavedScan(r *entropyReader, scan []scanComp, ss, se, ah, al int) error {
	if len(d.comps) > 0 && (d.comps[0].h == 0 || d.comps[0].v == 0) {
		return rasterr.New(rasterr.Malformed, "jpegcodec.decodeInterleavedScan", "degenerate sampling factors")
	}
	mcusPerLine := d.comps[0].blocksPerLine / d.comps[0].h
	mcusPerCol := d.comps[0].blocksPerCol / d.comps[0].v

	mcuCount := 0
	for my := 0; my < mcusPerCol; my++ {
		for mx := 0; mx < mcusPerLine; mx++ {
			if d.restartInterval > 0 && mcuCount > 0 && mcuCount%d.restartInterval == 0 {
				r.reset()
				for i := range scan {
					scan[i].c.dcPred = 0
					scan[i].c.eobRun = 0
				}
			}
			for _, sc := range scan {
				for by := 0; by < sc.c.v; by++ {
					for bx := 0; bx < sc.c.h; bx++ {
						blockCol := mx*sc.c.h + bx
						blockRow := my*sc.c.v + by
						blockIdx := blockRow*sc.c.blocksPerLine + blockCol
						coeffs := &sc.c.coeffs[blockIdx]
						if ah == 0 {
							if err := d.decodeDCFirst(r, sc, coeffs, al); err != nil {
								return err
							}
						} else {
							if err := d.decodeDCRefine(r, coeffs, al); err != nil {
								return err
							}
						}
						if se == 0 {
							// DC-only scan (progressive Ss=Se=0).
							continue
						}
						// Baseline: the same scan carries the full AC band
						// interleaved right after each block's DC term.
						if ah == 0 {
							if err := d.decodeACFirst(r, sc, coeffs, 1, se, al); err != nil {
								return err
							}
						} else {
							if err := d.decodeACRefine(r, sc, coeffs, 1, se, al); err != nil {
								return err
							}
						}
					}
				}
			}
			mcuCount++
		}
	}
	return nil
}

// decodeNonInterleavedScan handles a single-component scan: either a
// baseline full-block scan (ss=0,se=63) over that component's own block
// grid, or a progressive AC scan restricted to [ss,se].
func (d *decoder) decodeNonInterleavedScan(r *entropyReader, sc scanComp, ss, se, ah, al int) error {
	c := sc.c
	for row := 0; row < c.blocksPerCol; row++ {
		for col := 0; col < c.blocksPerLine; col++ {
			blockIdx := row*c.blocksPerLine + col
			coeffs := &c.coeffs[blockIdx]

			if ss == 0 {
				if ah == 0 {
					if err := d.decodeDCFirst(r, sc, coeffs, al); err != nil {
						return err
					}
				} else {
					if err := d.decodeDCRefine(r, coeffs, al); err != nil {
						return err
					}
				}
				if se == 0 {
					continue
				}
			}
			acStart := ss
			if acStart == 0 {
				acStart = 1
			}
			if ah == 0 {
				if err := d.decodeACFirst(r, sc, coeffs, acStart, se, al); err != nil {
					return err
				}
			} else {
				if err := d.decodeACRefine(r, sc, coeffs, acStart, se, al); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (d *decoder) decodeDCFirst(r *entropyReader, sc scanComp, coeffs *[64]int32, al int) error {
	t := d.dcTable[sc.dcSel]
	if t == nil {
		return rasterr.New(rasterr.Malformed, "jpegcodec.decodeDCFirst", "missing DC huffman table")
	}
	s, err := decodeHuff(r, t)
	if err != nil {
		return err
	}
	diff := receiveExtend(r, int(s))
	sc.c.dcPred += diff
	coeffs[0] = sc.c.dcPred << uint(al)
	return nil
}

func (d *decoder) decodeDCRefine(r *entropyReader, coeffs *[64]int32, al int) error {
	bit, _ := r.readBits(1)
	coeffs[0] |= int32(bit) << uint(al)
	return nil
}

func (d *decoder) decodeACFirst(r *entropyReader, sc scanComp, coeffs *[64]int32, ss, se, al int) error {
	if sc.c.eobRun > 0 {
		sc.c.eobRun--
		return nil
	}
	t := d.acTable[sc.acSel]
	if t == nil {
		return rasterr.New(rasterr.Malformed, "jpegcodec.decodeACFirst", "missing AC huffman table")
	}
	k := ss
	for k <= se {
		rs, err := decodeHuff(r, t)
		if err != nil {
			return err
		}
		run, size := int(rs>>4), int(rs&0x0F)
		if size == 0 {
			if run < 15 {
				eobBits, _ := r.readBits(run)
				sc.c.eobRun = (1 << uint(run)) + int(eobBits) - 1
				break
			}
			k += 16
			continue
		}
		k += run
		if k > se {
			return rasterr.New(rasterr.Malformed, "jpegcodec.decodeACFirst", "AC run exceeds spectral band")
		}
		v := receiveExtend(r, size)
		coeffs[zigzag[k]] = v << uint(al)
		k++
	}
	return nil
}

func (d *decoder) decodeACRefine(r *entropyReader, sc scanComp, coeffs *[64]int32, ss, se, al int) error {
	p1 := int32(1) << uint(al)
	m1 := int32(-1) << uint(al)
	k := ss

	if sc.c.eobRun == 0 {
		t := d.acTable[sc.acSel]
		if t == nil {
			return rasterr.New(rasterr.Malformed, "jpegcodec.decodeACRefine", "missing AC huffman table")
		}
		for k <= se {
			rs, err := decodeHuff(r, t)
			if err != nil {
				return err
			}
			run, size := int(rs>>4), int(rs&0x0F)
			var value int32
			if size == 0 {
				if run < 15 {
					eobBits, _ := r.readBits(run)
					sc.c.eobRun = (1 << uint(run)) + int(eobBits)
					break
				}
			} else {
				bit, _ := r.readBits(1)
				if bit != 0 {
					value = p1
				} else {
					value = m1
				}
			}
			for k <= se {
				z := &coeffs[zigzag[k]]
				if *z != 0 {
					bit, _ := r.readBits(1)
					if bit != 0 && (*z&p1) == 0 {
						if *z >= 0 {
							*z += p1
						} else {
							*z += m1
						}
					}
				} else {
					if run == 0 {
						if value != 0 {
							*z = value
						}
						k++
						break
					}
					run--
				}
				k++
			}
		}
	}

	if sc.c.eobRun > 0 {
		for ; k <= se; k++ {
			z := &coeffs[zigzag[k]]
			if *z != 0 {
				bit, _ := r.readBits(1)
				if bit != 0 && (*z&p1) == 0 {
					if *z >= 0 {
						*z += p1
					} else {
						*z += m1
					}
				}
			}
		}
		sc.c.eobRun--
	}
	return nil
}

// assemble runs the final IDCT pass over every component's accumulated
// coefficients, upsamples chroma planes, and color-converts into the
// pipeline's packed row format.
func (d *decoder) assemble() (*Image, error) {
	planes := make([][]uint8, len(d.comps))
	strides := make([]int, len(d.comps))

	for ci := range d.comps {
		c := &d.comps[ci]
		q := d.quant[c.tq]
		if q == nil {
			return nil, rasterr.New(rasterr.Semantic, "jpegcodec.assemble", "component %d references undefined quant table", c.id)
		}
		planeW := c.blocksPerLine * 8
		planeH := c.blocksPerCol * 8
		plane := make([]uint8, planeW*planeH)
		strides[ci] = planeW

		for by := 0; by < c.blocksPerCol; by++ {
			for bx := 0; bx < c.blocksPerLine; bx++ {
				blk := &c.coeffs[by*c.blocksPerLine+bx]
				var out [64]uint8
				idctBlock(blk, q, &out)
				for y := 0; y < 8; y++ {
					copy(plane[(by*8+y)*planeW+bx*8:][:8], out[y*8:y*8+8])
				}
			}
		}
		planes[ci] = plane
	}

	nc := len(d.comps)
	img := &Image{Width: d.width, Height: d.height, NumComponents: outputComponents(nc), Rows: make([][]byte, d.height)}

	for y := 0; y < d.height; y++ {
		row := make([]byte, d.width*img.NumComponents)
		for x := 0; x < d.width; x++ {
			samples := make([]uint8, nc)
			for ci := range d.comps {
				c := &d.comps[ci]
				sx := x * c.h / d.maxH
				sy := y * c.v / d.maxV
				samples[ci] = planes[ci][sy*strides[ci]+sx]
			}
			out := convertPixel(samples, nc, d.adobeTransform)
			copy(row[x*img.NumComponents:], out)
		}
		img.Rows[y] = row
	}

	log.Debug.Printf("jpegcodec: decoded %dx%d, %d components", d.width, d.height, nc)
	return img, nil
}

func outputComponents(nc int) int {
	switch nc {
	case 1:
		return 1
	case 3:
		return 3
	case 4:
		return 4
	default:
		return nc
	}
}

// convertPixel maps nc raw component samples to the output color, applying
// YCbCr->RGB (3 components) or YCCK->CMYK (4 components, Adobe transform 2)
// as indicated by adobeTransform (-1 means absent: assume YCbCr for 3
// components; 4 components without transform 2 are read as inverted CMYK).
func convertPixel(s []uint8, nc, adobeTransform int) []uint8 {
	switch nc {
	case 1:
		return []uint8{s[0]}
	case 3:
		if adobeTransform == 0 {
			return []uint8{s[0], s[1], s[2]}
		}
		return ycbcrToRGB(s[0], s[1], s[2])
	case 4:
		if adobeTransform == 2 {
			rgb := ycbcrToRGB(s[0], s[1], s[2])
			return []uint8{255 - rgb[0], 255 - rgb[1], 255 - rgb[2], s[3]}
		}
		// Adobe CMYK JPEGs store all four channels inverted regardless of
		// whether an APP14 marker is present (adobeTransform 0 or absent).
		return []uint8{255 - s[0], 255 - s[1], 255 - s[2], 255 - s[3]}
	default:
		return s
	}
}

func ycbcrToRGB(y, cb, cr uint8) []uint8 {
	yy := int32(y)
	cbb := int32(cb) - 128
	crr := int32(cr) - 128

	r := yy + (91881*crr)>>16
	g := yy - (22554*cbb)>>16 - (46802*crr)>>16
	b := yy + (116130*cbb)>>16

	return []uint8{clamp8(r), clamp8(g), clamp8(b)}
}

func clamp8(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
