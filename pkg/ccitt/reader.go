// Package ccitt decodes CCITT Group 3 and Group 4 fax-compressed image data
// (ITU-T T.4 / T.6), the terminal format decoder for PDF CCITTFaxDecode
// streams once the generic filter chain (pkg/filter) has stripped any outer
// Flate/LZW/ASCII wrapping.
package ccitt

import (
	"bytes"
	"io"

	"github.com/zayg21-pixel/pdf-pixel-sub010/internal/rasterr"
	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/bitio"
)

// Params mirrors the CCITTFaxDecode filter parameters (PDF 32000-1 Table 11).
type Params struct {
	Columns          int
	Rows             int // 0: decode until input is exhausted or EndOfBlock is seen
	K                int // <0 pure 2-D (G4), 0 pure 1-D (G3), >0 mixed 1-D/2-D (G3 2-D)
	BlackIs1         bool
	EncodedByteAlign bool
	EndOfBlock       bool
}

const maxColumns = 1 << 16

// color is a run's color on the coding/reference line; the runs delimited by
// the changing elements in refLine alternate white, black, white, ...
// starting from an implicit white background to the left of column 0, so
// refLine[0] is the first transition to black.
type color int

const (
	white color = iota
	black
)

func (c color) opposite() color {
	if c == white {
		return black
	}
	return white
}

// Decode decompresses CCITT fax data into one packed row per output scan
// line, MSB-first, 1 bit per pixel, bit value 0 meaning black unless
// p.BlackIs1 inverts that convention.
func Decode(r io.Reader, p Params) (io.Reader, error) {
	if p.Columns <= 0 || p.Columns > maxColumns {
		return nil, rasterr.New(rasterr.Malformed, "ccitt.Decode", "invalid Columns %d", p.Columns)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, rasterr.Wrap(rasterr.Truncated, "ccitt.Decode", err)
	}
	br := bitio.NewCcittBitReader(raw)

	rowBytes := (p.Columns + 7) / 8
	var out bytes.Buffer

	// refLine holds changing-element column positions for the previous row,
	// terminated by two sentinel columns so b2 lookahead never runs off the
	// end. The imaginary row above the first line is all white.
	refLine := []int{p.Columns, p.Columns}

	twoDimAlways := p.K < 0
	rowsDecoded := 0

	for {
		if p.Rows > 0 && rowsDecoded >= p.Rows {
			break
		}
		if br.Exhausted(1) {
			break
		}

		// Consume any EOL(s); for K>0 a following tag bit selects the row mode.
		rowIsTwoDim := twoDimAlways
		eols := 0
		for br.TryConsumeEOL() {
			eols++
			if p.K > 0 {
				if br.Exhausted(1) {
					break
				}
				rowIsTwoDim = br.Peek(1) == 0
				br.Drop(1)
			}
		}
		if p.EndOfBlock && eols >= 2 {
			// Consecutive EOLs form the end-of-block (EOFB/RTC) marker.
			break
		}
		if br.Exhausted(1) {
			break
		}
		if p.K > 0 && rowsDecoded == 0 && !twoDimAlways {
			// No leading EOL present: first row's mode tag is still required
			// when K>0 per spec, default to 1-D if absent.
		}

		var codingLine []int
		if rowIsTwoDim {
			codingLine, err = decode2DRow(br, refLine, p.Columns)
		} else {
			codingLine, err = decode1DRow(br, p.Columns)
		}
		if err != nil {
			if rasterr.Is(err, rasterr.Truncated) {
				// Conservative tail recovery: keep the rows decoded so far,
				// emit the truncated row as an all-white row, and stop.
				out.Write(packRow([]int{p.Columns, p.Columns}, p.Columns, rowBytes, p.BlackIs1))
				rowsDecoded++
				break
			}
			return nil, err
		}

		out.Write(packRow(codingLine, p.Columns, rowBytes, p.BlackIs1))
		refLine = codingLine
		rowsDecoded++

		if p.EncodedByteAlign {
			br.Align()
		}
	}

	return &out, nil
}

// decode1DRow decodes one pure 1-D (MH) row into a sorted list of changing
// element columns, terminated by two sentinel columns.
func decode1DRow(br *bitio.CcittBitReader, columns int) ([]int, error) {
	var changes []int
	pos := 0
	cur := white

	for pos < columns {
		run, err := readRun(br, cur)
		if err != nil {
			return nil, err
		}
		pos += run
		if pos > columns {
			pos = columns
		}
		changes = append(changes, pos)
		cur = cur.opposite()
	}
	changes = append(changes, columns, columns)
	return changes, nil
}

// decode2DRow decodes one 2-D (MMR / MR) row against refLine, the previous
// row's changing elements, following T.6/T.4 mode selection.
func decode2DRow(br *bitio.CcittBitReader, refLine []int, columns int) ([]int, error) {
	var changes []int
	a0 := -1
	cur := white

	for a0 < columns {
		if br.Exhausted(1) {
			return nil, rasterr.New(rasterr.Truncated, "ccitt.decode2DRow", "ran out of bits mid-row")
		}

		peek := br.Peek(modeCodeBits)
		entry := modeTable[peek]
		if entry.bits == 0 {
			if br.TryConsumeEOL() {
				break
			}
			// A genuine EOL or longer mode code needs up to 12 real bits to
			// disambiguate; fewer than that left in the stream is a
			// truncation, not a malformed code.
			if br.Exhausted(12) {
				return nil, rasterr.New(rasterr.Truncated, "ccitt.decode2DRow", "ran out of bits resolving mode code")
			}
			return nil, rasterr.New(rasterr.Malformed, "ccitt.decode2DRow", "unrecognized mode code %#04x", peek)
		}
		br.Drop(int(entry.bits))

		b1, b2 := findB1B2(refLine, a0, cur, columns)

		switch entry.m {
		case modePass:
			a0 = b2
			// no changing element recorded; color unchanged

		case modeHoriz:
			run1, err := readRun(br, cur)
			if err != nil {
				return nil, err
			}
			run2, err := readRun(br, cur.opposite())
			if err != nil {
				return nil, err
			}
			start := a0
			if start < 0 {
				start = 0
			}
			a1 := start + run1
			a2 := a1 + run2
			if a1 > columns {
				a1 = columns
			}
			if a2 > columns {
				a2 = columns
			}
			changes = append(changes, a1, a2)
			a0 = a2
			// color unchanged (two runs consumed)

		case modeV0, modeVR1, modeVR2, modeVR3, modeVL1, modeVL2, modeVL3:
			delta := verticalDelta(entry.m)
			a1 := b1 + delta
			if a1 < 0 {
				a1 = 0
			}
			if a1 > columns {
				a1 = columns
			}
			changes = append(changes, a1)
			a0 = a1
			cur = cur.opposite()

		default:
			return nil, rasterr.New(rasterr.Unsupported, "ccitt.decode2DRow", "2-D extension mode not implemented")
		}
	}

	changes = append(changes, columns, columns)
	return changes, nil
}

func verticalDelta(m mode) int {
	switch m {
	case modeV0:
		return 0
	case modeVR1:
		return 1
	case modeVR2:
		return 2
	case modeVR3:
		return 3
	case modeVL1:
		return -1
	case modeVL2:
		return -2
	case modeVL3:
		return -3
	}
	return 0
}

// findB1B2 locates b1, the first changing element on refLine to the right of
// a0 with color opposite to cur, and b2, the next changing element after b1.
// refLine[i] is a transition to black if i is even and to white if i is odd
// (the line starts from an implicit white background).
func findB1B2(refLine []int, a0 int, cur color, columns int) (b1, b2 int) {
	i := 0
	for i < len(refLine) && refLine[i] <= a0 {
		i++
	}
	// refLine[i] is the first change strictly to the right of a0. Its color
	// is the color the line becomes AT that position. The line begins white,
	// so index 0 is white->black: even index => transition to black, odd =>
	// transition to white. b1 must transition TO the color opposite cur.
	wantBlackTransition := cur == white
	for i < len(refLine) {
		toBlack := i%2 == 0
		if toBlack == wantBlackTransition {
			break
		}
		i++
	}
	if i >= len(refLine) {
		b1 = columns
	} else {
		b1 = refLine[i]
	}
	if i+1 < len(refLine) {
		b2 = refLine[i+1]
	} else {
		b2 = columns
	}
	return b1, b2
}

// readRun reads one run length for the given color, following make-up codes
// until a terminating code (run < 64) closes the run.
func readRun(br *bitio.CcittBitReader, c color) (int, error) {
	table := whiteTable
	if c == black {
		table = blackTable
	}

	total := 0
	for {
		if br.Exhausted(1) {
			return 0, rasterr.New(rasterr.Truncated, "ccitt.readRun", "ran out of bits mid-run")
		}
		peek := br.Peek(tableBits)
		entry := table[peek]
		if entry.BitLength == 0 {
			return 0, rasterr.New(rasterr.Malformed, "ccitt.readRun", "unrecognized run code %#04x", peek)
		}
		if entry.IsEndOfLine {
			return 0, rasterr.New(rasterr.Malformed, "ccitt.readRun", "unexpected EOL inside run")
		}
		br.Drop(int(entry.BitLength))
		total += int(entry.RunLength)
		if !entry.IsMakeUp {
			return total, nil
		}
	}
}

// packRow converts a sorted list of changing elements (alternating
// white/black runs starting white, terminated by two sentinel columns) into
// one packed MSB-first row.
func packRow(changes []int, columns, rowBytes int, blackIs1 bool) []byte {
	row := make([]byte, rowBytes)
	// Default fill is white. Determine the bit value representing white.
	whiteBit := byte(1)
	if blackIs1 {
		whiteBit = 0
	}
	if whiteBit == 1 {
		for i := range row {
			row[i] = 0xFF
		}
	}

	blackBit := byte(0)
	if blackIs1 {
		blackBit = 1
	}

	cur := white
	pos := 0
	for _, next := range changes {
		if next > columns {
			next = columns
		}
		if cur == black {
			setBits(row, pos, next, blackBit)
		}
		pos = next
		cur = cur.opposite()
		if pos >= columns {
			break
		}
	}
	return row
}

func setBits(row []byte, from, to int, bit byte) {
	for i := from; i < to; i++ {
		byteIdx := i / 8
		shift := uint(7 - i%8)
		if bit == 1 {
			row[byteIdx] |= 1 << shift
		} else {
			row[byteIdx] &^= 1 << shift
		}
	}
}
