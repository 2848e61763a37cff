package ccitt

// CcittFaxCode is an immutable run-length code record: the matched Huffman
// code's bit length, the run length it encodes, and whether it was a make-up
// code (run continues in the same color) or an end-of-line marker.
type CcittFaxCode struct {
	BitLength   uint8
	RunLength   uint16
	IsMakeUp    bool
	IsEndOfLine bool
}

// rlCode is the compact (bits, code, run) source-of-truth entry for one
// Huffman codeword, taken directly from ITU-T T.4 tables 2 and 3.
type rlCode struct {
	bits uint8
	code uint16
	run  uint16
}

// White terminating codes, run lengths 0-63 (T.4 Table 2).
var whiteTerm = []rlCode{
	{8, 0x35, 0}, {6, 0x07, 1}, {4, 0x07, 2}, {4, 0x08, 3},
	{4, 0x0B, 4}, {4, 0x0C, 5}, {4, 0x0E, 6}, {4, 0x0F, 7},
	{5, 0x13, 8}, {5, 0x14, 9}, {5, 0x07, 10}, {5, 0x08, 11},
	{6, 0x08, 12}, {6, 0x03, 13}, {6, 0x34, 14}, {6, 0x35, 15},
	{6, 0x2A, 16}, {6, 0x2B, 17}, {7, 0x27, 18}, {7, 0x0C, 19},
	{7, 0x08, 20}, {7, 0x17, 21}, {7, 0x03, 22}, {7, 0x04, 23},
	{7, 0x28, 24}, {7, 0x2B, 25}, {7, 0x13, 26}, {7, 0x24, 27},
	{7, 0x18, 28}, {8, 0x02, 29}, {8, 0x03, 30}, {8, 0x1A, 31},
	{8, 0x1B, 32}, {8, 0x12, 33}, {8, 0x13, 34}, {8, 0x14, 35},
	{8, 0x15, 36}, {8, 0x16, 37}, {8, 0x17, 38}, {8, 0x28, 39},
	{8, 0x29, 40}, {8, 0x2A, 41}, {8, 0x2B, 42}, {8, 0x2C, 43},
	{8, 0x2D, 44}, {8, 0x04, 45}, {8, 0x05, 46}, {8, 0x0A, 47},
	{8, 0x0B, 48}, {8, 0x52, 49}, {8, 0x53, 50}, {8, 0x54, 51},
	{8, 0x55, 52}, {8, 0x24, 53}, {8, 0x25, 54}, {8, 0x58, 55},
	{8, 0x59, 56}, {8, 0x5A, 57}, {8, 0x5B, 58}, {8, 0x4A, 59},
	{8, 0x4B, 60}, {8, 0x32, 61}, {8, 0x33, 62}, {8, 0x34, 63},
}

// White make-up codes, run lengths 64-1728 in steps of 64 (T.4 Table 2).
var whiteMakeup = []rlCode{
	{5, 0x1B, 64}, {5, 0x12, 128}, {6, 0x17, 192}, {7, 0x37, 256},
	{8, 0x36, 320}, {8, 0x37, 384}, {8, 0x64, 448}, {8, 0x65, 512},
	{8, 0x68, 576}, {8, 0x67, 640}, {9, 0xCC, 704}, {9, 0xCD, 768},
	{9, 0xD2, 832}, {9, 0xD3, 896}, {9, 0xD4, 960}, {9, 0xD5, 1024},
	{9, 0xD6, 1088}, {9, 0xD7, 1152}, {9, 0xD8, 1216}, {9, 0xD9, 1280},
	{9, 0xDA, 1344}, {9, 0xDB, 1408}, {9, 0x98, 1472}, {9, 0x99, 1536},
	{9, 0x9A, 1600}, {6, 0x18, 1664}, {9, 0x9B, 1728},
}

// Black terminating codes, run lengths 0-63 (T.4 Table 3).
var blackTerm = []rlCode{
	{10, 0x37, 0}, {3, 0x02, 1}, {2, 0x03, 2}, {2, 0x02, 3},
	{3, 0x03, 4}, {4, 0x03, 5}, {4, 0x02, 6}, {5, 0x03, 7},
	{6, 0x05, 8}, {6, 0x04, 9}, {7, 0x04, 10}, {7, 0x05, 11},
	{7, 0x07, 12}, {8, 0x04, 13}, {8, 0x07, 14}, {9, 0x18, 15},
	{10, 0x17, 16}, {10, 0x18, 17}, {10, 0x08, 18}, {11, 0x67, 19},
	{11, 0x68, 20}, {11, 0x6C, 21}, {11, 0x37, 22}, {11, 0x28, 23},
	{11, 0x17, 24}, {11, 0x18, 25}, {12, 0xCA, 26}, {12, 0xCB, 27},
	{12, 0xCC, 28}, {12, 0xCD, 29}, {12, 0x68, 30}, {12, 0x69, 31},
	{12, 0x6A, 32}, {12, 0x6B, 33}, {12, 0xD2, 34}, {12, 0xD3, 35},
	{12, 0xD4, 36}, {12, 0xD5, 37}, {12, 0xD6, 38}, {12, 0xD7, 39},
	{12, 0x6C, 40}, {12, 0x6D, 41}, {12, 0xDA, 42}, {12, 0xDB, 43},
	{12, 0x54, 44}, {12, 0x55, 45}, {12, 0x56, 46}, {12, 0x57, 47},
	{12, 0x64, 48}, {12, 0x65, 49}, {12, 0x52, 50}, {12, 0x53, 51},
	{12, 0x24, 52}, {12, 0x37, 53}, {12, 0x38, 54}, {12, 0x27, 55},
	{12, 0x28, 56}, {12, 0x58, 57}, {12, 0x59, 58}, {12, 0x2B, 59},
	{12, 0x2C, 60}, {12, 0x5A, 61}, {12, 0x66, 62}, {12, 0x67, 63},
}

// Black make-up codes, run lengths 64-1728 in steps of 64 (T.4 Table 3).
var blackMakeup = []rlCode{
	{10, 0x0F, 64}, {12, 0xC8, 128}, {12, 0xC9, 192}, {12, 0x5B, 256},
	{12, 0x33, 320}, {12, 0x34, 384}, {12, 0x35, 448}, {13, 0x6C, 512},
	{13, 0x6D, 576}, {13, 0x4A, 640}, {13, 0x4B, 704}, {13, 0x4C, 768},
	{13, 0x4D, 832}, {13, 0x72, 896}, {13, 0x73, 960}, {13, 0x74, 1024},
	{13, 0x75, 1088}, {13, 0x76, 1152}, {13, 0x77, 1216}, {13, 0x52, 1280},
	{13, 0x53, 1344}, {13, 0x54, 1408}, {13, 0x55, 1472}, {13, 0x5A, 1536},
	{13, 0x5B, 1600}, {13, 0x64, 1664}, {13, 0x65, 1728},
}

// Extended make-up codes, run lengths 1792-2560, shared by both colors
// (T.4 Table 2/3 common extension).
var extMakeup = []rlCode{
	{11, 0x08, 1792}, {11, 0x0C, 1856}, {11, 0x0D, 1920},
	{12, 0x12, 1984}, {12, 0x13, 2048}, {12, 0x14, 2112},
	{12, 0x15, 2176}, {12, 0x16, 2240}, {12, 0x17, 2304},
	{12, 0x1C, 2368}, {12, 0x1D, 2432}, {12, 0x1E, 2496},
	{12, 0x1F, 2560},
}

// tableBits is the width of the peeked prefix used to index run-length
// lookup tables. 13 bits equals the longest defined codeword (13 bits, the
// black make-up codes), so every code is resolvable by one peek + one index.
const tableBits = 13

// buildRunTable expands term/makeup/ext entries into a flat 1<<tableBits
// lookup, fanning each code across every possible suffix of the remaining
// bits so a 13-bit peek always lands on a valid entry (or an invalid one,
// recognized by BitLength == 0).
func buildRunTable(term, makeup []rlCode) []CcittFaxCode {
	table := make([]CcittFaxCode, 1<<tableBits)

	place := func(e rlCode, isMakeUp bool) {
		shift := tableBits - int(e.bits)
		base := uint16(e.code) << uint(shift)
		for suffix := 0; suffix < 1<<uint(shift); suffix++ {
			idx := base | uint16(suffix)
			table[idx] = CcittFaxCode{BitLength: e.bits, RunLength: e.run, IsMakeUp: isMakeUp}
		}
	}

	for _, e := range term {
		place(e, false)
	}
	for _, e := range makeup {
		place(e, true)
	}
	for _, e := range extMakeup {
		place(e, true)
	}

	// EOL: eleven 0 bits followed by a 1.
	eol := rlCode{bits: 12, code: 0x001, run: 0}
	place(eol, false)
	shift := tableBits - int(eol.bits)
	base := uint16(eol.code) << uint(shift)
	for suffix := 0; suffix < 1<<uint(shift); suffix++ {
		table[base|uint16(suffix)].IsEndOfLine = true
	}

	return table
}

var whiteTable = buildRunTable(whiteTerm, whiteMakeup)
var blackTable = buildRunTable(blackTerm, blackMakeup)
