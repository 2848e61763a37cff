package jpegcodec

// zigzag maps the 64 coefficient positions read in zig-zag scan order to
// their natural row-major index within an 8x8 block.
var zigzag = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// quantTable holds one dequantization table, indexed in natural (row-major)
// order after the zig-zag remap has already been applied at load time.
type quantTable [64]uint16

// huffTable is a canonical Huffman table as read from a DHT segment: bits[i]
// counts codes of length i+1, values lists the symbols in code order.
type huffTable struct {
	// lut maps a 16-bit left-justified peek directly to (symbol, length),
	// avoiding a bit-by-bit walk for the common case where the code is at
	// most 16 bits (true for all baseline/progressive JPEG Huffman tables).
	lut [1 << 16]huffEntry
}

type huffEntry struct {
	symbol uint8
	length uint8
}

// buildHuffTable expands a canonical (bits, values) Huffman spec into a flat
// lookup table, fanning each code across every suffix of the remaining bits.
func buildHuffTable(bits [16]int, values []uint8) *huffTable {
	t := &huffTable{}
	code := 0
	vi := 0
	for length := 1; length <= 16; length++ {
		n := bits[length-1]
		for i := 0; i < n; i++ {
			sym := values[vi]
			vi++
			shift := 16 - length
			base := code << uint(shift)
			for suffix := 0; suffix < 1<<uint(shift); suffix++ {
				t.lut[base|suffix] = huffEntry{symbol: sym, length: uint8(length)}
			}
			code++
		}
		code <<= 1
	}
	return t
}
