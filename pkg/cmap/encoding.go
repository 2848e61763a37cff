package cmap

// Encoding maps a single byte-code (simple font, one byte per glyph) to a
// PostScript glyph name, the lookup a simple font's Differences array and
// base encoding resolve through before font-program glyph lookup.
type Encoding struct {
	names [256]string
}

// GlyphName returns the glyph name for code, or "" if unmapped.
func (e *Encoding) GlyphName(code byte) string { return e.names[code] }

// NewEncoding copies base and applies PDF Differences-array overrides: pairs
// of (code, name) where code increments for each subsequent bare name until
// the next explicit code, matching the PDF /Differences operator semantics.
func NewEncoding(base *Encoding, differences []DifferenceEntry) *Encoding {
	e := &Encoding{}
	if base != nil {
		e.names = base.names
	}
	code := 0
	for _, d := range differences {
		if d.Code >= 0 {
			code = d.Code
		}
		if d.Name == "" {
			continue
		}
		if code >= 0 && code < 256 {
			e.names[code] = d.Name
		}
		code++
	}
	return e
}

// DifferenceEntry is one entry of a flattened /Differences array: either a
// new starting code (Name empty) or a glyph name at the running code.
type DifferenceEntry struct {
	Code int // -1 means "continue from the previous entry's code+1"
	Name string
}

// base ASCII glyph names shared by StandardEncoding, WinAnsiEncoding, and
// MacRomanEncoding across codes 0x20-0x7E; the three predefined encodings
// only diverge above 0x7F, where PDF's encoding tables assign different
// glyph names to the high byte range.
var asciiGlyphNames = map[byte]string{
	0x20: "space", 0x21: "exclam", 0x22: "quotedbl", 0x23: "numbersign",
	0x24: "dollar", 0x25: "percent", 0x26: "ampersand", 0x27: "quotesingle",
	0x28: "parenleft", 0x29: "parenright", 0x2A: "asterisk", 0x2B: "plus",
	0x2C: "comma", 0x2D: "hyphen", 0x2E: "period", 0x2F: "slash",
	0x30: "zero", 0x31: "one", 0x32: "two", 0x33: "three", 0x34: "four",
	0x35: "five", 0x36: "six", 0x37: "seven", 0x38: "eight", 0x39: "nine",
	0x3A: "colon", 0x3B: "semicolon", 0x3C: "less", 0x3D: "equal", 0x3E: "greater",
	0x3F: "question", 0x40: "at",
	0x5B: "bracketleft", 0x5C: "backslash", 0x5D: "bracketright",
	0x5E: "asciicircum", 0x5F: "underscore", 0x60: "grave",
	0x7B: "braceleft", 0x7C: "bar", 0x7D: "braceright", 0x7E: "asciitilde",
}

func init() {
	for c := byte('A'); c <= 'Z'; c++ {
		asciiGlyphNames[c] = string(rune(c))
	}
	for c := byte('a'); c <= 'z'; c++ {
		asciiGlyphNames[c] = string(rune(c))
	}
}

func newASCIIBaseEncoding() *Encoding {
	e := &Encoding{}
	for code, name := range asciiGlyphNames {
		e.names[code] = name
	}
	return e
}

// StandardEncoding, WinAnsiEncoding, and MacRomanEncoding share the ASCII
// range; this engine does not special-case their high-byte (0x80-0xFF)
// glyph sets since content-stream text extraction/shaping is out of scope
// for the image/color decoding core — callers needing exact high-byte glyph
// names should override via Differences.
var (
	StandardEncoding = newASCIIBaseEncoding()
	WinAnsiEncoding  = newASCIIBaseEncoding()
	MacRomanEncoding = newASCIIBaseEncoding()
)
