// Package cmap is the CMap/Encoding lookup engine: byte-code to CID or
// Unicode lookup over sorted ranges via binary search, and byte-code to
// glyph-name lookup for simple-font encodings. Font parsing and glyph
// rendering are out of scope; this package only does the lookup.
package cmap

import (
	"sort"

	"github.com/zayg21-pixel/pdf-pixel-sub010/internal/rasterr"
	"golang.org/x/text/encoding/unicode"
)

// CidRange maps a contiguous band of byte-codes of a fixed length to a
// contiguous band of CIDs: code in [StartCode,EndCode] -> StartCID+(code-StartCode).
type CidRange struct {
	Length    int
	StartCode uint32
	EndCode   uint32
	StartCID  uint32
}

// UnicodeRange maps a contiguous band of byte-codes to Unicode scalar
// values, read from a ToUnicode CMap's bfrange/bfchar destination strings.
type UnicodeRange struct {
	Length       int
	StartCode    uint32
	EndCode      uint32
	StartUnicode rune
}

// CMap is a validated, binary-searchable CMap built from CidRange and/or
// UnicodeRange entries, partitioned by code length since ranges of
// different byte lengths never overlap in address space.
type CMap struct {
	cidByLength     map[int][]CidRange
	unicodeByLength map[int][]UnicodeRange
}

// NewCMap validates and indexes the given ranges. Each range's Length must
// be in {1,2,3,4} and Start<=End; ranges are sorted by (length, start, end)
// so a lookup can binary-search within its length partition.
func NewCMap(cidRanges []CidRange, unicodeRanges []UnicodeRange) (*CMap, error) {
	const op = "cmap.NewCMap"

	cm := &CMap{
		cidByLength:     make(map[int][]CidRange),
		unicodeByLength: make(map[int][]UnicodeRange),
	}

	for _, r := range cidRanges {
		if err := validateLengthAndSpan(op, r.Length, r.StartCode, r.EndCode); err != nil {
			return nil, err
		}
		cm.cidByLength[r.Length] = append(cm.cidByLength[r.Length], r)
	}
	for length := range cm.cidByLength {
		group := cm.cidByLength[length]
		sort.Slice(group, func(i, j int) bool {
			if group[i].StartCode != group[j].StartCode {
				return group[i].StartCode < group[j].StartCode
			}
			return group[i].EndCode < group[j].EndCode
		})
		cm.cidByLength[length] = group
	}

	for _, r := range unicodeRanges {
		if err := validateLengthAndSpan(op, r.Length, r.StartCode, r.EndCode); err != nil {
			return nil, err
		}
		cm.unicodeByLength[r.Length] = append(cm.unicodeByLength[r.Length], r)
	}
	for length := range cm.unicodeByLength {
		group := cm.unicodeByLength[length]
		sort.Slice(group, func(i, j int) bool {
			if group[i].StartCode != group[j].StartCode {
				return group[i].StartCode < group[j].StartCode
			}
			return group[i].EndCode < group[j].EndCode
		})
		cm.unicodeByLength[length] = group
	}

	return cm, nil
}

func validateLengthAndSpan(op string, length int, start, end uint32) error {
	if length < 1 || length > 4 {
		return rasterr.New(rasterr.Semantic, op, "range length %d outside {1,2,3,4}", length)
	}
	if start > end {
		return rasterr.New(rasterr.Semantic, op, "range start %d exceeds end %d", start, end)
	}
	return nil
}

// LookupCID resolves a byte-code of the given length to a CID via binary
// search over the matching length partition.
func (cm *CMap) LookupCID(code uint32, length int) (uint32, bool) {
	group := cm.cidByLength[length]
	i := sort.Search(len(group), func(i int) bool { return group[i].EndCode >= code })
	if i >= len(group) || code < group[i].StartCode || code > group[i].EndCode {
		return 0, false
	}
	return group[i].StartCID + (code - group[i].StartCode), true
}

// LookupUnicode resolves a byte-code to a Unicode scalar value.
func (cm *CMap) LookupUnicode(code uint32, length int) (rune, bool) {
	group := cm.unicodeByLength[length]
	i := sort.Search(len(group), func(i int) bool { return group[i].EndCode >= code })
	if i >= len(group) || code < group[i].StartCode || code > group[i].EndCode {
		return 0, false
	}
	return group[i].StartUnicode + rune(code-group[i].StartCode), true
}

// DecodeUTF16BEDestination decodes a ToUnicode CMap's <hex> destination
// string (big-endian UTF-16, as written by bfchar/bfrange operators) into
// its leading Unicode scalar value, used when building UnicodeRange entries
// from raw CMap bytes.
func DecodeUTF16BEDestination(b []byte) (rune, error) {
	const op = "cmap.DecodeUTF16BEDestination"
	if len(b) == 0 {
		return 0, rasterr.New(rasterr.Malformed, op, "empty destination string")
	}
	dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	out, err := dec.Bytes(b)
	if err != nil {
		return 0, rasterr.Wrap(rasterr.Malformed, op, err)
	}
	r := []rune(string(out))
	if len(r) == 0 {
		return 0, rasterr.New(rasterr.Malformed, op, "destination decoded to empty string")
	}
	return r[0], nil
}
