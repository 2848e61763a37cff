package filter_test

import (
	"bytes"
	"io/ioutil"
	"math/rand"
	"testing"

	"github.com/zayg21-pixel/pdf-pixel-sub010/pkg/filter"
)

// roundTrip encodes input once and decodes it once, asserting the output
// matches the original bytes, for every filter that supports both.
func roundTrip(t *testing.T, filterName string, input []byte) {
	t.Helper()

	f, err := filter.NewFilter(filterName, nil, nil)
	if err != nil {
		t.Fatalf("NewFilter(%s): %v", filterName, err)
	}

	enc, err := f.Encode(bytes.NewReader(input))
	if err != nil {
		t.Fatalf("%s: Encode: %v", filterName, err)
	}
	encBytes, err := ioutil.ReadAll(enc)
	if err != nil {
		t.Fatalf("%s: read encoded: %v", filterName, err)
	}

	dec, err := f.Decode(bytes.NewReader(encBytes))
	if err != nil {
		t.Fatalf("%s: Decode: %v", filterName, err)
	}
	got, err := ioutil.ReadAll(dec)
	if err != nil {
		t.Fatalf("%s: read decoded: %v", filterName, err)
	}

	if !bytes.Equal(got, input) {
		t.Fatalf("%s: round trip mismatch\n got: % x\nwant: % x", filterName, got, input)
	}
}

func TestRoundTripSimpleFilters(t *testing.T) {
	input := []byte("Hello, Gopher! 0123456789 \x00\x01\x02\xff")

	for _, name := range []string{filter.ASCII85, filter.ASCIIHex, filter.RunLength, filter.LZW, filter.Flate} {
		roundTrip(t, name, input)
	}
}

func TestRoundTripRandomData(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	input := make([]byte, 4096)
	r.Read(input)

	for _, name := range []string{filter.LZW, filter.Flate} {
		roundTrip(t, name, input)
	}
}

func TestUnsupportedFilter(t *testing.T) {
	if _, err := filter.NewFilter("BogusDecode", nil, nil); err == nil {
		t.Fatalf("expected error for unsupported filter name")
	}
}

func TestCryptPassthroughWithoutDecryptor(t *testing.T) {
	f, err := filter.NewFilter(filter.Crypt, nil, nil)
	if err != nil {
		t.Fatalf("NewFilter(Crypt): %v", err)
	}
	input := []byte("plain bytes")
	dec, err := f.Decode(bytes.NewReader(input))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, err := ioutil.ReadAll(dec)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, input) {
		t.Fatalf("crypt passthrough mismatch: got %q want %q", got, input)
	}
}
