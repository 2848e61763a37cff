package filter

import (
	"bytes"
	"io"
	"io/ioutil"
)

// cryptDecode hands the raw stream bytes to an external Decryptor when one is
// registered. Key derivation and cipher selection live with the caller; this
// stage only routes bytes. With no Decryptor registered, Decode/Encode are
// identity, matching an Identity crypt filter.
type cryptDecode struct {
	baseFilter
	dec Decryptor
}

func (f cryptDecode) Decode(r io.Reader) (io.Reader, error) {
	if f.dec == nil {
		return r, nil
	}
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	out, err := f.dec.Decrypt(0, 0, "Identity", b)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(out), nil
}

func (f cryptDecode) Encode(r io.Reader) (io.Reader, error) {
	return r, nil
}
