/*
Copyright 2018 The pdfcpu Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package filter

import (
	"bytes"
	"encoding/hex"
	"io"
	"io/ioutil"
)

type asciiHexDecode struct {
	baseFilter
}

const eodHexDecode = '>'

func isHexWhitespace(b byte) bool {
	switch b {
	case 0x09, 0x0A, 0x0C, 0x0D, 0x20:
		return true
	}
	return false
}

func (f asciiHexDecode) Decode(r io.Reader) (io.Reader, error) {
	bb, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	p := make([]byte, 0, len(bb))
	for _, b := range bb {
		if b == eodHexDecode {
			break
		}
		if !isHexWhitespace(b) {
			p = append(p, b)
		}
	}
	if len(p)%2 == 1 {
		p = append(p, '0')
	}

	dst := make([]byte, hex.DecodedLen(len(p)))
	if _, err := hex.Decode(dst, p); err != nil {
		return nil, err
	}
	return bytes.NewReader(dst), nil
}

func (f asciiHexDecode) Encode(r io.Reader) (io.Reader, error) {
	bb, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	dst := make([]byte, hex.EncodedLen(len(bb)))
	hex.Encode(dst, bb)
	dst = append(dst, eodHexDecode)
	return bytes.NewReader(dst), nil
}
