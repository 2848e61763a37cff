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
	"bufio"
	"bytes"
	"io"
	"io/ioutil"

	"github.com/pkg/errors"
)

type runLengthDecode struct {
	baseFilter
}

const eodRunLength = 0x80

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return errors.New("runlength: missing EOD marker in encoded stream")
	}
	return err
}

func (f runLengthDecode) decode(w io.ByteWriter, src io.ByteReader) error {
	for {
		b, err := src.ReadByte()
		if err != nil {
			return unexpectedEOF(err)
		}
		if b == eodRunLength {
			return nil
		}
		if b < 0x80 {
			count := int(b) + 1
			for j := 0; j < count; j++ {
				c, err := src.ReadByte()
				if err != nil {
					return unexpectedEOF(err)
				}
				w.WriteByte(c)
			}
			continue
		}
		count := 257 - int(b)
		c, err := src.ReadByte()
		if err != nil {
			return unexpectedEOF(err)
		}
		for j := 0; j < count; j++ {
			w.WriteByte(c)
		}
	}
}

func (f runLengthDecode) Decode(r io.Reader) (io.Reader, error) {
	var b bytes.Buffer
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	if err := f.decode(&b, br); err != nil {
		return nil, err
	}
	return &b, nil
}

func (f runLengthDecode) encode(w io.ByteWriter, src []byte) {
	const maxLen = 0x80
	if len(src) == 0 {
		w.WriteByte(eodRunLength)
		return
	}

	i := 0
	b := src[i]
	start := i

	for {
		for i < len(src) && src[i] == b && (i-start < maxLen) {
			i++
		}
		count := i - start
		if count > 1 {
			w.WriteByte(byte(257 - count))
			w.WriteByte(b)
			if i == len(src) {
				w.WriteByte(eodRunLength)
				return
			}
			b = src[i]
			start = i
			continue
		}

		for i < len(src) && src[i] != b && (i-start < maxLen) {
			b = src[i]
			i++
		}
		if i == len(src) || i-start == maxLen {
			count = i - start
			w.WriteByte(byte(count - 1))
			for j := 0; j < count; j++ {
				w.WriteByte(src[start+j])
			}
			if i == len(src) {
				w.WriteByte(eodRunLength)
				return
			}
		} else {
			count = i - 1 - start
			w.WriteByte(byte(count - 1))
			for j := 0; j < count; j++ {
				w.WriteByte(src[start+j])
			}
			i--
		}
		b = src[i]
		start = i
	}
}

func (f runLengthDecode) Encode(r io.Reader) (io.Reader, error) {
	p, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var b bytes.Buffer
	f.encode(&b, p)
	return &b, nil
}
