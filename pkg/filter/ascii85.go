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
	"encoding/ascii85"
	"io"
	"io/ioutil"

	"github.com/pkg/errors"
)

type ascii85Decode struct {
	baseFilter
}

const eodASCII85 = "~>"

func (f ascii85Decode) Decode(r io.Reader) (io.Reader, error) {
	p, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !bytes.HasSuffix(p, []byte(eodASCII85)) {
		return nil, errors.New("ascii85: missing eod marker")
	}
	p = p[:len(p)-2]

	decoder := ascii85.NewDecoder(bytes.NewReader(p))
	out, err := ioutil.ReadAll(decoder)
	if err != nil {
		return nil, errors.Wrap(err, "ascii85: decode")
	}
	return bytes.NewReader(out), nil
}

func (f ascii85Decode) Encode(r io.Reader) (io.Reader, error) {
	p, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var b bytes.Buffer
	enc := ascii85.NewEncoder(&b)
	if _, err := enc.Write(p); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	b.WriteString(eodASCII85)
	return &b, nil
}
