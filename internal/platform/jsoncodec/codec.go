// Package jsoncodec encodes document bodies with sonic into pooled buffers.
package jsoncodec

import (
	"bytes"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
)

var api = sonic.Config{
	SortMapKeys:      true,
	ValidateString:   true,
	CompactMarshaler: true,
}.Froze()

// Marshal returns a compact JSON encoding of v. Map keys are sorted so equal
// values always produce equal bytes.
func Marshal(v any) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := api.NewEncoder(buf).Encode(v); err != nil {
		return nil, errors.Wrap(err, "encode json")
	}

	out := bytes.TrimRight(buf.B, "\n")
	return append([]byte(nil), out...), nil
}

func Unmarshal(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return errors.New("decode json: empty body")
	}
	if err := api.Unmarshal(data, v); err != nil {
		return errors.Wrap(err, "decode json")
	}
	return nil
}

// UnmarshalObject decodes a JSON object into a generic map. Numbers are kept
// as json.Number so integer fields survive a decode/encode round trip.
func UnmarshalObject(data []byte) (map[string]any, error) {
	out := make(map[string]any)
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}

	dec := api.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, errors.Wrap(err, "decode json object")
	}
	return out, nil
}
