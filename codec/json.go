package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// JSON is a Codec backed by encoding/json. The zero value is ready to use.
//
// Decode rejects unknown fields and trailing data when Strict is set, which
// turns payloads written for a different struct into decode errors instead of
// partial values.
type JSON[V any] struct {
	Strict bool
}

var _ Codec[struct{}] = JSON[struct{}]{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }

func (c JSON[V]) Decode(b []byte) (V, error) {
	var v V
	if !c.Strict {
		err := json.Unmarshal(b, &v)
		return v, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	if _, err := dec.Token(); err != io.EOF {
		var zero V
		return zero, errTrailingJSON
	}
	return v, nil
}

var errTrailingJSON = errors.New("codec: trailing data after JSON value")
