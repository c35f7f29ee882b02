package codec

import (
	"github.com/fxamacker/cbor/v2"
)

// CBOR is a Codec backed by fxamacker/cbor.
// The zero value is NOT ready to use. Construct with NewCBOR or MustCBOR.
//
// Deterministic selects RFC 8949 Core Deterministic encoding, useful when the
// stored bytes are hashed or compared. Time values are encoded as RFC3339Nano.
type CBOR[V any] struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ Codec[struct{}] = CBOR[struct{}]{}

// CBOROptions configures NewCBOR.
type CBOROptions struct {
	Deterministic bool
	// RejectUnknown makes Decode fail on map keys that do not match a field of V.
	RejectUnknown bool
}

func NewCBOR[V any](o CBOROptions) (CBOR[V], error) {
	var eo cbor.EncOptions
	if o.Deterministic {
		eo = cbor.CoreDetEncOptions()
	} else {
		eo = cbor.PreferredUnsortedEncOptions()
	}
	eo.Time = cbor.TimeRFC3339Nano

	em, err := eo.EncMode()
	if err != nil {
		return CBOR[V]{}, err
	}
	do := cbor.DecOptions{}
	if o.RejectUnknown {
		do.ExtraReturnErrors = cbor.ExtraDecErrorUnknownField
	}
	dm, err := do.DecMode()
	if err != nil {
		return CBOR[V]{}, err
	}
	return CBOR[V]{enc: em, dec: dm}, nil
}

// MustCBOR is like NewCBOR but panics on error. Handy for package-level vars.
func MustCBOR[V any](o CBOROptions) CBOR[V] {
	c, err := NewCBOR[V](o)
	if err != nil {
		panic(err)
	}
	return c
}

func (c CBOR[V]) Encode(v V) ([]byte, error) {
	return c.enc.Marshal(v)
}

func (c CBOR[V]) Decode(b []byte) (V, error) {
	var v V
	err := c.dec.Unmarshal(b, &v)
	return v, err
}
