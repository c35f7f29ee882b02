package codec

import (
	"errors"

	"google.golang.org/protobuf/proto"
)

var errNoCtor = errors.New("codec: protobuf codec has no message constructor")

// Protobuf encodes proto messages in binary wire format.
// Construct with NewProtobuf so Decode knows which message to allocate.
type Protobuf[T proto.Message] struct {
	new func() T
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return proto.Marshal(v)
}

func (c Protobuf[T]) Decode(b []byte) (T, error) {
	if c.new == nil {
		var zero T
		return zero, errNoCtor
	}
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}
