// Package codec converts typed values to bytes and back for storage.
//
// The type parameter V plays the role of the target type descriptor: a
// Codec[V] can only decode into V, and must return an error when the bytes do
// not describe a V.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
