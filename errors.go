package flightcache

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyKey    = errors.New("flightcache: empty key")
	ErrNilLoader   = errors.New("flightcache: nil loader")
	ErrLoaderPanic = errors.New("flightcache: loader panicked")
)

// DeserializationError reports stored bytes the codec could not decode.
// The loader is not consulted and nothing is written.
type DeserializationError struct {
	Key string
	Err error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("flightcache: decode %q: %v", e.Key, e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// SerializationError reports a loaded value the codec could not encode.
type SerializationError struct {
	Key string
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("flightcache: encode %q: %v", e.Key, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// LoaderError wraps the error (or recovered panic) of a Loader. Every caller
// coalesced onto that load receives the same *LoaderError.
type LoaderError struct {
	Key string
	Err error
}

func (e *LoaderError) Error() string {
	return fmt.Sprintf("flightcache: load %q: %v", e.Key, e.Err)
}

func (e *LoaderError) Unwrap() error { return e.Err }

// StorageError wraps a failure of the storage backend.
// Op is one of "get", "put", "remove", "clear".
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("flightcache: storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("flightcache: storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// InvalidateError is returned when both the generation bump and the storage
// removal failed, so neither stale reads nor stale write-backs are prevented.
type InvalidateError struct {
	Key       string
	BumpErr   error
	RemoveErr error
}

func (e *InvalidateError) Error() string {
	return fmt.Sprintf("invalidate %q failed: gen bump and remove failed: bump=%v; remove=%v",
		e.Key, e.BumpErr, e.RemoveErr)
}

func (e *InvalidateError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.BumpErr != nil {
		errs = append(errs, e.BumpErr)
	}
	if e.RemoveErr != nil {
		errs = append(errs, e.RemoveErr)
	}
	return errs
}
