package flightcache

import (
	"context"
	"time"

	c "github.com/unkn0wn-root/flightcache/codec"
	gen "github.com/unkn0wn-root/flightcache/genstore"
	st "github.com/unkn0wn-root/flightcache/storage"
)

// Loader produces the value for a key on a cache miss. It runs at most once per
// miss episode per key, in the goroutine of the caller that won the race.
//
// ctx carries the leader's values but not its cancellation: a started load
// runs to completion because other callers may be waiting on it.
type Loader[V any] func(ctx context.Context) (V, error)

// Options configure a Dispatcher.
// Only Storage and Codec are required; others have sensible defaults.
type Options[V any] struct {
	// Required
	Storage st.Storage
	Codec   c.Codec[V] // V is the value type every entry decodes into

	Namespace       string        // optional storage key prefix, "<ns>:<key>"
	Logger          Logger        // if nil, NopLogger is used
	Hooks           Hooks         // if nil, NopHooks is used
	GenStore        gen.GenStore  // nil => genstore.Local (in-process)
	CleanupInterval time.Duration // local gen pruning; 0 => 1h
	GenRetention    time.Duration // local gen retention; 0 => 24h
	Disabled        bool          // bypass storage; loads are still coalesced
}

// New builds a Dispatcher for values of type V.
func New[V any](opts Options[V]) (*Dispatcher[V], error) {
	return newDispatcher[V](opts)
}
