package flightcache

import (
	"context"

	"github.com/unkn0wn-root/flightcache/internal/inflight"
)

// Future is the pending result of one Get: exactly one value or one error.
// Many Futures may share the same underlying load.
type Future[V any] struct {
	call *inflight.Call[V]
}

func resolved[V any](v V, err error) *Future[V] {
	return &Future[V]{call: inflight.Resolved(v, err)}
}

func failed[V any](err error) *Future[V] {
	var zero V
	return resolved(zero, err)
}

// Done is closed when the result is available.
func (f *Future[V]) Done() <-chan struct{} { return f.call.Done() }

// Ready reports whether the result is available without blocking.
func (f *Future[V]) Ready() bool {
	select {
	case <-f.call.Done():
		return true
	default:
		return false
	}
}

// Result returns the outcome. Only meaningful once Done is closed.
func (f *Future[V]) Result() (V, error) { return f.call.Result() }

// Wait blocks until the result is available or ctx is done.
// Abandoning the wait does not cancel the load or affect other callers.
func (f *Future[V]) Wait(ctx context.Context) (V, error) { return f.call.Wait(ctx) }
