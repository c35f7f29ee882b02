// Package inflight tracks loads that are currently running, one per key.
//
// The first caller to Begin a key becomes its leader and must Complete it.
// Every other caller gets the same *Call and waits on it. Complete publishes the
// outcome to all waiters (including late attachers) by closing a channel, and
// removes the key so the next miss starts a fresh load.
package inflight

import (
	"context"
	"sync"
)

// Call is a single load in progress or completed.
type Call[V any] struct {
	done chan struct{}
	val  V
	err  error
}

func newCall[V any]() *Call[V] {
	return &Call[V]{done: make(chan struct{})}
}

// Resolved returns a Call that is already complete with (v, err).
func Resolved[V any](v V, err error) *Call[V] {
	c := &Call[V]{done: make(chan struct{}), val: v, err: err}
	close(c.done)
	return c
}

// Done is closed once the outcome is available.
func (c *Call[V]) Done() <-chan struct{} { return c.done }

// Result returns the outcome. Only valid after Done is closed.
func (c *Call[V]) Result() (V, error) { return c.val, c.err }

// Wait blocks until the call completes or ctx is done.
// Giving up on ctx does not affect the load or other waiters.
func (c *Call[V]) Wait(ctx context.Context) (V, error) {
	select {
	case <-c.done:
		return c.val, c.err
	default:
	}
	select {
	case <-c.done:
		return c.val, c.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Group is a registry of in-flight calls keyed by string.
// The zero value is ready to use.
type Group[V any] struct {
	mu sync.Mutex
	m  map[string]*Call[V]
}

// Begin registers a call for key if none is running.
// leader is true for the caller that created it; that caller MUST Complete it.
func (g *Group[V]) Begin(key string) (call *Call[V], leader bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.m[key]; ok {
		return c, false
	}
	if g.m == nil {
		g.m = make(map[string]*Call[V])
	}
	c := newCall[V]()
	g.m[key] = c
	return c, true
}

// Complete records the outcome of call, unregisters key and wakes every waiter.
// Only the leader returned by Begin may call it, exactly once.
func (g *Group[V]) Complete(key string, call *Call[V], v V, err error) {
	call.val, call.err = v, err

	g.mu.Lock()
	if cur, ok := g.m[key]; ok && cur == call {
		delete(g.m, key)
	}
	g.mu.Unlock()

	close(call.done)
}

// Len returns the number of keys currently in flight.
func (g *Group[V]) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.m)
}
