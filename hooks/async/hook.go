// Package asynchook moves flightcache.Hooks calls off the request path.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    HitEvery:       100, // ~every 100th hit
//	    CoalescedEvery: 10,
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	d, _ := flightcache.New[User](flightcache.Options[User]{
//	    Namespace: "app:prod:user",
//	    Storage:   store,
//	    Codec:     codec.JSON[User]{},
//	    Hooks:     hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/flightcache"
)

type Hooks struct {
	inner   flightcache.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

var _ flightcache.Hooks = (*Hooks)(nil)

func New(inner flightcache.Hooks, workers, qlen int) *Hooks {
	if inner == nil {
		inner = flightcache.NopHooks{}
	}
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close stops accepting events and waits for queued ones to run.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped reports events discarded because the queue was full or closed.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default: // drop
		h.dropped.Add(1)
	}
}

func (h *Hooks) Hit(k string)       { h.try(func() { h.inner.Hit(k) }) }
func (h *Hooks) Miss(k string)      { h.try(func() { h.inner.Miss(k) }) }
func (h *Hooks) Coalesced(k string) { h.try(func() { h.inner.Coalesced(k) }) }
func (h *Hooks) LoadFailed(k string, err error) {
	h.try(func() { h.inner.LoadFailed(k, err) })
}
func (h *Hooks) DecodeFailed(k string, err error) {
	h.try(func() { h.inner.DecodeFailed(k, err) })
}
func (h *Hooks) StorageFailed(k, op string, err error) {
	h.try(func() { h.inner.StorageFailed(k, op, err) })
}
func (h *Hooks) WriteSkipped(k string) { h.try(func() { h.inner.WriteSkipped(k) }) }
func (h *Hooks) InvalidateOutage(k string, be, re error) {
	h.try(func() { h.inner.InvalidateOutage(k, be, re) })
}
