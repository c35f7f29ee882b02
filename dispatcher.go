package flightcache

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	c "github.com/unkn0wn-root/flightcache/codec"
	gen "github.com/unkn0wn-root/flightcache/genstore"
	"github.com/unkn0wn-root/flightcache/internal/inflight"
	"github.com/unkn0wn-root/flightcache/internal/keys"
	st "github.com/unkn0wn-root/flightcache/storage"
)

// Dispatcher is a coalescing cache-aside front for one value type.
// Safe for concurrent use.
type Dispatcher[V any] struct {
	ns      string
	storage st.Storage
	codec   c.Codec[V]
	log     Logger
	hooks   Hooks
	gen     GenStore
	enabled bool

	flights inflight.Group[V]

	closeOnce sync.Once
	closeErr  error
}

// GenStore is re-exported so callers can plug their own without importing genstore.
type GenStore = gen.GenStore

func newDispatcher[V any](opts Options[V]) (*Dispatcher[V], error) {
	if opts.Storage == nil {
		return nil, fmt.Errorf("flightcache: storage is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("flightcache: codec is required")
	}

	d := &Dispatcher[V]{
		ns:      opts.Namespace,
		storage: opts.Storage,
		codec:   opts.Codec,
		enabled: !opts.Disabled,
	}

	// defaults
	d.log = coalesce[Logger](opts.Logger, NopLogger{})
	d.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})

	if opts.GenStore != nil {
		d.gen = opts.GenStore
	} else {
		d.gen = gen.NewLocal(
			coalesce(opts.CleanupInterval, defaultSweep),
			coalesce(opts.GenRetention, defaultGenRetention),
		)
	}
	return d, nil
}

// Enabled reports whether the dispatcher reads and writes storage.
func (d *Dispatcher[V]) Enabled() bool { return d.enabled }

// InFlight returns the number of keys currently being loaded.
func (d *Dispatcher[V]) InFlight() int { return d.flights.Len() }

// Get returns the value for key: from storage on a hit, otherwise from load.
//
// On a miss exactly one concurrent caller per key (the leader) runs load
// synchronously, encodes the value and stores it with expiration before
// Get returns. Every caller that misses while that load runs gets a Future
// bound to it and observes the same value or error.
func (d *Dispatcher[V]) Get(ctx context.Context, key string, load Loader[V], expiration time.Time) *Future[V] {
	if key == "" {
		return failed[V](ErrEmptyKey)
	}
	if load == nil {
		return failed[V](ErrNilLoader)
	}

	sk := keys.Storage(d.ns, key)
	if d.enabled {
		v, ok, err := d.lookup(ctx, key, sk)
		if err != nil {
			return failed[V](err)
		}
		if ok {
			d.hooks.Hit(key)
			return resolved(v, nil)
		}
	}
	d.hooks.Miss(key)

	call, leader := d.flights.Begin(key)
	if !leader {
		d.hooks.Coalesced(key)
		d.log.Debug("joined in-flight load", Fields{"key": key})
		return &Future[V]{call: call}
	}

	completed := false
	defer func() {
		// a panicking codec or storage must not strand the followers
		if !completed {
			var zero V
			d.flights.Complete(key, call, zero, &LoaderError{Key: key, Err: ErrLoaderPanic})
		}
	}()
	v, err := d.lead(context.WithoutCancel(ctx), key, sk, load, expiration)
	d.flights.Complete(key, call, v, err)
	completed = true
	return &Future[V]{call: call}
}

// Load is Get followed by Wait.
func (d *Dispatcher[V]) Load(ctx context.Context, key string, load Loader[V], expiration time.Time) (V, error) {
	return d.Get(ctx, key, load, expiration).Wait(ctx)
}

// lead runs one miss episode for key. The caller completes the flight with
// whatever it returns.
func (d *Dispatcher[V]) lead(ctx context.Context, key, sk string, load Loader[V], expiration time.Time) (V, error) {
	var zero V

	if d.enabled {
		// a previous leader may have stored the value between our lookup and Begin
		v, ok, err := d.lookup(ctx, key, sk)
		if err != nil {
			return v, err
		}
		if ok {
			d.hooks.Hit(key)
			return v, nil
		}
	}

	obs, genErr := d.gen.Snapshot(ctx, sk)
	if genErr != nil {
		d.log.Warn("gen snapshot error; write-back disabled for this load", Fields{"key": key, "err": genErr})
	}

	v, err := d.runLoader(ctx, key, load)
	if err != nil {
		d.hooks.LoadFailed(key, err)
		d.log.Debug("load failed", Fields{"key": key, "err": err})
		return zero, err
	}
	if !d.enabled {
		return v, nil
	}

	payload, err := d.codec.Encode(v)
	if err != nil {
		return zero, &SerializationError{Key: key, Err: err}
	}

	if genErr != nil || !d.genUnchanged(ctx, key, sk, obs) {
		d.hooks.WriteSkipped(key)
		d.log.Debug("write-back skipped (invalidated during load)", Fields{"key": key, "obs": obs})
		return v, nil
	}

	if err := d.storage.Put(ctx, sk, st.Entry{Data: payload, Expiration: expiration}); err != nil {
		d.hooks.StorageFailed(key, "put", err)
		d.log.Warn("storage put failed", Fields{"key": key, "err": err})
		return zero, &StorageError{Key: key, Op: "put", Err: err}
	}
	return v, nil
}

func (d *Dispatcher[V]) runLoader(ctx context.Context, key string, load Loader[V]) (v V, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero V
			v = zero
			err = &LoaderError{Key: key, Err: fmt.Errorf("%w: %v", ErrLoaderPanic, r)}
			d.log.Error("loader panicked", Fields{"key": key, "panic": r, "stack": string(debug.Stack())})
		}
	}()
	v, err = load(ctx)
	if err != nil {
		var zero V
		return zero, &LoaderError{Key: key, Err: err}
	}
	return v, nil
}

// lookup reads and decodes key. A decode failure is an error, not a miss.
func (d *Dispatcher[V]) lookup(ctx context.Context, key, sk string) (V, bool, error) {
	var zero V
	e, ok, err := d.storage.Get(ctx, sk)
	if err != nil {
		d.hooks.StorageFailed(key, "get", err)
		d.log.Warn("storage get failed", Fields{"key": key, "err": err})
		return zero, false, &StorageError{Key: key, Op: "get", Err: err}
	}
	if !ok {
		return zero, false, nil
	}
	v, err := d.codec.Decode(e.Data)
	if err != nil {
		d.hooks.DecodeFailed(key, err)
		d.log.Warn("stored entry did not decode", Fields{"key": key, "bytes": len(e.Data), "err": err})
		return zero, false, &DeserializationError{Key: key, Err: err}
	}
	return v, true, nil
}

func (d *Dispatcher[V]) genUnchanged(ctx context.Context, key, sk string, obs uint64) bool {
	cur, err := d.gen.Snapshot(ctx, sk)
	if err != nil {
		d.log.Warn("gen snapshot error", Fields{"key": key, "err": err})
		return false
	}
	return cur == obs
}

// Invalidate removes key from storage and bumps its generation so a load
// already in progress does not write its (now stale) value back.
func (d *Dispatcher[V]) Invalidate(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if !d.enabled {
		return nil
	}
	sk := keys.Storage(d.ns, key)
	newGen, bumpErr := d.gen.Bump(ctx, sk)
	rmErr := d.storage.Remove(ctx, sk)

	switch {
	case bumpErr != nil && rmErr != nil:
		d.hooks.InvalidateOutage(key, bumpErr, rmErr)
		d.log.Error("invalidate failed", Fields{"key": key, "bumpErr": bumpErr, "removeErr": rmErr})
		return &InvalidateError{Key: key, BumpErr: bumpErr, RemoveErr: rmErr}
	case rmErr != nil:
		d.hooks.StorageFailed(key, "remove", rmErr)
		return &StorageError{Key: key, Op: "remove", Err: rmErr}
	case bumpErr != nil:
		// entry is gone; only a concurrent load could still write it back
		d.log.Warn("gen bump error", Fields{"key": key, "err": bumpErr})
		return nil
	}
	d.log.Debug("invalidated key", Fields{"key": key, "newGen": newGen})
	return nil
}

// Purge clears the storage. Loads in progress still write back.
func (d *Dispatcher[V]) Purge(ctx context.Context) error {
	if !d.enabled {
		return nil
	}
	if err := d.storage.Clear(ctx); err != nil {
		d.hooks.StorageFailed("", "clear", err)
		return &StorageError{Op: "clear", Err: err}
	}
	d.log.Info("storage purged", Fields{"ns": d.ns})
	return nil
}

// Close closes the generation store and the storage. Safe to call more than once.
func (d *Dispatcher[V]) Close(ctx context.Context) error {
	d.closeOnce.Do(func() {
		genErr := d.gen.Close(ctx)
		stErr := d.storage.Close(ctx)
		d.closeErr = errors.Join(stErr, genErr)
	})
	return d.closeErr
}
