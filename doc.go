// Package flightcache implements a coalescing cache-aside dispatcher.
//
// Get returns the cached value for a key, or produces it with the caller's
// Loader, writes it back and hands it to every caller that asked for the same
// key meanwhile. However many goroutines miss the same key at once, the loader
// runs once and the entry is written once; all of them observe the same value
// or the same error.
//
// Components:
//   - storage.Storage: keyed byte entries with an expiration (memory, BigCache,
//     Ristretto, Redis, bbolt).
//   - codec.Codec[V]: (de)serializes V <-> []byte; V is the target type.
//   - genstore.GenStore: per-key generations so Invalidate wins over a load
//     already in progress.
//
// Usage:
//
//	d, _ := flightcache.New[Track](flightcache.Options[Track]{
//	    Storage: memory.New(),
//	    Codec:   codec.JSON[Track]{},
//	})
//	t, err := d.Load(ctx, "track:42", func(ctx context.Context) (Track, error) {
//	    return db.Track(ctx, 42)
//	}, time.Now().Add(time.Hour))
//
// Failed loads are not cached and not retried; the next miss loads again.
package flightcache
