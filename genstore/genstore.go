// Package genstore keeps a generation counter per cache key.
//
// The dispatcher snapshots a key's generation before running a loader and
// writes the loaded value back only if the generation is unchanged. Invalidate
// bumps it, so a load that raced an invalidation never resurrects the old value.
package genstore

import (
	"context"
	"time"
)

// GenStore abstracts where generations live.
// Use Local (default) for in-process gens, or Redis to share them across replicas.
type GenStore interface {
	// Snapshot returns the current generation; missing => 0.
	Snapshot(ctx context.Context, key string) (uint64, error)
	// Bump atomically increments and returns the new generation.
	Bump(ctx context.Context, key string) (uint64, error)
	// Cleanup prunes old metadata if applicable (no-op for Redis).
	Cleanup(retention time.Duration)
	// Close releases resources (no-op ok).
	Close(context.Context) error
}
