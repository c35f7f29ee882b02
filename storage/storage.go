// Package storage defines the keyed byte-entry store consumed by flightcache.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly the
// payload previously passed to Put for a key. Backends that only hold []byte
// frame the payload together with its expiration (see internal/wire) and must
// strip that framing again on Get.
//
// Freshness is a storage concern. The dispatcher attaches the caller's
// expiration to every Entry it writes and never interprets it; a backend should
// report an entry whose expiration has passed as absent.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("storage: closed")

// Entry is an immutable cached payload plus its expiration.
// A zero Expiration means the entry never expires.
type Entry struct {
	Data       []byte
	Expiration time.Time
}

// Expired reports whether e is past its expiration at now.
func (e Entry) Expired(now time.Time) bool {
	return !e.Expiration.IsZero() && !now.Before(e.Expiration)
}

// TTL converts the expiration into a duration relative to now.
// Returns 0 for entries without expiration and a negative value for expired ones.
func (e Entry) TTL(now time.Time) time.Duration {
	if e.Expiration.IsZero() {
		return 0
	}
	d := e.Expiration.Sub(now)
	if d == 0 {
		return -1
	}
	return d
}

// Storage is a minimal keyed entry store.
// Must be safe for concurrent use.
type Storage interface {
	// Get returns (entry, true, nil) on hit; (Entry{}, false, nil) on miss.
	// If an IO/remote error happens, return (Entry{}, false, err).
	Get(ctx context.Context, key string) (Entry, bool, error)

	// Put stores e under key, replacing any previous entry.
	Put(ctx context.Context, key string, e Entry) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// Clear removes every entry owned by this store.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close(ctx context.Context) error
}
