// Package bbolt is an on-disk Storage backed by a single bbolt bucket.
package bbolt

import (
	"context"
	"errors"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/unkn0wn-root/flightcache/internal/wire"
	st "github.com/unkn0wn-root/flightcache/storage"
)

// Store persists framed entries in a bbolt file. Safe for concurrent use;
// bbolt serializes writers and lets readers run in parallel.
type Store struct {
	db     *bolt.DB
	bucket []byte
	now    func() time.Time
}

var _ st.Storage = (*Store)(nil)

type Options struct {
	// Bucket is the name of the bucket to use; "" => "flightcache".
	Bucket string
	// Timeout for acquiring the file lock; 0 => 1s.
	Timeout time.Duration
	// NoSync skips fsync per write. Faster, loses recent writes on crash.
	NoSync bool
}

// Open initializes or opens a Store at path.
func Open(path string, opts Options) (*Store, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = time.Second
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: timeout, NoSync: opts.NoSync})
	if err != nil {
		return nil, err
	}
	bucket := []byte("flightcache")
	if opts.Bucket != "" {
		bucket = []byte(opts.Bucket)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, bucket: bucket, now: time.Now}, nil
}

func (s *Store) Get(_ context.Context, key string) (st.Entry, bool, error) {
	var (
		out     st.Entry
		found   bool
		corrupt bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.bucket).Get([]byte(key))
		if v == nil {
			return nil
		}
		exp, payload, err := wire.DecodeEntry(v)
		if err != nil {
			corrupt = true
			return nil
		}
		// v is only valid inside the transaction
		out = st.Entry{Data: append([]byte(nil), payload...), Expiration: exp}
		found = true
		return nil
	})
	if err != nil {
		return st.Entry{}, false, err
	}
	if corrupt {
		_ = s.Remove(context.Background(), key) // self-heal
		return st.Entry{}, false, nil
	}
	if !found || out.Expired(s.now()) {
		return st.Entry{}, false, nil
	}
	return out, true, nil
}

func (s *Store) Put(_ context.Context, key string, e st.Entry) error {
	buf := wire.EncodeEntry(e.Expiration, e.Data)
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), buf)
	})
}

func (s *Store) Remove(_ context.Context, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(key))
	})
}

// Clear drops and recreates the bucket in one transaction.
func (s *Store) Clear(_ context.Context) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(s.bucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(s.bucket)
		return err
	})
}

// Sweep deletes every expired entry and returns how many were removed.
// Expired entries are otherwise only hidden from Get, never deleted.
func (s *Store) Sweep(_ context.Context) (int, error) {
	now := s.now()
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			exp, err := wire.PeekExpiration(v)
			if err != nil || (st.Entry{Expiration: exp}).Expired(now) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		// deleting while iterating skips items; delete after the walk
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

// Close closes the underlying database.
func (s *Store) Close(_ context.Context) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
