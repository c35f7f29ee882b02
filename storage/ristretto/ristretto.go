package ristretto

import (
	"context"
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	st "github.com/unkn0wn-root/flightcache/storage"
)

// Store keeps entries in a Ristretto cache with native per-entry TTLs.
//
// Ristretto may drop writes under contention or reject them at admission.
// A dropped Put is indistinguishable from an immediate eviction and is not
// reported as an error; Config.OnDrop is notified instead.
type Store struct {
	c       *rc.Cache
	now     func() time.Time
	dropped func()
}

var _ st.Storage = (*Store)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64 // in payload bytes
	BufferItems int64
	Metrics     bool
	// OnDrop is called for every Put that Ristretto refused. Optional.
	OnDrop func()
}

func New(cfg Config) (*Store, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	drop := cfg.OnDrop
	if drop == nil {
		drop = func() {}
	}
	return &Store{c: c, now: time.Now, dropped: drop}, nil
}

func (s *Store) Get(_ context.Context, key string) (st.Entry, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return st.Entry{}, false, nil
	}
	e, ok := v.(st.Entry)
	if !ok {
		// self-heal: drop unexpected entry shape
		s.c.Del(key)
		return st.Entry{}, false, nil
	}
	if e.Expired(s.now()) {
		return st.Entry{}, false, nil
	}
	// the cached value is shared; hand out a copy
	e.Data = append([]byte(nil), e.Data...)
	return e, true, nil
}

// Put blocks until the write is applied so a following Get observes it.
func (s *Store) Put(_ context.Context, key string, e st.Entry) error {
	ttl := e.TTL(s.now())
	if ttl < 0 {
		// already expired; nothing worth storing
		s.c.Del(key)
		return nil
	}
	cp := st.Entry{Data: append([]byte(nil), e.Data...), Expiration: e.Expiration}
	cost := int64(len(cp.Data))
	if cost == 0 {
		cost = 1
	}
	if !s.c.SetWithTTL(key, cp, cost, ttl) {
		s.dropped()
		return nil
	}
	s.c.Wait()
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.c.Del(key)
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.c.Clear()
	return nil
}

func (s *Store) Close(_ context.Context) error {
	s.c.Wait()
	s.c.Close()
	return nil
}

// Metrics exposes Ristretto metrics when Config.Metrics is set.
func (s *Store) Metrics() *rc.Metrics { return s.c.Metrics }
