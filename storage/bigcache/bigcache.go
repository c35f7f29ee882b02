package bigcache

import (
	"context"
	"errors"
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/unkn0wn-root/flightcache/internal/wire"
	st "github.com/unkn0wn-root/flightcache/storage"
)

// Store keeps framed entries in BigCache. BigCache only supports a global
// LifeWindow, so per-entry expiration is carried in the frame and checked on Get.
type Store struct {
	c   *bc.BigCache
	now func() time.Time
}

var _ st.Storage = (*Store)(nil)

type Config struct {
	LifeWindow         time.Duration // upper bound on any entry's lifetime; 0 => 24h
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
	Shards             int // power of two; 0 => bigcache default
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	life := cfg.LifeWindow
	if life <= 0 {
		life = 24 * time.Hour
	}
	conf := bc.DefaultConfig(life)
	conf.Verbose = false
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	if cfg.Shards > 0 {
		conf.Shards = cfg.Shards
	}
	c, err := bc.New(ctx, conf)
	if err != nil {
		return nil, err
	}
	return &Store{c: c, now: time.Now}, nil
}

func (s *Store) Get(_ context.Context, key string) (st.Entry, bool, error) {
	b, err := s.c.Get(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return st.Entry{}, false, nil
	}
	if err != nil {
		return st.Entry{}, false, err
	}
	exp, payload, err := wire.DecodeEntry(b)
	if err != nil {
		_ = s.c.Delete(key) // self-heal foreign/corrupt bytes
		return st.Entry{}, false, nil
	}
	e := st.Entry{Data: payload, Expiration: exp}
	if e.Expired(s.now()) {
		_ = s.c.Delete(key)
		return st.Entry{}, false, nil
	}
	return e, true, nil
}

func (s *Store) Put(_ context.Context, key string, e st.Entry) error {
	return s.c.Set(key, wire.EncodeEntry(e.Expiration, e.Data))
}

func (s *Store) Remove(_ context.Context, key string) error {
	err := s.c.Delete(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil
	}
	return err
}

func (s *Store) Clear(_ context.Context) error {
	return s.c.Reset()
}

func (s *Store) Close(_ context.Context) error {
	return s.c.Close()
}

// Stats exposes BigCache counters (not part of storage.Storage).
func (s *Store) Stats() bc.Stats { return s.c.Stats() }
