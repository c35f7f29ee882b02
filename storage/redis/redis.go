package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/flightcache/internal/wire"
	st "github.com/unkn0wn-root/flightcache/storage"
)

var (
	ErrNilClient   = errors.New("redis storage: nil client")
	ErrEmptyPrefix = errors.New("redis storage: prefix is required")
)

// Store keeps framed entries in Redis under "<prefix>:<key>".
// Entry expiration is mapped to a native key TTL and also kept in the frame.
// Clear only removes keys under the prefix.
type Store struct {
	rdb         goredis.UniversalClient
	prefix      string
	scanCount   int64
	closeClient bool
	now         func() time.Time
}

var _ st.Storage = (*Store)(nil)

type Config struct {
	Client      goredis.UniversalClient
	Prefix      string // e.g. "app:prod:tracks"
	ScanCount   int64  // SCAN batch hint for Clear; 0 => 512
	CloseClient bool   // set true only if this store exclusively owns the client
}

func New(cfg Config) (*Store, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	if cfg.Prefix == "" {
		return nil, ErrEmptyPrefix
	}
	sc := cfg.ScanCount
	if sc <= 0 {
		sc = 512
	}
	return &Store{
		rdb:         cfg.Client,
		prefix:      cfg.Prefix + ":",
		scanCount:   sc,
		closeClient: cfg.CloseClient,
		now:         time.Now,
	}, nil
}

func (s *Store) key(k string) string { return s.prefix + k }

func (s *Store) Get(ctx context.Context, key string) (st.Entry, bool, error) {
	b, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if err == goredis.Nil {
		return st.Entry{}, false, nil // miss
	}
	if err != nil {
		return st.Entry{}, false, err // transport/server error
	}
	exp, payload, err := wire.DecodeEntry(b)
	if err != nil {
		_ = s.rdb.Del(ctx, s.key(key)).Err() // self-heal foreign bytes
		return st.Entry{}, false, nil
	}
	e := st.Entry{Data: payload, Expiration: exp}
	if e.Expired(s.now()) {
		return st.Entry{}, false, nil
	}
	return e, true, nil
}

func (s *Store) Put(ctx context.Context, key string, e st.Entry) error {
	ttl := e.TTL(s.now())
	if ttl < 0 {
		return s.rdb.Del(ctx, s.key(key)).Err()
	}
	// ttl == 0 => no expiry
	return s.rdb.Set(ctx, s.key(key), wire.EncodeEntry(e.Expiration, e.Data), ttl).Err()
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.key(key)).Err()
}

// Clear SCANs the prefix and UNLINKs matches batch by batch.
// Not atomic: keys written concurrently may survive.
func (s *Store) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, s.prefix+"*", s.scanCount).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.rdb.Unlink(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Close releases the underlying client only when this store owns it.
// Safe to call multiple times.
func (s *Store) Close(context.Context) error {
	if s.closeClient {
		if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
