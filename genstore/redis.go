package genstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis shares generations across processes and survives restarts.
// With a TTL, idle generation keys expire; a load spanning the expiry simply
// skips its write-back.
type Redis struct {
	rdb redis.UniversalClient
	ns  string
	ttl time.Duration
}

var _ GenStore = (*Redis)(nil)

// NewRedis creates a Redis-backed generation store. ttl <= 0 disables expiry.
func NewRedis(client redis.UniversalClient, namespace string, ttl time.Duration) *Redis {
	return &Redis{rdb: client, ns: namespace, ttl: ttl}
}

func (s *Redis) key(k string) string { return "gen:" + s.ns + ":" + k }

func (s *Redis) Snapshot(ctx context.Context, key string) (uint64, error) {
	res, err := s.rdb.Get(ctx, s.key(key)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	u, err := strconv.ParseUint(res, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("redis gen parse: %w", err)
	}
	return u, nil
}

// Bump runs INCR, pipelined with EXPIRE when a TTL is configured.
func (s *Redis) Bump(ctx context.Context, key string) (uint64, error) {
	k := s.key(key)

	if s.ttl <= 0 {
		v, err := s.rdb.Incr(ctx, k).Result()
		if err != nil {
			return 0, err
		}
		return uint64(v), nil
	}

	var incr *redis.IntCmd
	_, err := s.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.Expire(ctx, k, s.ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return uint64(incr.Val()), nil
}

// Cleanup is a no-op; Redis expires keys itself when a TTL is set.
func (s *Redis) Cleanup(time.Duration) {}

// Close does not close the client; the caller owns it.
func (s *Redis) Close(context.Context) error { return nil }
