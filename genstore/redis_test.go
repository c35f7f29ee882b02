package genstore

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestRedisSnapshotBump(t *testing.T) {
	addr := os.Getenv("FLIGHTCACHE_REDIS_ADDR")
	if addr == "" {
		t.Skip("FLIGHTCACHE_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}

	ns := "flightcache-gen-test:" + strconv.FormatInt(time.Now().UnixNano(), 36)
	s := NewRedis(rdb, ns, time.Minute)
	t.Cleanup(func() { _ = rdb.Del(ctx, s.key("k")).Err() })

	if g, err := s.Snapshot(ctx, "k"); err != nil || g != 0 {
		t.Fatalf("unseen key: gen=%d err=%v", g, err)
	}
	for want := uint64(1); want <= 2; want++ {
		g, err := s.Bump(ctx, "k")
		if err != nil || g != want {
			t.Fatalf("Bump: gen=%d err=%v want %d", g, err, want)
		}
	}
	if g, _ := s.Snapshot(ctx, "k"); g != 2 {
		t.Fatalf("Snapshot=%d want 2", g)
	}
	if ttl := rdb.TTL(ctx, s.key("k")).Val(); ttl <= 0 {
		t.Fatalf("gen key has no TTL: %v", ttl)
	}
	if err := s.Close(ctx); err != nil {
		t.Fatal(err)
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Fatalf("Close closed the caller's client: %v", err)
	}
}
