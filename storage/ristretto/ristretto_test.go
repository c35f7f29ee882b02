package ristretto

import (
	"context"
	"testing"
	"time"

	st "github.com/unkn0wn-root/flightcache/storage"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{NumCounters: 1e4, MaxCost: 1 << 20, BufferItems: 64})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestInvalidConfig(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error for zero config")
	}
}

func TestPutGetRemove(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	exp := time.Now().Add(time.Hour)
	if err := s.Put(ctx, "k", st.Entry{Data: []byte("X"), Expiration: exp}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	e, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || string(e.Data) != "X" || !e.Expiration.Equal(exp) {
		t.Fatalf("Get: ok=%v err=%v e=%+v", ok, err, e)
	}
	e.Data[0] = 'Z'
	if e, _, _ := s.Get(ctx, "k"); string(e.Data) != "X" {
		t.Fatalf("Get result aliases cached entry: %q", e.Data)
	}
	if err := s.Remove(ctx, "k"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("removed key still present")
	}
}

func TestAlreadyExpiredIsNotStored(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	if err := s.Put(ctx, "k", st.Entry{Data: []byte("X"), Expiration: time.Now().Add(-time.Second)}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("expired entry returned")
	}
}

func TestForeignValueSelfHeals(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	s.c.Set("k", "not an entry", 1)
	s.c.Wait()
	if _, ok, err := s.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("foreign value: ok=%v err=%v", ok, err)
	}
	if _, ok := s.c.Get("k"); ok {
		t.Fatalf("foreign value not deleted")
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	_ = s.Put(ctx, "a", st.Entry{Data: []byte("1")})
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "a"); ok {
		t.Fatalf("key survived Clear")
	}
}
