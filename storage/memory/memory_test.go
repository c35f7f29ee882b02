package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	st "github.com/unkn0wn-root/flightcache/storage"
)

func TestGetPutRemoveClear(t *testing.T) {
	ctx := context.Background()
	s := New()
	t.Cleanup(func() { _ = s.Close(ctx) })

	if _, ok, err := s.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}

	buf := []byte("X")
	if err := s.Put(ctx, "k", st.Entry{Data: buf}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	buf[0] = 'Y' // caller reuses its buffer
	e, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || string(e.Data) != "X" {
		t.Fatalf("Get: ok=%v err=%v data=%q", ok, err, e.Data)
	}
	e.Data[0] = 'Z' // reader scribbles on its copy
	if e, _, _ := s.Get(ctx, "k"); string(e.Data) != "X" {
		t.Fatalf("Get result aliases stored entry: %q", e.Data)
	}

	if err := s.Remove(ctx, "k"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove(ctx, "missing"); err != nil {
		t.Fatalf("Remove missing: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("removed key still present")
	}

	_ = s.Put(ctx, "a", st.Entry{Data: []byte("1")})
	_ = s.Put(ctx, "b", st.Entry{Data: []byte("2")})
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("Len after Clear=%d", s.Len())
	}
}

func TestExpiredEntriesAreAbsent(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_ = s.Put(ctx, "fresh", st.Entry{Data: []byte("f"), Expiration: now.Add(time.Minute)})
	_ = s.Put(ctx, "stale", st.Entry{Data: []byte("s"), Expiration: now.Add(-time.Second)})
	_ = s.Put(ctx, "forever", st.Entry{Data: []byte("x")})

	if _, ok, _ := s.Get(ctx, "fresh"); !ok {
		t.Fatalf("fresh entry missing")
	}
	if _, ok, _ := s.Get(ctx, "forever"); !ok {
		t.Fatalf("entry without expiration missing")
	}
	if _, ok, _ := s.Get(ctx, "stale"); ok {
		t.Fatalf("expired entry returned")
	}
	if s.Len() != 2 {
		t.Fatalf("expired entry not dropped, Len=%d", s.Len())
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := s.Get(ctx, "fresh"); ok {
		t.Fatalf("entry returned after its expiration")
	}
}

func TestClosed(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.Close(ctx)
	if _, _, err := s.Get(ctx, "k"); !errors.Is(err, st.ErrClosed) {
		t.Fatalf("Get after Close err=%v", err)
	}
	if err := s.Put(ctx, "k", st.Entry{}); !errors.Is(err, st.ErrClosed) {
		t.Fatalf("Put after Close err=%v", err)
	}
}
