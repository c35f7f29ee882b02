package genstore

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestLocalSnapshotAndBump(t *testing.T) {
	ctx := context.Background()
	s := NewLocal(0, 0)
	t.Cleanup(func() { _ = s.Close(ctx) })

	if g, _ := s.Snapshot(ctx, "a"); g != 0 {
		t.Fatalf("missing key gen=%d want 0", g)
	}
	for want := uint64(1); want <= 2; want++ {
		g, err := s.Bump(ctx, "b")
		if err != nil || g != want {
			t.Fatalf("Bump=%d err=%v want %d", g, err, want)
		}
	}
	if g, _ := s.Snapshot(ctx, "b"); g != 2 {
		t.Fatalf("gen=%d want 2", g)
	}
	if g, _ := s.Snapshot(ctx, "a"); g != 0 {
		t.Fatalf("bumping b changed a: %d", g)
	}
}

func TestLocalConcurrentBumps(t *testing.T) {
	ctx := context.Background()
	s := NewLocal(0, 0)
	t.Cleanup(func() { _ = s.Close(ctx) })

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Bump(ctx, "k")
		}()
	}
	wg.Wait()
	if g, _ := s.Snapshot(ctx, "k"); g != 50 {
		t.Fatalf("gen=%d want 50", g)
	}
}

func TestLocalCleanupPrunesOld(t *testing.T) {
	ctx := context.Background()
	s := NewLocal(0, time.Second)
	t.Cleanup(func() { _ = s.Close(ctx) })

	if _, err := s.Bump(ctx, "old"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(1200 * time.Millisecond)
	if _, err := s.Bump(ctx, "fresh"); err != nil {
		t.Fatal(err)
	}
	s.Cleanup(time.Second)

	if g, _ := s.Snapshot(ctx, "old"); g != 0 {
		t.Fatalf("expected pruned -> 0, got %d", g)
	}
	if g, _ := s.Snapshot(ctx, "fresh"); g != 1 {
		t.Fatalf("fresh entry pruned, got %d", g)
	}
}

func TestLocalCloseIdempotent(t *testing.T) {
	s := NewLocal(10*time.Millisecond, time.Minute)
	if err := s.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
}
