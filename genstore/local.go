package genstore

import (
	"context"
	"sync"
	"time"
)

type localEntry struct {
	gen       uint64
	updatedAt time.Time
}

// Local keeps generations in-process. An optional background loop prunes
// entries not bumped within the retention window; a pruned key reads as 0,
// which only costs a skipped write-back for loads spanning the prune.
type Local struct {
	mu   sync.RWMutex
	gens map[string]localEntry

	stopCh    chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

var _ GenStore = (*Local)(nil)

// NewLocal starts a cleanup loop when both cleanupInterval and retention are > 0.
func NewLocal(cleanupInterval, retention time.Duration) *Local {
	s := &Local{gens: make(map[string]localEntry)}
	if cleanupInterval > 0 && retention > 0 {
		s.stopCh = make(chan struct{})
		s.wg.Add(1)
		go s.loop(cleanupInterval, retention)
	}
	return s
}

func (s *Local) loop(every, retention time.Duration) {
	defer s.wg.Done()
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			s.Cleanup(retention)
		case <-s.stopCh:
			return
		}
	}
}

func (s *Local) Snapshot(_ context.Context, key string) (uint64, error) {
	s.mu.RLock()
	e := s.gens[key]
	s.mu.RUnlock()
	return e.gen, nil
}

func (s *Local) Bump(_ context.Context, key string) (uint64, error) {
	now := time.Now()
	s.mu.Lock()
	e := s.gens[key]
	e.gen++
	e.updatedAt = now
	s.gens[key] = e
	s.mu.Unlock()
	return e.gen, nil
}

func (s *Local) Cleanup(retention time.Duration) {
	if retention <= 0 {
		return
	}
	cutoff := time.Now().Add(-retention)

	s.mu.Lock()
	for k, e := range s.gens {
		if e.updatedAt.Before(cutoff) {
			delete(s.gens, k)
		}
	}
	s.mu.Unlock()
}

func (s *Local) Close(_ context.Context) error {
	s.closeOnce.Do(func() {
		if s.stopCh != nil {
			close(s.stopCh)
			s.wg.Wait()
		}
	})
	return nil
}
