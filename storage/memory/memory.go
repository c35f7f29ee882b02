// Package memory is an in-process Storage backed by a map.
// Entries past their expiration are reported as absent and dropped lazily.
package memory

import (
	"context"
	"sync"
	"time"

	st "github.com/unkn0wn-root/flightcache/storage"
)

type Store struct {
	mu     sync.RWMutex
	m      map[string]st.Entry
	now    func() time.Time
	closed bool
}

var _ st.Storage = (*Store)(nil)

func New() *Store {
	return &Store{m: make(map[string]st.Entry), now: time.Now}
}

func (s *Store) Get(_ context.Context, key string) (st.Entry, bool, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return st.Entry{}, false, st.ErrClosed
	}
	e, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return st.Entry{}, false, nil
	}
	if e.Expired(s.now()) {
		s.mu.Lock()
		// re-check: a concurrent Put may have replaced it
		if cur, ok := s.m[key]; ok && cur.Expired(s.now()) {
			delete(s.m, key)
		}
		s.mu.Unlock()
		return st.Entry{}, false, nil
	}
	e.Data = append([]byte(nil), e.Data...)
	return e, true, nil
}

// Put stores a private copy of e.Data so callers may reuse their buffer.
func (s *Store) Put(_ context.Context, key string, e st.Entry) error {
	cp := st.Entry{Data: append([]byte(nil), e.Data...), Expiration: e.Expiration}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return st.ErrClosed
	}
	s.m[key] = cp
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return st.ErrClosed
	}
	delete(s.m, key)
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return st.ErrClosed
	}
	clear(s.m)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

func (s *Store) Close(_ context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.m = make(map[string]st.Entry)
	s.mu.Unlock()
	return nil
}
