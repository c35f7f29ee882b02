package storage

import (
	"testing"
	"time"
)

func TestEntryExpiredAndTTL(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		exp     time.Time
		expired bool
		ttl     time.Duration
	}{
		{"no_expiry", time.Time{}, false, 0},
		{"future", now.Add(time.Minute), false, time.Minute},
		{"exactly_now", now, true, -1},
		{"past", now.Add(-time.Second), true, -time.Second},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := Entry{Expiration: tc.exp}
			if got := e.Expired(now); got != tc.expired {
				t.Fatalf("Expired=%v want %v", got, tc.expired)
			}
			if got := e.TTL(now); got != tc.ttl {
				t.Fatalf("TTL=%v want %v", got, tc.ttl)
			}
		})
	}
}
