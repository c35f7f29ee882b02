// Package sloghooks implements flightcache.Hooks by logging through log/slog.
package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/flightcache"
	"github.com/unkn0wn-root/flightcache/internal/keys"
)

type Options struct {
	// Sampling to avoid floods on hot paths; 0/1 = log all.
	HitEvery       uint64
	MissEvery      uint64
	CoalescedEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	hitCtr       atomic.Uint64
	missCtr      atomic.Uint64
	coalescedCtr atomic.Uint64
}

var _ flightcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	return keys.Redact(k)
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Hit(key string) {
	if h.l == nil || !sample(h.opts.HitEvery, &h.hitCtr) {
		return
	}
	h.l.Debug("flightcache.hit", "key", h.redact(key))
}

func (h *Hooks) Miss(key string) {
	if h.l == nil || !sample(h.opts.MissEvery, &h.missCtr) {
		return
	}
	h.l.Debug("flightcache.miss", "key", h.redact(key))
}

func (h *Hooks) Coalesced(key string) {
	if h.l == nil || !sample(h.opts.CoalescedEvery, &h.coalescedCtr) {
		return
	}
	h.l.Debug("flightcache.coalesced", "key", h.redact(key))
}

func (h *Hooks) LoadFailed(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("flightcache.load_failed",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) DecodeFailed(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("flightcache.decode_failed",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) StorageFailed(key, op string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("flightcache.storage_failed",
		"key", h.redact(key),
		"op", op,
		"err", err)
}

func (h *Hooks) WriteSkipped(key string) {
	if h.l == nil {
		return
	}
	h.l.Info("flightcache.write_skipped", "key", h.redact(key))
}

func (h *Hooks) InvalidateOutage(key string, bumpErr, removeErr error) {
	if h.l == nil {
		return
	}
	h.l.Error("flightcache.invalidate_outage",
		"key", h.redact(key),
		"bump_err", bumpErr,
		"remove_err", removeErr)
}
