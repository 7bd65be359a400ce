// Package ratelimit provides a fixed-window request limiter keyed by
// caller identity.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter allows rate requests per key per window.
type Limiter struct {
	mu        sync.Mutex
	seen      map[string]*window
	rate      int
	window    time.Duration
	lastPrune time.Time
	now       func() time.Time
}

// window tracks request counts for a single key.
type window struct {
	count int
	start time.Time
}

// New creates a Limiter that allows rate requests per window for each
// distinct key.
func New(rate int, win time.Duration) *Limiter {
	return &Limiter{
		seen:   make(map[string]*window),
		rate:   rate,
		window: win,
		now:    time.Now,
	}
}

// Allow reports whether the key is within its rate limit. The first
// request after a key's window expires starts a fresh window.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.pruneLocked(now)

	w, ok := l.seen[key]
	if !ok || now.Sub(w.start) > l.window {
		l.seen[key] = &window{count: 1, start: now}
		return true
	}
	w.count++
	return w.count <= l.rate
}

// pruneLocked drops entries whose window expired. It runs at most once
// per window length so Allow stays cheap for hot keys.
func (l *Limiter) pruneLocked(now time.Time) {
	if now.Sub(l.lastPrune) <= l.window {
		return
	}
	for key, w := range l.seen {
		if now.Sub(w.start) > l.window {
			delete(l.seen, key)
		}
	}
	l.lastPrune = now
}
