package sigsite

import (
	"context"
	"sync"
	"time"
)

// LoginLimiter rate-limits admin login attempts per IP address over a
// sliding window.
type LoginLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	now      func() time.Time
}

// NewLoginLimiter creates a LoginLimiter that allows max attempts per window.
// Stale entries are swept until ctx is done.
func NewLoginLimiter(ctx context.Context, max int, window time.Duration) *LoginLimiter {
	l := &LoginLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		now:      time.Now,
	}
	go l.sweep(ctx)
	return l
}

func (l *LoginLimiter) sweep(ctx context.Context) {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.prune()
		}
	}
}

func (l *LoginLimiter) prune() {
	cutoff := l.now().Add(-l.window)
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip := range l.attempts {
		if kept := recent(l.attempts[ip], cutoff); len(kept) == 0 {
			delete(l.attempts, ip)
		} else {
			l.attempts[ip] = kept
		}
	}
}

func recent(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// Allow checks the limit and records the attempt when it is allowed, under
// one lock so concurrent attempts cannot overshoot max.
func (l *LoginLimiter) Allow(ip string) bool {
	cutoff := l.now().Add(-l.window)
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := recent(l.attempts[ip], cutoff)
	if len(kept) >= l.max {
		l.attempts[ip] = kept
		return false
	}
	l.attempts[ip] = append(kept, l.now())
	return true
}

// Refund drops the newest attempt recorded for ip. Successful logins call
// it so only failures count against the limit.
func (l *LoginLimiter) Refund(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	hits := l.attempts[ip]
	switch len(hits) {
	case 0:
	case 1:
		delete(l.attempts, ip)
	default:
		l.attempts[ip] = hits[:len(hits)-1]
	}
}

// Tracked returns the number of addresses with attempts in memory.
func (l *LoginLimiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.attempts)
}
