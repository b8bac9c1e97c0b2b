// Package ratelimit implements fixed-window request counting per client key.
package ratelimit

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// Limiter counts requests per key. When a request is rejected, retryAfter is
// the time left until the current window closes.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration)
}

// MemoryLimiter is a process-local fixed-window limiter.
type MemoryLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu     sync.Mutex
	counts map[string]int
	slot   int64
}

func NewMemoryLimiter(limit int, window time.Duration) (*MemoryLimiter, error) {
	if limit <= 0 || window <= 0 {
		return nil, errors.New("rate limiter requires positive limit and window")
	}
	return &MemoryLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		counts: make(map[string]int),
	}, nil
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, time.Duration) {
	key = normalizeKey(key)
	now := l.now().UTC()
	slot, retryAfter := windowSlot(now, l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	// Counts from an earlier window are dropped wholesale.
	if slot != l.slot {
		l.slot = slot
		clear(l.counts)
	}

	l.counts[key]++
	if l.counts[key] > l.limit {
		return false, retryAfter
	}
	return true, 0
}

func windowSlot(now time.Time, window time.Duration) (int64, time.Duration) {
	windowMs := window.Milliseconds()
	if windowMs <= 0 {
		windowMs = 1
	}
	nowMs := now.UnixMilli()
	slot := nowMs / windowMs
	remaining := time.Duration((slot+1)*windowMs-nowMs) * time.Millisecond
	return slot, remaining
}

func normalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "unknown"
	}
	return key
}
