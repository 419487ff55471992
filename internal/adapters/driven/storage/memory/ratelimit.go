package memory

import (
	"sync"
	"time"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driven"
)

// Ensure SlidingWindowLimiter implements the interface.
var _ driven.RateLimiter = (*SlidingWindowLimiter)(nil)

// SlidingWindowLimiter admits at most maxCalls per key within any window.
// Calls older than the window no longer count.
type SlidingWindowLimiter struct {
	window   time.Duration
	maxCalls int
	now      func() time.Time

	mu    sync.Mutex
	calls map[string][]time.Time
}

// NewSlidingWindowLimiter creates a limiter.
func NewSlidingWindowLimiter(window time.Duration, maxCalls int) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		window:   window,
		maxCalls: maxCalls,
		now:      time.Now,
		calls:    make(map[string][]time.Time),
	}
}

// WithClock replaces the time source. Used by tests.
func (l *SlidingWindowLimiter) WithClock(now func() time.Time) *SlidingWindowLimiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
	return l
}

// Allow records a call for key and reports whether it is admitted.
// Rejected calls are not recorded.
func (l *SlidingWindowLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(key, now)
	if len(recent) >= l.maxCalls {
		return false
	}
	l.calls[key] = append(recent, now)
	return true
}

// Remaining returns how many calls key may still make in the window.
func (l *SlidingWindowLimiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	left := l.maxCalls - len(l.prune(key, l.now()))
	if left < 0 {
		return 0
	}
	return left
}

// Stats reports the limiter configuration and tracked keys.
func (l *SlidingWindowLimiter) Stats() domain.RateLimitStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return domain.RateLimitStats{
		Window:      l.window,
		MaxCalls:    l.maxCalls,
		TrackedKeys: len(l.calls),
	}
}

// prune drops timestamps outside the window and returns the rest.
// Caller holds mu.
func (l *SlidingWindowLimiter) prune(key string, now time.Time) []time.Time {
	stamps := l.calls[key]
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(stamps) && !stamps[i].After(cutoff) {
		i++
	}
	stamps = stamps[i:]
	if len(stamps) == 0 {
		delete(l.calls, key)
		return nil
	}
	l.calls[key] = stamps
	return stamps
}
