package driven

import "github.com/cloudmeru/codewiki-mcp/internal/core/domain"

// Cache is a bounded key-value store whose entries expire after a TTL.
type Cache[V any] interface {
	// Get returns the value for key if present and not expired.
	Get(key string) (V, bool)

	// Set stores value under key, resetting its TTL.
	Set(key string, value V)

	// Stats reports size and hit counters.
	Stats() domain.CacheStats
}

// CacheReporter is any cache that reports statistics.
type CacheReporter interface {
	Stats() domain.CacheStats
}

// RateLimiter admits at most a fixed number of calls per key per window.
type RateLimiter interface {
	// Allow records a call for key and reports whether it is admitted.
	Allow(key string) bool

	// Remaining returns how many calls key may still make in the window.
	Remaining(key string) int

	// Stats reports the limiter configuration and tracked keys.
	Stats() domain.RateLimitStats
}

// SessionPool reports the warm browser sessions kept for chat.
type SessionPool interface {
	PoolStats() domain.PoolStats
}
