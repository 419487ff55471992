package domain

import "time"

// CacheStats describes one cache.
type CacheStats struct {
	Name    string        `json:"name"`
	Size    int           `json:"size"`
	MaxSize int           `json:"max_size"`
	TTL     time.Duration `json:"ttl_ns"`
	Hits    uint64        `json:"hits"`
	Misses  uint64        `json:"misses"`
}

// RateLimitStats describes the per-repository rate limiter.
type RateLimitStats struct {
	Window      time.Duration `json:"window_ns"`
	MaxCalls    int           `json:"max_calls"`
	TrackedKeys int           `json:"tracked_keys"`
}

// PoolStats describes the warm chat sessions.
type PoolStats struct {
	Size    int      `json:"size"`
	MaxSize int      `json:"max_size"`
	Keys    []string `json:"keys"`
}

// Stats is a snapshot of the server's runtime state.
type Stats struct {
	Caches    []CacheStats   `json:"caches"`
	RateLimit RateLimitStats `json:"rate_limit"`
	Sessions  PoolStats      `json:"sessions"`
}
