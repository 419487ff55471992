package services

import (
	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driven"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driving"
)

// Ensure StatsService implements the interface.
var _ driving.StatsService = (*StatsService)(nil)

// StatsService snapshots caches, quota and warm sessions.
type StatsService struct {
	caches  []driven.CacheReporter
	limiter driven.RateLimiter
	pool    driven.SessionPool
}

// NewStatsService creates a new stats service. limiter and pool may be nil.
func NewStatsService(limiter driven.RateLimiter, pool driven.SessionPool, caches ...driven.CacheReporter) *StatsService {
	return &StatsService{caches: caches, limiter: limiter, pool: pool}
}

// Stats returns the current snapshot.
func (s *StatsService) Stats() domain.Stats {
	out := domain.Stats{Caches: make([]domain.CacheStats, 0, len(s.caches))}
	for _, c := range s.caches {
		out.Caches = append(out.Caches, c.Stats())
	}
	if s.limiter != nil {
		out.RateLimit = s.limiter.Stats()
	}
	if s.pool != nil {
		out.Sessions = s.pool.PoolStats()
	}
	if out.Sessions.Keys == nil {
		out.Sessions.Keys = []string{}
	}
	return out
}
