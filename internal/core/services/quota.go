package services

import (
	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driven"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driving"
)

// Ensure QuotaService implements the interface.
var _ driving.QuotaService = (*QuotaService)(nil)

// QuotaService admits tool calls against a per-key rate limiter.
type QuotaService struct {
	limiter driven.RateLimiter
}

// NewQuotaService creates a new quota service.
func NewQuotaService(limiter driven.RateLimiter) *QuotaService {
	return &QuotaService{limiter: limiter}
}

// Admit records a call for key or rejects it with a *domain.RateLimitError.
func (s *QuotaService) Admit(key string) error {
	if s.limiter.Allow(key) {
		return nil
	}
	st := s.limiter.Stats()
	return &domain.RateLimitError{Key: key, Limit: st.MaxCalls, Window: st.Window}
}

// Remaining returns how many calls key may still make.
func (s *QuotaService) Remaining(key string) int {
	return s.limiter.Remaining(key)
}
