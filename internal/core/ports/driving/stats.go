package driving

import "github.com/cloudmeru/codewiki-mcp/internal/core/domain"

// StatsService reports caches, quota and warm sessions.
type StatsService interface {
	Stats() domain.Stats
}
