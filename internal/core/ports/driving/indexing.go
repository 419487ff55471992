package driving

import (
	"context"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
)

// IndexingService asks the wiki to index a repository it does not cover.
type IndexingService interface {
	// RequestIndexing submits repo and returns the outcome with guidance.
	RequestIndexing(ctx context.Context, repo domain.RepoRef) (domain.IndexRequest, error)
}
