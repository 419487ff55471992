package driving

import (
	"context"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
)

// ChatService asks free-form questions through the wiki's chat.
type ChatService interface {
	// Ask returns the answer to query, retrying failed attempts.
	Ask(ctx context.Context, repo domain.RepoRef, query string) (domain.Answer, error)
}
