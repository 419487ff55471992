package driving

import (
	"context"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
)

// WikiService reads a repository's rendered wiki page.
type WikiService interface {
	// Topics returns section titles with short previews.
	Topics(ctx context.Context, repo domain.RepoRef) (domain.Text, error)

	// Structure returns the section outline.
	Structure(ctx context.Context, repo domain.RepoRef) (domain.Structure, error)

	// Contents returns one section, or a page of sections, as markdown.
	Contents(ctx context.Context, repo domain.RepoRef, req domain.ContentsRequest) (domain.Contents, error)
}
