package driving

import (
	"context"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driven"
)

// ResolverService turns user input into a concrete repository.
type ResolverService interface {
	// ResolveRepo parses raw. A bare keyword is resolved by search and the
	// Resolution is returned alongside; otherwise it is nil. chooser may
	// be nil when nobody can be asked.
	ResolveRepo(ctx context.Context, raw string, chooser driven.Chooser) (domain.RepoRef, *domain.Resolution, error)

	// Resolve maps a bare keyword to a repository.
	Resolve(ctx context.Context, keyword string, chooser driven.Chooser) (domain.Resolution, error)
}
