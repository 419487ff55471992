package driven

import (
	"context"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
)

// Chooser asks a person to pick one repository when a keyword is ambiguous.
// The MCP adapter implements it with elicitation, the CLI with a picker.
type Chooser interface {
	// Choose returns the selected "owner/repo". ok is false when the person
	// declined or cancelled; err is set when no prompt could be shown.
	Choose(ctx context.Context, keyword string, candidates []domain.SearchResult) (selected string, ok bool, err error)
}
