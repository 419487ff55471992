package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driven"
)

// selectionField is the elicitation form field holding the chosen repository.
const selectionField = "selected_repo"

// elicitor is the part of a server session that can ask the client a question.
type elicitor interface {
	Elicit(ctx context.Context, params *mcp.ElicitParams) (*mcp.ElicitResult, error)
}

// elicitChooser asks the connected client to pick a repository.
type elicitChooser struct {
	session elicitor
}

var _ driven.Chooser = (*elicitChooser)(nil)

// Choose sends an elicitation request listing candidates. An elicitation
// error means the client offers no channel and the caller falls back to
// its own ranking.
func (c *elicitChooser) Choose(
	ctx context.Context, keyword string, candidates []domain.SearchResult,
) (string, bool, error) {
	res, err := c.session.Elicit(ctx, &mcp.ElicitParams{
		Message:         choiceMessage(keyword, candidates),
		RequestedSchema: choiceSchema(candidates),
	})
	if err != nil {
		return "", false, fmt.Errorf("elicitation: %w", err)
	}
	if res == nil || res.Action != "accept" {
		return "", false, nil
	}
	selected, _ := res.Content[selectionField].(string)
	if selected == "" {
		return "", false, nil
	}
	return selected, true, nil
}

func choiceMessage(keyword string, candidates []domain.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Multiple repositories match **%q**.\n\n", keyword)
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. **%s** (%s★)", i+1, c.FullName(), domain.FormatStars(c.Stars))
		if c.Description != "" {
			fmt.Fprintf(&b, ": %s", c.Description)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nWhich repository do you want to explore?")
	return b.String()
}

func choiceSchema(candidates []domain.SearchResult) *jsonschema.Schema {
	names := make([]any, 0, len(candidates))
	var desc strings.Builder
	desc.WriteString("Select the repository:")
	for _, c := range candidates {
		names = append(names, c.FullName())
		fmt.Fprintf(&desc, "\n• %s (%s★)", c.FullName(), domain.FormatStars(c.Stars))
	}
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			selectionField: {
				Type:        "string",
				Description: desc.String(),
				Enum:        names,
			},
		},
		Required: []string{selectionField},
	}
}
