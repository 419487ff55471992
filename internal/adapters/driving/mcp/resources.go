package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/reporef"
)

const (
	// uriScheme is the custom URI scheme for codewiki resources.
	uriScheme = "codewiki://"

	wikiPrefix = uriScheme + "wiki/"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "stats",
		Name:        "stats",
		Description: "Cache, rate limit and browser session statistics",
		MIMEType:    "application/json",
	}, s.handleStatsResource)

	// Template for whole wiki pages.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: wikiPrefix + "{owner}/{repo}",
		Name:        "wiki-page",
		Description: "CodeWiki documentation for a GitHub repository as markdown",
		MIMEType:    "text/markdown",
	}, s.handleWikiResource)
}

// handleStatsResource returns a runtime statistics snapshot.
func (s *Server) handleStatsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	text := "{}"
	if s.ports.Stats != nil {
		data, err := json.MarshalIndent(s.ports.Stats.Stats(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshalling stats: %w", err)
		}
		text = string(data)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     text,
		}},
	}, nil
}

// handleWikiResource returns every section of a repository's wiki page.
func (s *Server) handleWikiResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	repo, ok := extractRepo(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	contents, err := s.ports.Wiki.Contents(ctx, repo, domain.ContentsRequest{})
	if err != nil {
		if errors.Is(err, domain.ErrNotIndexed) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("reading wiki for %s: %w", repo, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     contents.Body,
		}},
	}, nil
}

// extractRepo extracts the repository from a URI like
// codewiki://wiki/{owner}/{repo}.
func extractRepo(uri string) (domain.RepoRef, bool) {
	rest, ok := strings.CutPrefix(uri, wikiPrefix)
	if !ok || strings.Count(rest, "/") != 1 {
		return domain.RepoRef{}, false
	}
	repo, err := reporef.FromFullName(rest)
	if err != nil {
		return domain.RepoRef{}, false
	}
	return repo, true
}
