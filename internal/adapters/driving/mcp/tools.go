package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
)

// RepoInput is the input schema for tools that take only a repository.
type RepoInput struct {
	RepoURL string `json:"repo_url" jsonschema:"repository URL (https://github.com/owner/repo), owner/repo shorthand, or a bare keyword such as 'vue' that is resolved by search"`
}

// ContentsInput is the input schema for the read_contents tool.
type ContentsInput struct {
	RepoURL      string `json:"repo_url" jsonschema:"repository URL (https://github.com/owner/repo), owner/repo shorthand, or a bare keyword such as 'vue' that is resolved by search"`
	SectionTitle string `json:"section_title,omitempty" jsonschema:"title or part of a title of one section to read; empty reads sections in order"`
	Offset       int    `json:"offset,omitempty" jsonschema:"index of the first section to return when paginating (default 0)"`
	Limit        int    `json:"limit,omitempty" jsonschema:"maximum number of sections to return (default all remaining)"`
}

// SearchInput is the input schema for the search_wiki tool.
type SearchInput struct {
	RepoURL string `json:"repo_url" jsonschema:"repository URL (https://github.com/owner/repo), owner/repo shorthand, or a bare keyword such as 'vue' that is resolved by search"`
	Query   string `json:"query" jsonschema:"the question to ask about the repository"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "list_topics",
		Description: "List the topics Google CodeWiki has for a repository: section titles with short previews. " +
			"Use read_contents with a section title for the full text. Cached for 30 minutes.",
	}, s.handleListTopics)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "read_structure",
		Description: "Read the section outline of a repository's CodeWiki page as JSON: title, sections with heading levels, and section count.",
	}, s.handleReadStructure)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "read_contents",
		Description: "Read a repository's CodeWiki documentation as markdown. With section_title, returns that section. " +
			"Otherwise returns sections in order, paginated with offset and limit; meta.has_more and meta.next_offset say how to continue.",
	}, s.handleReadContents)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "search_wiki",
		Description: "Ask CodeWiki's Gemini-powered chat a question about a repository. " +
			"Answers are cached for 2 minutes. Slower than reading the wiki directly.",
	}, s.handleSearchWiki)

	if s.ports.Indexing != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name: "request_indexing",
			Description: "Ask Google CodeWiki to index a repository it does not cover yet. " +
				"Use when another tool reports that no content was found.",
		}, s.handleRequestIndexing)
	}
}

func (s *Server) handleListTopics(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input RepoInput,
) (*mcp.CallToolResult, any, error) {
	c := s.begin("list_topics", input.RepoURL, "")
	repo, note, ok := s.target(ctx, req, c, input.RepoURL)
	if !ok {
		return c.finish()
	}

	text, err := s.ports.Wiki.Topics(ctx, repo)
	if err != nil {
		s.fail(c, err)
		return c.finish()
	}
	c.env.setData(note+text.Body, text.Truncated)
	c.env.Meta.Cached = text.Cached
	return c.finish()
}

func (s *Server) handleReadStructure(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input RepoInput,
) (*mcp.CallToolResult, any, error) {
	c := s.begin("read_structure", input.RepoURL, "")
	repo, _, ok := s.target(ctx, req, c, input.RepoURL)
	if !ok {
		return c.finish()
	}

	st, err := s.ports.Wiki.Structure(ctx, repo)
	if err != nil {
		s.fail(c, err)
		return c.finish()
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		s.fail(c, fmt.Errorf("encoding structure: %w", err))
		return c.finish()
	}
	c.env.setData(string(b), false)
	return c.finish()
}

func (s *Server) handleReadContents(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ContentsInput,
) (*mcp.CallToolResult, any, error) {
	section := strings.TrimSpace(input.SectionTitle)
	c := s.begin("read_contents", input.RepoURL, section)
	repo, note, ok := s.target(ctx, req, c, input.RepoURL)
	if !ok {
		return c.finish()
	}

	contents, err := s.ports.Wiki.Contents(ctx, repo, domain.ContentsRequest{
		Section: section,
		Offset:  input.Offset,
		Limit:   input.Limit,
	})
	if err != nil {
		s.fail(c, err)
		return c.finish()
	}
	c.env.setData(note+contents.Body, contents.Truncated)
	c.env.Meta.Cached = contents.Cached
	if contents.Page != nil {
		c.env.Meta.PageMeta = newPageMeta(contents.Page)
	}
	return c.finish()
}

func (s *Server) handleSearchWiki(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, any, error) {
	c := s.begin("search_wiki", input.RepoURL, input.Query)
	c.timeoutLabel = "Search"
	if strings.TrimSpace(input.Query) == "" {
		s.fail(c, fmt.Errorf("%w: query must not be blank", domain.ErrInvalidInput))
		return c.finish()
	}
	repo, note, ok := s.target(ctx, req, c, input.RepoURL)
	if !ok {
		return c.finish()
	}

	answer, err := s.ports.Chat.Ask(ctx, repo, input.Query)
	if answer.Attempt > 0 {
		c.env.Meta.Attempt = answer.Attempt
		c.env.Meta.MaxAttempts = answer.MaxAttempts
	}
	if err != nil {
		s.fail(c, err)
		return c.finish()
	}
	c.env.setData(note+answer.Body, answer.Truncated)
	c.env.Meta.Cached = answer.Cached
	return c.finish()
}

func (s *Server) handleRequestIndexing(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input RepoInput,
) (*mcp.CallToolResult, any, error) {
	c := s.begin("request_indexing", input.RepoURL, "")
	repo, note, ok := s.target(ctx, req, c, input.RepoURL)
	if !ok {
		return c.finish()
	}

	res, err := s.ports.Indexing.RequestIndexing(ctx, repo)
	if err != nil {
		s.fail(c, err)
		return c.finish()
	}
	c.env.setData(note+res.Message, false)
	c.env.Code = domain.CodeNotIndexed
	return c.finish()
}
