package driven

import (
	"context"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
)

// PageRenderer renders a client-side rendered page and returns its markup.
// Implementations funnel all browser work through one owner.
type PageRenderer interface {
	// Render navigates an isolated context to url and returns the settled HTML.
	Render(ctx context.Context, url string) (string, error)
}

// DocumentExtractor parses rendered wiki HTML.
type DocumentExtractor interface {
	// Extract builds a WikiDocument. It never fails: unparseable markup
	// yields a content-absent document.
	Extract(html string, repo domain.RepoRef, sourceURL string) *domain.WikiDocument
}

// ChatClient asks the wiki page's embedded chat a question.
type ChatClient interface {
	// Ask runs one full attempt: open panel, type, submit, wait for a
	// stable answer. Returns the cleaned response text.
	Ask(ctx context.Context, pageURL, query string) (string, error)
}

// IndexRequester drives the site's "request a repository" form.
type IndexRequester interface {
	// RequestIndexing submits repo for indexing and reports how far it got.
	RequestIndexing(ctx context.Context, repo domain.RepoRef) (domain.IndexRequest, error)
}

// RepoSearcher returns candidate repositories for a bare keyword.
type RepoSearcher interface {
	// Source names where results come from.
	Source() domain.SearchSource

	// Search returns candidates in the source's relevance order.
	Search(ctx context.Context, keyword string) ([]domain.SearchResult, error)
}
