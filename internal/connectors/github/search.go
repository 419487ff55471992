package github

import (
	"context"
	"strings"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driven"
	"github.com/cloudmeru/codewiki-mcp/internal/logger"
)

const (
	// MaxResults is how many repositories one search returns.
	MaxResults = 10

	maxDescriptionChars = 200
)

// Ensure Searcher implements the interface.
var _ driven.RepoSearcher = (*Searcher)(nil)

// Searcher finds candidate repositories through the GitHub search API.
type Searcher struct {
	client      *Client
	wikiBaseURL string
}

// NewSearcher creates a searcher whose results point at wiki pages under
// wikiBaseURL.
func NewSearcher(client *Client, wikiBaseURL string) *Searcher {
	return &Searcher{client: client, wikiBaseURL: strings.TrimRight(wikiBaseURL, "/")}
}

// Source implements driven.RepoSearcher.
func (s *Searcher) Source() domain.SearchSource {
	return domain.SourceGitHub
}

// Search returns up to MaxResults repositories for keyword, most starred
// first.
func (s *Searcher) Search(ctx context.Context, keyword string) ([]domain.SearchResult, error) {
	repos, err := s.client.SearchRepositories(ctx, keyword, MaxResults)
	if err != nil {
		switch {
		case IsUnauthorized(err):
			logger.Warn("github: token rejected, check GITHUB_TOKEN")
		case IsRateLimited(err):
			logger.Warn("github: search quota exhausted: %v", err)
		case IsValidationFailed(err):
			logger.Debug("github: query %q rejected: %v", keyword, err)
		}
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(repos))
	for _, r := range repos {
		owner, name, ok := strings.Cut(r.GetFullName(), "/")
		if !ok || owner == "" || name == "" {
			continue
		}
		results = append(results, domain.SearchResult{
			Owner:       owner,
			Repo:        name,
			Description: capRunes(r.GetDescription(), maxDescriptionChars),
			Stars:       r.GetStargazersCount(),
			PageURL:     WikiPageURL(s.wikiBaseURL, r.GetFullName()),
		})
		if len(results) == MaxResults {
			break
		}
	}

	logger.Info("github: found %d results for %q", len(results), keyword)
	return results, nil
}

// WikiPageURL returns the wiki page of a GitHub repository:
// owner/repo under base becomes base/github.com/owner/repo.
func WikiPageURL(base, fullName string) string {
	return strings.TrimRight(base, "/") + "/github.com/" + fullName
}

func capRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
