package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockSearcher implements driven.RepoSearcher for testing.
type mockSearcher struct {
	source  domain.SearchSource
	results []domain.SearchResult
	err     error
	calls   atomic.Int32
}

func (m *mockSearcher) Source() domain.SearchSource {
	return m.source
}

func (m *mockSearcher) Search(_ context.Context, _ string) ([]domain.SearchResult, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

// mockChooser implements driven.Chooser for testing.
type mockChooser struct {
	selected string
	ok       bool
	err      error

	calls   int
	offered []domain.SearchResult
}

func (m *mockChooser) Choose(_ context.Context, _ string, candidates []domain.SearchResult) (string, bool, error) {
	m.calls++
	m.offered = candidates
	return m.selected, m.ok, m.err
}

// mockRenderer implements driven.PageRenderer for testing.
type mockRenderer struct {
	mu    sync.Mutex
	html  string
	err   error
	urls  []string
	block chan struct{}
}

func (m *mockRenderer) Render(_ context.Context, url string) (string, error) {
	m.mu.Lock()
	m.urls = append(m.urls, url)
	m.mu.Unlock()
	if m.block != nil {
		<-m.block
	}
	return m.html, m.err
}

func (m *mockRenderer) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.urls)
}

// mockExtractor implements driven.DocumentExtractor by returning doc for
// any non-empty markup.
type mockExtractor struct {
	doc *domain.WikiDocument
}

func (m *mockExtractor) Extract(html string, repo domain.RepoRef, sourceURL string) *domain.WikiDocument {
	if html == "" || m.doc == nil {
		return &domain.WikiDocument{Repo: repo.ID(), SourceURL: sourceURL}
	}
	d := *m.doc
	d.Repo = repo.ID()
	d.SourceURL = sourceURL
	return &d
}

// mockChat implements driven.ChatClient, replaying one outcome per call.
type mockChat struct {
	answers []string
	errs    []error
	calls   int
	pageURL string
}

func (m *mockChat) Ask(_ context.Context, pageURL, _ string) (string, error) {
	i := m.calls
	m.calls++
	m.pageURL = pageURL
	var err error
	if i < len(m.errs) {
		err = m.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(m.answers) {
		return m.answers[i], nil
	}
	return "", nil
}

// mockIndexer implements driven.IndexRequester for testing.
type mockIndexer struct {
	stage  domain.IndexStage
	detail string
	err    error
}

func (m *mockIndexer) RequestIndexing(_ context.Context, repo domain.RepoRef) (domain.IndexRequest, error) {
	req := domain.IndexRequest{
		Repo:      repo,
		Stage:     m.stage,
		Detail:    m.detail,
		SearchURL: domain.SearchPageURL("https://codewiki.google", repo.SearchQuery()),
	}
	return req, m.err
}

// mockPool implements driven.SessionPool for testing.
type mockPool struct {
	stats domain.PoolStats
}

func (m *mockPool) PoolStats() domain.PoolStats {
	return m.stats
}

var (
	_ driven.RepoSearcher      = (*mockSearcher)(nil)
	_ driven.Chooser           = (*mockChooser)(nil)
	_ driven.PageRenderer      = (*mockRenderer)(nil)
	_ driven.DocumentExtractor = (*mockExtractor)(nil)
	_ driven.ChatClient        = (*mockChat)(nil)
	_ driven.IndexRequester    = (*mockIndexer)(nil)
	_ driven.SessionPool       = (*mockPool)(nil)
)
