package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driven"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driving"
	"github.com/cloudmeru/codewiki-mcp/internal/reporef"
)

// mockWikiService is a mock implementation of driving.WikiService.
type mockWikiService struct {
	topics    domain.Text
	structure domain.Structure
	contents  domain.Contents
	err       error

	lastRepo domain.RepoRef
	lastReq  domain.ContentsRequest
}

func (m *mockWikiService) Topics(_ context.Context, repo domain.RepoRef) (domain.Text, error) {
	m.lastRepo = repo
	return m.topics, m.err
}

func (m *mockWikiService) Structure(_ context.Context, repo domain.RepoRef) (domain.Structure, error) {
	m.lastRepo = repo
	return m.structure, m.err
}

func (m *mockWikiService) Contents(
	_ context.Context, repo domain.RepoRef, req domain.ContentsRequest,
) (domain.Contents, error) {
	m.lastRepo = repo
	m.lastReq = req
	return m.contents, m.err
}

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	answer domain.Answer
	err    error
	calls  int
}

func (m *mockChatService) Ask(_ context.Context, _ domain.RepoRef, _ string) (domain.Answer, error) {
	m.calls++
	return m.answer, m.err
}

// mockResolverService resolves owner/repo and URLs directly and maps
// keywords through a fixed table.
type mockResolverService struct {
	keywords map[string]string
	err      error

	chooser driven.Chooser
}

func (m *mockResolverService) ResolveRepo(
	ctx context.Context, raw string, chooser driven.Chooser,
) (domain.RepoRef, *domain.Resolution, error) {
	m.chooser = chooser
	if m.err != nil {
		return domain.RepoRef{}, nil, m.err
	}
	in, err := reporef.Parse(raw)
	if err != nil {
		return domain.RepoRef{}, nil, err
	}
	if in.Kind == reporef.KindRepo {
		return in.Ref, nil, nil
	}
	res, err := m.Resolve(ctx, raw, chooser)
	if err != nil {
		return domain.RepoRef{}, nil, err
	}
	ref, err := reporef.FromFullName(res.Selected)
	return ref, &res, err
}

func (m *mockResolverService) Resolve(_ context.Context, keyword string, _ driven.Chooser) (domain.Resolution, error) {
	selected, ok := m.keywords[keyword]
	if !ok {
		return domain.Resolution{}, fmt.Errorf("%w: no repositories found for %q", domain.ErrNoMatch, keyword)
	}
	return domain.Resolution{
		Keyword:  keyword,
		Selected: selected,
		Source:   domain.SourceWiki,
		Rule:     "canonical",
		Candidates: []domain.SearchResult{
			{Owner: "vuejs", Repo: "core", Stars: 50000},
			{Owner: "vuejs", Repo: "vue", Stars: 209900},
		},
	}, nil
}

// mockIndexingService is a mock implementation of driving.IndexingService.
type mockIndexingService struct {
	result domain.IndexRequest
	err    error
}

func (m *mockIndexingService) RequestIndexing(_ context.Context, repo domain.RepoRef) (domain.IndexRequest, error) {
	if m.err != nil {
		return domain.IndexRequest{}, m.err
	}
	res := m.result
	res.Repo = repo
	return res, nil
}

// mockQuotaService admits up to limit calls per key.
type mockQuotaService struct {
	limit int
	used  map[string]int
}

func newMockQuota(limit int) *mockQuotaService {
	return &mockQuotaService{limit: limit, used: make(map[string]int)}
}

func (m *mockQuotaService) Admit(key string) error {
	if m.used[key] >= m.limit {
		return &domain.RateLimitError{Key: key, Limit: m.limit}
	}
	m.used[key]++
	return nil
}

func (m *mockQuotaService) Remaining(key string) int {
	return m.limit - m.used[key]
}

// mockStatsService is a mock implementation of driving.StatsService.
type mockStatsService struct {
	stats domain.Stats
}

func (m *mockStatsService) Stats() domain.Stats {
	return m.stats
}

// mockElicitor is a mock client session that answers elicitation requests.
type mockElicitor struct {
	result *mcp.ElicitResult
	err    error
	params *mcp.ElicitParams
}

func (m *mockElicitor) Elicit(_ context.Context, params *mcp.ElicitParams) (*mcp.ElicitResult, error) {
	m.params = params
	return m.result, m.err
}

var (
	_ driving.WikiService     = (*mockWikiService)(nil)
	_ driving.ChatService     = (*mockChatService)(nil)
	_ driving.ResolverService = (*mockResolverService)(nil)
	_ driving.IndexingService = (*mockIndexingService)(nil)
	_ driving.QuotaService    = (*mockQuotaService)(nil)
	_ driving.StatsService    = (*mockStatsService)(nil)
	_ elicitor                = (*mockElicitor)(nil)
)
