package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cloudmeru/codewiki-mcp/internal/app"
	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driven"
	"github.com/cloudmeru/codewiki-mcp/internal/reporef"
)

type mockWiki struct {
	text     domain.Text
	contents domain.Contents
	err      error
	req      domain.ContentsRequest
}

func (m *mockWiki) Topics(context.Context, domain.RepoRef) (domain.Text, error) {
	return m.text, m.err
}

func (m *mockWiki) Structure(_ context.Context, repo domain.RepoRef) (domain.Structure, error) {
	return domain.Structure{Repo: repo.FullName(), Title: "Title", SectionCount: 0,
		Sections: []domain.StructureEntry{}}, m.err
}

func (m *mockWiki) Contents(_ context.Context, _ domain.RepoRef, req domain.ContentsRequest) (domain.Contents, error) {
	m.req = req
	return m.contents, m.err
}

type mockChat struct {
	answer domain.Answer
	query  string
}

func (m *mockChat) Ask(_ context.Context, _ domain.RepoRef, query string) (domain.Answer, error) {
	m.query = query
	return m.answer, nil
}

type mockResolver struct{}

func (mockResolver) ResolveRepo(
	ctx context.Context, raw string, chooser driven.Chooser,
) (domain.RepoRef, *domain.Resolution, error) {
	in, err := reporef.Parse(raw)
	if err != nil {
		return domain.RepoRef{}, nil, err
	}
	if in.Kind == reporef.KindRepo {
		return in.Ref, nil, nil
	}
	res, err := mockResolver{}.Resolve(ctx, raw, chooser)
	if err != nil {
		return domain.RepoRef{}, nil, err
	}
	ref, err := reporef.FromFullName(res.Selected)
	return ref, &res, err
}

func (mockResolver) Resolve(_ context.Context, keyword string, _ driven.Chooser) (domain.Resolution, error) {
	if keyword != "vue" {
		return domain.Resolution{}, fmt.Errorf("%w: no repositories found for %q", domain.ErrNoMatch, keyword)
	}
	return domain.Resolution{
		Keyword:  "vue",
		Selected: "vuejs/vue",
		Source:   domain.SourceWiki,
		Rule:     "canonical",
		Candidates: []domain.SearchResult{
			{Owner: "vuejs", Repo: "vue", Stars: 209900},
			{Owner: "vuejs", Repo: "core", Stars: 50000},
		},
	}, nil
}

type mockIndexing struct{}

func (mockIndexing) RequestIndexing(_ context.Context, repo domain.RepoRef) (domain.IndexRequest, error) {
	return domain.IndexRequest{Repo: repo, Stage: domain.IndexConfirmed,
		Message: "Indexing requested for " + repo.URL()}, nil
}

// setupTestApp installs an application built from fakes and restores the
// command state afterwards.
func setupTestApp(t *testing.T, wiki *mockWiki, chat *mockChat) {
	t.Helper()
	if wiki == nil {
		wiki = &mockWiki{}
	}
	if chat == nil {
		chat = &mockChat{}
	}
	application = &app.App{
		Wiki:     wiki,
		Chat:     chat,
		Resolver: mockResolver{},
		Indexing: mockIndexing{},
	}
	noInteractive = true
	t.Cleanup(func() {
		application = nil
		noInteractive = false
		contentsSection, contentsOffset, contentsLimit = "", 0, 0
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
}

// run executes the root command and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut strings.Builder
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}
