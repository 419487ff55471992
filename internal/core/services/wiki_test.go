package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudmeru/codewiki-mcp/internal/adapters/driven/storage/memory"
	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
)

var vueRepo = domain.RepoRef{Host: "github.com", Owner: "vuejs", Name: "vue"}

func fourSections() *domain.WikiDocument {
	return &domain.WikiDocument{
		Title: "Vue",
		Sections: []domain.Section{
			{Title: "A", Level: 2, Content: "alpha content"},
			{Title: "B", Level: 2, Content: "beta content"},
			{Title: "C", Level: 2, Content: "gamma content"},
			{Title: "D", Level: 2, Content: "delta content"},
		},
	}
}

func newWikiService(r *mockRenderer, doc *domain.WikiDocument, maxChars int) (*WikiService, WikiCaches) {
	caches := WikiCaches{
		HTML:      memory.NewTTLCache[string]("html", 5*time.Minute, 50),
		Documents: memory.NewTTLCache[*domain.WikiDocument]("parsed", 5*time.Minute, 20),
		Topics:    memory.NewTTLCache[string]("topics", 30*time.Minute, 50),
	}
	svc := NewWikiService(r, &mockExtractor{doc: doc}, caches, WikiConfig{
		BaseURL:           "https://codewiki.google",
		MaxChars:          maxChars,
		TopicPreviewChars: 200,
	})
	return svc, caches
}

func TestWikiService_ContentsPaginates(t *testing.T) {
	svc, _ := newWikiService(&mockRenderer{html: "<html/>"}, fourSections(), 30000)

	got, err := svc.Contents(context.Background(), vueRepo, domain.ContentsRequest{Offset: 0, Limit: 2})

	require.NoError(t, err)
	require.NotNil(t, got.Page)
	assert.Contains(t, got.Body, "alpha content")
	assert.Contains(t, got.Body, "beta content")
	assert.NotContains(t, got.Body, "gamma content")
	assert.NotContains(t, got.Body, "delta content")
	assert.Contains(t, got.Body, "offset=2")
	assert.True(t, got.Page.HasMore)
	assert.Equal(t, 2, got.Page.NextOffset)
	assert.Equal(t, 4, got.Page.Total)
}

func TestWikiService_ContentsSection(t *testing.T) {
	svc, _ := newWikiService(&mockRenderer{html: "<html/>"}, fourSections(), 30000)

	t.Run("found case-insensitively", func(t *testing.T) {
		got, err := svc.Contents(context.Background(), vueRepo, domain.ContentsRequest{Section: "c"})

		require.NoError(t, err)
		assert.Nil(t, got.Page)
		assert.Equal(t, "### C\n\ngamma content\n", got.Body)
	})

	t.Run("not found lists titles", func(t *testing.T) {
		_, err := svc.Contents(context.Background(), vueRepo, domain.ContentsRequest{Section: "Routing"})

		var notFound *domain.SectionNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, []string{"A", "B", "C", "D"}, notFound.Available)
		assert.Equal(t, domain.CodeNoContent, domain.CodeOf(err))
	})
}

func TestWikiService_ContentsRejectsNegativePaging(t *testing.T) {
	r := &mockRenderer{html: "<html/>"}
	svc, _ := newWikiService(r, fourSections(), 30000)

	for _, req := range []domain.ContentsRequest{{Offset: -1}, {Limit: -5}} {
		_, err := svc.Contents(context.Background(), vueRepo, req)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Zero(t, r.calls())
}

func TestWikiService_Truncates(t *testing.T) {
	doc := &domain.WikiDocument{
		Title:    "Big",
		Sections: []domain.Section{{Title: "Only", Level: 2, Content: strings.Repeat("word ", 500)}},
	}
	svc, _ := newWikiService(&mockRenderer{html: "<html/>"}, doc, 300)

	got, err := svc.Contents(context.Background(), vueRepo, domain.ContentsRequest{})

	require.NoError(t, err)
	assert.True(t, got.Truncated)
	assert.LessOrEqual(t, len([]rune(got.Body)), 300)
	assert.True(t, strings.HasSuffix(got.Body, domain.TruncationMarker))
}

func TestWikiService_Structure(t *testing.T) {
	r := &mockRenderer{html: "<html/>"}
	svc, _ := newWikiService(r, fourSections(), 30000)

	got, err := svc.Structure(context.Background(), vueRepo)

	require.NoError(t, err)
	assert.Equal(t, "github.com/vuejs/vue", got.Repo)
	assert.Equal(t, 4, got.SectionCount)
	assert.Equal(t, []string{"https://codewiki.google/github.com/vuejs/vue"}, r.urls)
}

func TestWikiService_Topics(t *testing.T) {
	r := &mockRenderer{html: "<html/>"}
	svc, _ := newWikiService(r, fourSections(), 30000)

	first, err := svc.Topics(context.Background(), vueRepo)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Contains(t, first.Body, "4 topics available")
	assert.Contains(t, first.Body, "**A**")

	second, err := svc.Topics(context.Background(), vueRepo)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Body, second.Body)
	assert.Equal(t, 1, r.calls())
}

func TestWikiService_CachesDocument(t *testing.T) {
	r := &mockRenderer{html: "<html/>"}
	svc, caches := newWikiService(r, fourSections(), 30000)

	_, err := svc.Structure(context.Background(), vueRepo)
	require.NoError(t, err)
	got, err := svc.Contents(context.Background(), vueRepo, domain.ContentsRequest{})
	require.NoError(t, err)

	assert.True(t, got.Cached)
	assert.Equal(t, 1, r.calls())
	assert.Equal(t, 1, caches.HTML.Stats().Size)
	assert.Equal(t, 1, caches.Documents.Stats().Size)
}

func TestWikiService_NotIndexed(t *testing.T) {
	r := &mockRenderer{html: ""}
	svc, caches := newWikiService(r, fourSections(), 30000)

	_, err := svc.Structure(context.Background(), vueRepo)

	var notIndexed *domain.NotIndexedError
	require.ErrorAs(t, err, &notIndexed)
	assert.Equal(t, "https://codewiki.google/search?q=vuejs%2Fvue", notIndexed.RequestURL)
	assert.Equal(t, domain.CodeNoContent, domain.CodeOf(err))
	assert.Zero(t, caches.HTML.Stats().Size)
	assert.Zero(t, caches.Documents.Stats().Size)

	// Absent pages are fetched again rather than served from cache.
	_, err = svc.Structure(context.Background(), vueRepo)
	require.Error(t, err)
	assert.Equal(t, 2, r.calls())
}

func TestWikiService_RenderError(t *testing.T) {
	renderErr := errors.New("browser driver failure: navigation failed")
	svc, _ := newWikiService(&mockRenderer{err: renderErr}, fourSections(), 30000)

	_, err := svc.Topics(context.Background(), vueRepo)

	assert.ErrorIs(t, err, renderErr)
}

func TestWikiService_SharesInFlightFetch(t *testing.T) {
	r := &mockRenderer{html: "<html/>", block: make(chan struct{})}
	svc, _ := newWikiService(r, fourSections(), 30000)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Structure(context.Background(), vueRepo)
			errs <- err
		}()
	}

	require.Eventually(t, func() bool { return r.calls() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(r.block)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, r.calls())
}

func TestWikiService_CallerGivesUpFetchCompletes(t *testing.T) {
	r := &mockRenderer{html: "<html/>", block: make(chan struct{})}
	svc, caches := newWikiService(r, fourSections(), 30000)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := svc.Structure(ctx, vueRepo)
		done <- err
	}()

	require.Eventually(t, func() bool { return r.calls() == 1 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(r.block)
	require.Eventually(t, func() bool { return caches.Documents.Stats().Size == 1 }, time.Second, time.Millisecond)

	_, err := svc.Structure(context.Background(), vueRepo)
	require.NoError(t, err)
	assert.Equal(t, 1, r.calls())
}
