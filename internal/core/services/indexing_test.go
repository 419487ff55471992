package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudmeru/codewiki-mcp/internal/adapters/driven/storage/memory"
	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
)

func TestIndexingService_Messages(t *testing.T) {
	const (
		searchURL = "https://codewiki.google/search?q=vuejs%2Fvue"
		wikiURL   = "https://codewiki.google/github.com/vuejs/vue"
	)

	tests := []struct {
		stage    domain.IndexStage
		detail   string
		contains []string
	}{
		{
			stage: domain.IndexConfirmed,
			contains: []string{
				"**Indexing request submitted successfully** for **https://github.com/vuejs/vue**.",
				"Check back later at: " + wikiURL,
			},
		},
		{
			stage:    domain.IndexUnconfirmed,
			contains: []string{"could not confirm", "- Check: " + wikiURL, "- Or submit manually at: " + searchURL},
		},
		{
			stage:    domain.IndexSubmitFailed,
			detail:   "submit stayed disabled",
			contains: []string{"could not click Submit for **https://github.com/vuejs/vue**: submit stayed disabled", searchURL},
		},
		{
			stage:    domain.IndexInputMissing,
			contains: []string{"URL input field was not found", "Please submit manually at: " + searchURL},
		},
		{
			stage:    domain.IndexButtonMissing,
			contains: []string{"Could not find the 'Request repository' button", "You can try manually at: " + searchURL},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			svc := NewIndexingService(&mockIndexer{stage: tt.stage, detail: tt.detail}, "https://codewiki.google")

			got, err := svc.RequestIndexing(context.Background(), vueRepo)

			require.NoError(t, err)
			assert.Equal(t, tt.stage, got.Stage)
			assert.Equal(t, wikiURL, got.WikiURL)
			for _, s := range tt.contains {
				assert.Contains(t, got.Message, s)
			}
		})
	}
}

func TestIndexingService_DriverError(t *testing.T) {
	svc := NewIndexingService(&mockIndexer{err: fmt.Errorf("%w: chrome exited", domain.ErrDriver)}, "https://codewiki.google")

	_, err := svc.RequestIndexing(context.Background(), vueRepo)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "browser error during indexing request")
	assert.Equal(t, domain.CodeDriver, domain.CodeOf(err))
}

func TestQuotaService(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	limiter := memory.NewSlidingWindowLimiter(time.Minute, 2).WithClock(func() time.Time { return now })
	svc := NewQuotaService(limiter)

	require.NoError(t, svc.Admit("github.com/vuejs/vue"))
	require.NoError(t, svc.Admit("github.com/vuejs/vue"))
	assert.Equal(t, 0, svc.Remaining("github.com/vuejs/vue"))

	err := svc.Admit("github.com/vuejs/vue")
	var rlErr *domain.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, 2, rlErr.Limit)
	assert.Equal(t, time.Minute, rlErr.Window)
	assert.Equal(t, domain.CodeRateLimited, domain.CodeOf(err))

	assert.NoError(t, svc.Admit("github.com/vuejs/core"))
	assert.Equal(t, 1, svc.Remaining("github.com/vuejs/core"))
}

func TestStatsService(t *testing.T) {
	html := memory.NewTTLCache[string]("html", 5*time.Minute, 50)
	html.Set("u", "<html/>")
	limiter := memory.NewSlidingWindowLimiter(time.Minute, 10)
	limiter.Allow("k")
	pool := &mockPool{stats: domain.PoolStats{Size: 1, MaxSize: 3, Keys: []string{"u"}}}

	got := NewStatsService(limiter, pool, html).Stats()

	require.Len(t, got.Caches, 1)
	assert.Equal(t, "html", got.Caches[0].Name)
	assert.Equal(t, 1, got.Caches[0].Size)
	assert.Equal(t, 10, got.RateLimit.MaxCalls)
	assert.Equal(t, 1, got.RateLimit.TrackedKeys)
	assert.Equal(t, pool.stats, got.Sessions)
}

func TestStatsService_WithoutPool(t *testing.T) {
	got := NewStatsService(nil, nil).Stats()

	assert.Empty(t, got.Caches)
	assert.NotNil(t, got.Sessions.Keys)
}
