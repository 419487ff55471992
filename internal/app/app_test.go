package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudmeru/codewiki-mcp/internal/config"
)

func TestNew(t *testing.T) {
	a, err := New(context.Background(), config.Default())
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Wiki)
	assert.NotNil(t, a.Chat)
	assert.NotNil(t, a.Resolver)
	assert.NotNil(t, a.Indexing)
	assert.NotNil(t, a.Quota)
	assert.NotNil(t, a.Stats)
	assert.Equal(t, config.Default().Browser.HardTimeout, a.HardTimeout)

	ports := a.Ports()
	assert.NoError(t, ports.Validate())
}

func TestNew_Stats(t *testing.T) {
	a, err := New(context.Background(), config.Default())
	require.NoError(t, err)
	defer a.Close()

	stats := a.Stats.Stats()

	names := make([]string, 0, len(stats.Caches))
	for _, c := range stats.Caches {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"html", "documents", "topics", "answers", "resolve"}, names)
	assert.Equal(t, 10, stats.RateLimit.MaxCalls)
	assert.Equal(t, 3, stats.Sessions.MaxSize)
	assert.Zero(t, stats.Sessions.Size)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.RateLimit.MaxCalls = 0

	_, err := New(context.Background(), cfg)

	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestNew_BadGitHubURL(t *testing.T) {
	cfg := config.Default()
	cfg.GitHub.APIURL = "http://[::1"

	_, err := New(context.Background(), cfg)

	assert.ErrorContains(t, err, "GitHub API URL")
}

func TestApp_CloseIsIdempotent(t *testing.T) {
	a, err := New(context.Background(), config.Default())
	require.NoError(t, err)

	a.Close()
	a.Close()
}
