package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
)

func resourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestExtractRepo(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
		ok   bool
	}{
		{"valid wiki URI", "codewiki://wiki/microsoft/vscode", "https://github.com/microsoft/vscode", true},
		{"invalid prefix", "file://wiki/microsoft/vscode", "", false},
		{"missing repo", "codewiki://wiki/microsoft", "", false},
		{"extra segment", "codewiki://wiki/a/b/c", "", false},
		{"empty URI", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, ok := extractRepo(tt.uri)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, repo.URL())
			}
		})
	}
}

func TestServer_handleStatsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("without stats port", func(t *testing.T) {
		server := newTestServer(t, validPorts())

		res, err := server.handleStatsResource(ctx, resourceRequest("codewiki://stats"))

		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		assert.Equal(t, "{}", res.Contents[0].Text)
		assert.Equal(t, "application/json", res.Contents[0].MIMEType)
	})

	t.Run("with stats", func(t *testing.T) {
		ports := validPorts()
		ports.Stats = &mockStatsService{stats: domain.Stats{
			Caches:    []domain.CacheStats{{Name: "html", Size: 2, MaxSize: 50, TTL: 5 * time.Minute, Hits: 3}},
			RateLimit: domain.RateLimitStats{Window: time.Minute, MaxCalls: 10, TrackedKeys: 1},
			Sessions:  domain.PoolStats{Size: 1, MaxSize: 3, Keys: []string{"github.com/a/b"}},
		}}
		server := newTestServer(t, ports)

		res, err := server.handleStatsResource(ctx, resourceRequest("codewiki://stats"))

		require.NoError(t, err)
		var got domain.Stats
		require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &got))
		assert.Equal(t, "html", got.Caches[0].Name)
		assert.Equal(t, uint64(3), got.Caches[0].Hits)
		assert.Equal(t, 10, got.RateLimit.MaxCalls)
		assert.Equal(t, []string{"github.com/a/b"}, got.Sessions.Keys)
	})
}

func TestServer_handleWikiResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns markdown", func(t *testing.T) {
		wiki := &mockWikiService{contents: domain.Contents{Text: domain.Text{Body: "# VS Code"}}}
		ports := validPorts()
		ports.Wiki = wiki
		server := newTestServer(t, ports)

		res, err := server.handleWikiResource(ctx, resourceRequest("codewiki://wiki/microsoft/vscode"))

		require.NoError(t, err)
		assert.Equal(t, "# VS Code", res.Contents[0].Text)
		assert.Equal(t, "text/markdown", res.Contents[0].MIMEType)
		assert.Equal(t, domain.ContentsRequest{}, wiki.lastReq)
		assert.Equal(t, "vscode", wiki.lastRepo.Name)
	})

	t.Run("malformed URI", func(t *testing.T) {
		server := newTestServer(t, validPorts())

		_, err := server.handleWikiResource(ctx, resourceRequest("codewiki://wiki/only"))

		require.Error(t, err)
	})

	t.Run("not indexed", func(t *testing.T) {
		ports := validPorts()
		ports.Wiki = &mockWikiService{err: &domain.NotIndexedError{}}
		server := newTestServer(t, ports)

		_, err := server.handleWikiResource(ctx, resourceRequest("codewiki://wiki/a/b"))

		require.Error(t, err)
		assert.False(t, errors.Is(err, domain.ErrNotIndexed))
	})

	t.Run("fetch error", func(t *testing.T) {
		ports := validPorts()
		ports.Wiki = &mockWikiService{err: domain.ErrDriver}
		server := newTestServer(t, ports)

		_, err := server.handleWikiResource(ctx, resourceRequest("codewiki://wiki/a/b"))

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrDriver)
	})
}
