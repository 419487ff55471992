// Package app wires configuration, adapters and services into the ports
// the MCP server and the CLI drive.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cloudmeru/codewiki-mcp/internal/adapters/driven/browser"
	"github.com/cloudmeru/codewiki-mcp/internal/adapters/driven/storage/memory"
	"github.com/cloudmeru/codewiki-mcp/internal/adapters/driving/mcp"
	"github.com/cloudmeru/codewiki-mcp/internal/config"
	"github.com/cloudmeru/codewiki-mcp/internal/connectors/github"
	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driven"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driving"
	"github.com/cloudmeru/codewiki-mcp/internal/core/services"
	"github.com/cloudmeru/codewiki-mcp/internal/logger"
	"github.com/cloudmeru/codewiki-mcp/internal/normalisers/wiki"
)

// App holds the driving ports for one process.
type App struct {
	Wiki     driving.WikiService
	Chat     driving.ChatService
	Resolver driving.ResolverService
	Indexing driving.IndexingService
	Quota    driving.QuotaService
	Stats    driving.StatsService

	// HardTimeout is the browser operation ceiling.
	HardTimeout time.Duration

	closeOnce sync.Once
	closers   []func()
}

// New builds the application from cfg. The browser is launched lazily on
// the first operation that needs it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runtime := browser.NewRuntime(cfg.BrowserOptions())

	htmlCache := memory.NewTTLCache[string]("html", cfg.Cache.TTL, cfg.Cache.MaxSize)
	docCache := memory.NewTTLCache[*domain.WikiDocument]("documents", cfg.Cache.TTL, cfg.Cache.ParsedMaxSize)
	topicsCache := memory.NewTTLCache[string]("topics", cfg.Cache.TopicsTTL, cfg.Cache.MaxSize)
	answerCache := memory.NewTTLCache[string]("answers", cfg.Cache.SearchTTL, cfg.Cache.SearchMaxSize)
	resolveCache := memory.NewTTLCache[[]domain.SearchResult]("resolve", cfg.Cache.ResolveTTL, cfg.Cache.SearchMaxSize)
	limiter := memory.NewSlidingWindowLimiter(cfg.RateLimit.Window, cfg.RateLimit.MaxCalls)

	searchers := []driven.RepoSearcher{runtime}
	gh := github.NewClient(ctx, cfg.GitHub.Token)
	if cfg.GitHub.APIURL != "" {
		if err := gh.SetBaseURL(cfg.GitHub.APIURL); err != nil {
			runtime.Close()
			return nil, fmt.Errorf("configuring GitHub API URL: %w", err)
		}
	}
	searchers = append(searchers, github.NewSearcher(gh, cfg.BaseURL))

	a := &App{
		Wiki: services.NewWikiService(runtime, wiki.New(), services.WikiCaches{
			HTML:      htmlCache,
			Documents: docCache,
			Topics:    topicsCache,
		}, services.WikiConfig{
			BaseURL:           cfg.BaseURL,
			MaxChars:          cfg.Output.MaxChars,
			TopicPreviewChars: cfg.Output.TopicPreviewChars,
		}),
		Chat: services.NewChatService(runtime, answerCache, services.ChatConfig{
			BaseURL:     cfg.BaseURL,
			MaxAttempts: cfg.Chat.MaxRetries,
			RetryDelay:  cfg.Chat.RetryDelay,
			MaxChars:    cfg.Output.MaxChars,
		}),
		Resolver:    services.NewResolverService(resolveCache, searchers...),
		Indexing:    services.NewIndexingService(runtime, cfg.BaseURL),
		Quota:       services.NewQuotaService(limiter),
		Stats:       services.NewStatsService(limiter, runtime, htmlCache, docCache, topicsCache, answerCache, resolveCache),
		HardTimeout: cfg.Browser.HardTimeout,
		closers:     []func(){runtime.Close},
	}

	logger.Debug("app: base=%s pool=%d hard_timeout=%s github_token=%t",
		cfg.BaseURL, cfg.Browser.PoolSize, cfg.Browser.HardTimeout, cfg.GitHub.Token != "")
	return a, nil
}

// Ports returns the MCP server ports.
func (a *App) Ports() *mcp.Ports {
	return &mcp.Ports{
		Wiki:     a.Wiki,
		Chat:     a.Chat,
		Resolver: a.Resolver,
		Indexing: a.Indexing,
		Quota:    a.Quota,
		Stats:    a.Stats,
	}
}

// Close releases the browser. Safe to call repeatedly and concurrently.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		for _, c := range a.closers {
			c()
		}
	})
}
