package browser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driven"
	"github.com/cloudmeru/codewiki-mcp/internal/logger"
)

// Runtime owns one headless Chromium and runs every browser operation on
// a single actor goroutine.
type Runtime struct {
	opts  Options
	actor *Actor[*rod.Browser]
	pool  *Pool[*tab]

	// launcher is only touched from the actor goroutine.
	launcher *launcher.Launcher
}

// Compile-time interface checks.
var (
	_ driven.PageRenderer   = (*Runtime)(nil)
	_ driven.ChatClient     = (*Runtime)(nil)
	_ driven.IndexRequester = (*Runtime)(nil)
	_ driven.RepoSearcher   = (*Runtime)(nil)
	_ driven.SessionPool    = (*Runtime)(nil)
)

// NewRuntime creates a runtime. Nothing is launched until the first
// operation is submitted.
func NewRuntime(opts Options) *Runtime {
	r := &Runtime{opts: opts}
	r.pool = NewPool(opts.PoolSize, func(t *tab) error {
		t.close()
		return nil
	})
	r.actor = NewActor(ResourceHooks[*rod.Browser]{
		Open:    r.launch,
		Alive:   connected,
		Release: r.shutdown,
	}, opts.HardTimeout)
	return r
}

// Submit runs op on the browser goroutine with the live browser handle.
// It is the only way to reach the browser.
func (r *Runtime) Submit(ctx context.Context, op Op[*rod.Browser]) (any, error) {
	return r.actor.Submit(ctx, op)
}

// Close shuts the browser down. Safe to call repeatedly.
func (r *Runtime) Close() {
	r.actor.Close()
}

// PoolStats reports the warm chat sessions held.
func (r *Runtime) PoolStats() domain.PoolStats {
	return r.pool.Stats()
}

// launch starts Chromium and connects to it. The launcher is not bound to
// ctx so the process outlives the operation that started it.
func (r *Runtime) launch(_ context.Context) (*rod.Browser, error) {
	l := launcher.New().
		Headless(r.opts.Headless).
		NoSandbox(true).
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("disable-extensions")
	if r.opts.Bin != "" {
		l = l.Bin(r.opts.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect to chromium: %w", err)
	}

	r.launcher = l
	logger.Info("browser: chromium started")
	return b, nil
}

// connected checks the browser still answers.
func connected(b *rod.Browser) bool {
	_, err := b.Version()
	return err == nil
}

// shutdown drops pooled sessions, closes the browser and reaps the process.
func (r *Runtime) shutdown(b *rod.Browser) error {
	r.pool.Close()
	err := b.Close()
	if r.launcher != nil {
		r.launcher.Kill()
		r.launcher.Cleanup()
		r.launcher = nil
	}
	logger.Debug("browser: chromium stopped")
	return err
}
