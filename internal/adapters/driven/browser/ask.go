package browser

import (
	"context"
	"errors"

	"github.com/go-rod/rod"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/logger"
)

// Ask runs one chat attempt against pageURL, preferring a warm pooled
// session. If the pool cannot provide one, a throwaway context is used.
func (r *Runtime) Ask(ctx context.Context, pageURL, query string) (string, error) {
	return Do(ctx, r.actor, func(ctx context.Context, b *rod.Browser) (string, error) {
		sess, err := r.pool.Acquire(ctx, pageURL, func(ctx context.Context) (*tab, error) {
			return r.openChatPage(ctx, b, pageURL)
		})
		if err != nil {
			logger.Warn("browser: session pool failed, using a fresh context: %v", err)
			return r.askFresh(ctx, b, pageURL, query)
		}

		answer, err := Converse(ctx, newPageSurface(sess.on(ctx)), query, r.opts.Chat)
		r.pool.Release(pageURL, err != nil && !errors.Is(err, domain.ErrNoContent))
		return answer, err
	})
}

func (r *Runtime) askFresh(ctx context.Context, b *rod.Browser, pageURL, query string) (string, error) {
	t, err := r.openChatPage(ctx, b, pageURL)
	if err != nil {
		return "", err
	}
	defer t.close()
	return Converse(ctx, newPageSurface(t.on(ctx)), query, r.opts.Chat)
}

// openChatPage opens pageURL and waits for the wiki body to render.
func (r *Runtime) openChatPage(ctx context.Context, b *rod.Browser, pageURL string) (*tab, error) {
	t, err := openTab(b)
	if err != nil {
		return nil, err
	}
	if err := t.navigate(ctx, pageURL, r.opts.PageLoadTimeout); err != nil {
		t.close()
		return nil, err
	}
	if !t.waitFor(ctx, SessionMarker, r.opts.ElementWait) {
		logger.Debug("browser: wiki body not seen on %s", pageURL)
	}
	if err := Sleep(ctx, r.opts.JSLoadDelay); err != nil {
		t.close()
		return nil, err
	}
	return t, nil
}
