package browser

import (
	"context"

	"github.com/go-rod/rod"

	"github.com/cloudmeru/codewiki-mcp/internal/logger"
)

// Content markers signalling the client app has rendered something useful.
const (
	ContentMarker = "h1, h2, h3, article, main, [class*='content']"
	SessionMarker = "body-content-section, documentation-markdown, h1"
)

// Render loads url in a fresh isolated context and returns the settled
// markup. The context is torn down whatever happens.
func (r *Runtime) Render(ctx context.Context, url string) (string, error) {
	return Do(ctx, r.actor, func(ctx context.Context, b *rod.Browser) (string, error) {
		return r.render(ctx, b, url)
	})
}

func (r *Runtime) render(ctx context.Context, b *rod.Browser, url string) (string, error) {
	t, err := openTab(b)
	if err != nil {
		return "", err
	}
	defer t.close()

	logger.Debug("browser: rendering %s", url)
	if err := t.navigate(ctx, url, r.opts.PageLoadTimeout); err != nil {
		return "", err
	}
	if err := t.settle(ctx, ContentMarker, r.opts.ElementWait, r.opts.JSLoadDelay); err != nil {
		return "", err
	}
	if err := Sleep(ctx, r.opts.SettleDelay); err != nil {
		return "", err
	}

	html, err := t.on(ctx).HTML()
	if err != nil {
		return "", driverError("read markup", err)
	}
	logger.Debug("browser: rendered %s (%d bytes)", url, len(html))
	return html, nil
}
