package browser

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"

	"github.com/cloudmeru/codewiki-mcp/internal/logger"
)

// tab is one page inside its own incognito browser context.
type tab struct {
	id        string
	incognito *rod.Browser
	page      *rod.Page
}

// openTab creates an isolated, disguised page. Callers must close it.
func openTab(b *rod.Browser) (*tab, error) {
	incognito, err := b.Incognito()
	if err != nil {
		return nil, driverError("incognito context", err)
	}
	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = incognito.Close()
		return nil, driverError("new page", err)
	}
	if err := disguise(page); err != nil {
		_ = page.Close()
		_ = incognito.Close()
		return nil, driverError("disguise page", err)
	}
	t := &tab{id: uuid.NewString(), incognito: incognito, page: page}
	logger.Debug("browser: opened tab %s", t.id)
	return t, nil
}

// on returns the page bound to ctx.
func (t *tab) on(ctx context.Context) *rod.Page {
	return t.page.Context(ctx)
}

// navigate loads url and waits for DOMContentLoaded.
func (t *tab) navigate(ctx context.Context, url string, timeout time.Duration) error {
	p := t.on(ctx).Timeout(timeout)
	defer p.CancelTimeout()

	wait := p.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := p.Navigate(url); err != nil {
		return driverError("navigate "+url, err)
	}
	wait()
	return nil
}

// waitFor waits up to timeout for selector to appear. It reports false
// on timeout; the page may still be usable.
func (t *tab) waitFor(ctx context.Context, selector string, timeout time.Duration) bool {
	p := t.on(ctx).Timeout(timeout)
	defer p.CancelTimeout()
	_, err := p.Element(selector)
	return err == nil
}

// settle waits for marker and, when it does not show, sleeps fallback.
func (t *tab) settle(ctx context.Context, marker string, wait, fallback time.Duration) error {
	if t.waitFor(ctx, marker, wait) {
		return nil
	}
	logger.Debug("browser: marker %q not seen within %s, waiting %s", marker, wait, fallback)
	return Sleep(ctx, fallback)
}

// close tears down the page and its context, best effort.
func (t *tab) close() {
	logger.Debug("browser: closing tab %s", t.id)
	if err := t.page.Close(); err != nil {
		logger.Debug("browser: close page: %v", err)
	}
	if err := t.incognito.Close(); err != nil {
		logger.Debug("browser: close context: %v", err)
	}
}
