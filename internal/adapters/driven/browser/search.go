package browser

import (
	"context"
	"time"

	"github.com/go-rod/rod"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/logger"
	"github.com/cloudmeru/codewiki-mcp/internal/normalisers/wiki"
)

// searchResultWait bounds the wait for the first result link.
const searchResultWait = 10 * time.Second

// SearchURL returns the wiki's search page for q.
func (r *Runtime) SearchURL(q string) string {
	return domain.SearchPageURL(r.opts.BaseURL, q)
}

// Source reports that results come from the wiki itself.
func (r *Runtime) Source() domain.SearchSource {
	return domain.SourceWiki
}

// Search renders the wiki's search page for keyword and parses the result
// links. A page that shows no results within the wait yields an empty list.
func (r *Runtime) Search(ctx context.Context, keyword string) ([]domain.SearchResult, error) {
	searchURL := r.SearchURL(keyword)
	return Do(ctx, r.actor, func(ctx context.Context, b *rod.Browser) ([]domain.SearchResult, error) {
		t, err := openTab(b)
		if err != nil {
			return nil, err
		}
		defer t.close()

		if err := t.navigate(ctx, searchURL, r.opts.PageLoadTimeout); err != nil {
			return nil, err
		}
		if err := Sleep(ctx, r.opts.JSLoadDelay); err != nil {
			return nil, err
		}
		if !t.waitFor(ctx, wiki.ResultLinkSelector, searchResultWait) {
			logger.Debug("browser: no search results for %q", keyword)
			return []domain.SearchResult{}, nil
		}

		html, err := t.on(ctx).HTML()
		if err != nil {
			return nil, driverError("read search page", err)
		}
		return wiki.ParseSearchResults(html, r.opts.BaseURL), nil
	})
}
