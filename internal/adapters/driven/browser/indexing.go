package browser

import (
	"context"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/logger"
)

// Selectors and waits of the "request a repository" flow.
const (
	requestButtonText   = "(?i)request repository"
	urlInputSelector    = "input[placeholder*='Enter URL'], input[aria-label*='Enter URL']"
	dialogInputSelector = "dialog input, [role='dialog'] input"
	submitButtonText    = `^\s*Submit\s*$`
	confirmHeadingText  = "(?i)repo requested"
	headingSelector     = "h1, h2, h3, h4, [role='heading']"

	requestButtonWait = 10 * time.Second
	urlInputWait      = 5 * time.Second
	dialogInputWait   = 3 * time.Second
	submitButtonWait  = 3 * time.Second
	submitEnablePolls = 10
	submitEnableEvery = 300 * time.Millisecond
	confirmDelay      = 2 * time.Second
	confirmWait       = 5 * time.Second
)

// RequestIndexing asks the wiki to index repo through its own dialog.
// Every step that fails returns the stage reached, not an error; only a
// failure to drive the browser at all is an error.
func (r *Runtime) RequestIndexing(ctx context.Context, repo domain.RepoRef) (domain.IndexRequest, error) {
	req := domain.IndexRequest{Repo: repo, SearchURL: r.SearchURL(repo.SearchQuery())}
	return Do(ctx, r.actor, func(ctx context.Context, b *rod.Browser) (domain.IndexRequest, error) {
		t, err := openTab(b)
		if err != nil {
			return req, err
		}
		defer t.close()

		logger.Info("browser: requesting indexing via %s", req.SearchURL)
		if err := t.navigate(ctx, req.SearchURL, r.opts.PageLoadTimeout); err != nil {
			return req, err
		}
		if err := Sleep(ctx, r.opts.JSLoadDelay); err != nil {
			return req, err
		}

		req.Stage, req.Detail = r.fillRequestForm(ctx, t.on(ctx), repo)
		return req, nil
	})
}

func (r *Runtime) fillRequestForm(ctx context.Context, p *rod.Page, repo domain.RepoRef) (domain.IndexStage, string) {
	btn := visibleElementR(p, "button", requestButtonText, requestButtonWait)
	if btn == nil {
		return domain.IndexButtonMissing, ""
	}
	time.Sleep(jitter(300*time.Millisecond, 800*time.Millisecond))
	if err := humanClick(p, btn); err != nil {
		return domain.IndexButtonMissing, err.Error()
	}
	time.Sleep(jitter(500*time.Millisecond, time.Second))

	field := visibleElement(p, urlInputSelector, urlInputWait)
	if field == nil {
		field = visibleElement(p, dialogInputSelector, dialogInputWait)
	}
	if field == nil {
		return domain.IndexInputMissing, ""
	}
	_ = field.SelectAllText()
	if err := field.Input(repo.URL()); err != nil {
		return domain.IndexInputMissing, err.Error()
	}
	time.Sleep(jitter(300*time.Millisecond, 600*time.Millisecond))

	submit := visibleElementR(p, "button", submitButtonText, submitButtonWait)
	if submit == nil {
		return domain.IndexSubmitFailed, "submit button not found"
	}
	for i := 0; i < submitEnablePolls; i++ {
		if disabled, err := submit.Disabled(); err == nil && !disabled {
			break
		}
		if Sleep(ctx, submitEnableEvery) != nil {
			break
		}
	}
	if err := submit.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return domain.IndexSubmitFailed, err.Error()
	}

	if Sleep(ctx, confirmDelay) != nil {
		return domain.IndexUnconfirmed, ""
	}
	if visibleElementR(p, headingSelector, confirmHeadingText, confirmWait) != nil {
		return domain.IndexConfirmed, ""
	}
	if body, err := p.Element("body"); err == nil {
		if text, err := body.Text(); err == nil {
			lower := strings.ToLower(text)
			if strings.Contains(lower, "repo requested") || strings.Contains(lower, "we'll review") {
				return domain.IndexConfirmed, ""
			}
		}
	}
	return domain.IndexUnconfirmed, ""
}

// visibleElement waits up to wait for selector to be visible. The element
// returned is bound to the page's own context, not the wait.
func visibleElement(p *rod.Page, selector string, wait time.Duration) *rod.Element {
	el, err := p.Timeout(wait).Element(selector)
	if err != nil || el.WaitVisible() != nil {
		return nil
	}
	return el.Context(p.GetContext())
}

// visibleElementR is visibleElement for an element whose text matches pattern.
func visibleElementR(p *rod.Page, selector, pattern string, wait time.Duration) *rod.Element {
	el, err := p.Timeout(wait).ElementR(selector, pattern)
	if err != nil || el.WaitVisible() != nil {
		return nil
	}
	return el.Context(p.GetContext())
}
