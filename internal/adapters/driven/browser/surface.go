package browser

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
)

// pageSurface adapts a rod page to Surface.
type pageSurface struct {
	page *rod.Page
}

var _ Surface = (*pageSurface)(nil)

func newPageSurface(page *rod.Page) *pageSurface {
	return &pageSurface{page: page}
}

// find waits up to wait for the first element matching selector. A zero
// wait checks once.
func (s *pageSurface) find(ctx context.Context, selector string, wait time.Duration) (*rod.Element, bool) {
	p := s.page.Context(ctx)
	if wait <= 0 {
		has, el, err := p.Has(selector)
		if err != nil || !has {
			return nil, false
		}
		return el, true
	}
	el, err := p.Timeout(wait).Element(selector)
	if err != nil {
		return nil, false
	}
	return el, true
}

func (s *pageSurface) Visible(ctx context.Context, selector string, wait time.Duration) bool {
	el, ok := s.find(ctx, selector, wait)
	if !ok {
		return false
	}
	if wait <= 0 {
		visible, err := el.Visible()
		return err == nil && visible
	}
	// el carries the timeout context from find.
	return el.WaitVisible() == nil
}

func (s *pageSurface) Disabled(ctx context.Context, selector string) (bool, error) {
	p := s.page.Context(ctx)
	has, el, err := p.Has(selector)
	if err != nil {
		return false, err
	}
	if !has {
		return false, nil
	}
	return el.Disabled()
}

func (s *pageSurface) Click(ctx context.Context, selector string) error {
	p := s.page.Context(ctx)
	el, err := p.Element(selector)
	if err != nil {
		return err
	}
	return humanClick(p, el)
}

func (s *pageSurface) Type(ctx context.Context, selector, text string) error {
	p := s.page.Context(ctx)
	el, err := p.Element(selector)
	if err != nil {
		return err
	}
	if err := humanClick(p, el); err != nil {
		return err
	}
	time.Sleep(jitter(200*time.Millisecond, 500*time.Millisecond))

	if err := el.SelectAllText(); err == nil {
		if err := p.Keyboard.Type(input.Backspace); err != nil {
			return err
		}
	}
	time.Sleep(jitter(200*time.Millisecond, 400*time.Millisecond))

	if err := humanType(p, text); err != nil {
		return err
	}
	time.Sleep(jitter(300*time.Millisecond, 800*time.Millisecond))
	return nil
}

func (s *pageSurface) PressEnter(ctx context.Context) error {
	if err := s.page.Context(ctx).Keyboard.Type(input.Enter); err != nil {
		return err
	}
	time.Sleep(jitter(300*time.Millisecond, 600*time.Millisecond))
	return nil
}

func (s *pageSurface) LastText(ctx context.Context, selector string, wait time.Duration) (string, bool) {
	if _, ok := s.find(ctx, selector, wait); !ok {
		return "", false
	}
	els, err := s.page.Context(ctx).Elements(selector)
	if err != nil || els.Empty() {
		return "", false
	}
	last := els.Last()
	if visible, err := last.Visible(); err != nil || !visible {
		return "", false
	}
	text, err := last.Text()
	if err != nil {
		return "", false
	}
	return text, true
}
