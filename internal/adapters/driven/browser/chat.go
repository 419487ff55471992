package browser

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/logger"
)

// Chat widget selectors. The site's markup changes without notice, so
// inputs, buttons and response containers are probed from lists.
const (
	ChatOpenSelector   = "chat.is-open"
	ChatToggleSelector = "chat-toggle button"
	EmptyStateSelector = "chat .empty-house-container"
)

// ChatInputSelectors are tried in order; the first visible one is used.
var ChatInputSelectors = []string{
	"textarea[data-test-id='chat-input']",
	"textarea#message-textarea",
	"textarea[placeholder*='Ask about this repository']",
	"new-message-form textarea",
	"chat textarea",
}

// SubmitButtonSelectors locate the send button.
var SubmitButtonSelectors = []string{
	"button[data-test-id='send-message-button']",
	"button[aria-label='Send message']",
	"new-message-form button[type='submit']",
	"chat .send-button",
}

// ResponseSelectors locate the latest answer, most specific first.
var ResponseSelectors = []string{
	"chat .cdk-virtual-scroll-content-wrapper documentation-markdown",
	"chat .cdk-virtual-scroll-content-wrapper",
	"chat thread",
}

// Surface is the slice of a live page the chat state machine needs.
type Surface interface {
	// Visible reports whether an element matching selector is visible,
	// waiting up to wait for it.
	Visible(ctx context.Context, selector string, wait time.Duration) bool

	// Disabled reports whether the first element matching selector is disabled.
	Disabled(ctx context.Context, selector string) (bool, error)

	// Click clicks the first element matching selector.
	Click(ctx context.Context, selector string) error

	// Type clicks into the element, clears it and types text like a person.
	Type(ctx context.Context, selector, text string) error

	// PressEnter sends an Enter key press to the focused element.
	PressEnter(ctx context.Context) error

	// LastText returns the text of the last element matching selector if
	// it becomes visible within wait.
	LastText(ctx context.Context, selector string, wait time.Duration) (string, bool)
}

// Timings are the waits and poll intervals of the chat state machine.
type Timings struct {
	ProbeWait        time.Duration
	ReopenWait       time.Duration
	ToggleSettle     time.Duration
	ButtonProbe      time.Duration
	SubmitEnable     time.Duration
	EnablePoll       time.Duration
	InitialDelay     time.Duration
	ResponseWait     time.Duration
	EmptyPoll        time.Duration
	ElementProbe     time.Duration
	PollInterval     time.Duration
	StableInterval   time.Duration
	StableReads      int
	MinResponseChars int
}

// DefaultTimings returns the production timings.
func DefaultTimings() Timings {
	return Timings{
		ProbeWait:        2 * time.Second,
		ReopenWait:       3 * time.Second,
		ToggleSettle:     time.Second,
		ButtonProbe:      time.Second,
		SubmitEnable:     3 * time.Second,
		EnablePoll:       200 * time.Millisecond,
		InitialDelay:     5 * time.Second,
		ResponseWait:     45 * time.Second,
		EmptyPoll:        time.Second,
		ElementProbe:     500 * time.Millisecond,
		PollInterval:     2 * time.Second,
		StableInterval:   2 * time.Second,
		StableReads:      15,
		MinResponseChars: 50,
	}
}

// Converse drives the chat widget on s from a closed panel to a stable
// answer and returns the cleaned text.
//
// A panel or input that cannot be found is ErrInputNotFound. An answer
// that never shows up is ErrNoContent.
func Converse(ctx context.Context, s Surface, query string, t Timings) (string, error) {
	if !openPanel(ctx, s, t) {
		return "", fmt.Errorf("%w: chat panel not found or could not be opened", domain.ErrInputNotFound)
	}

	input, ok := FirstMatch(ChatInputSelectors, func(sel string) bool {
		return s.Visible(ctx, sel, t.ProbeWait)
	})
	if !ok {
		return "", fmt.Errorf("%w: could not locate chat input, the page structure may have changed",
			domain.ErrInputNotFound)
	}
	logger.Debug("chat: input found: %s", input)

	if err := s.Type(ctx, input, query); err != nil {
		return "", driverError("type query", err)
	}
	waitSubmitEnabled(ctx, s, t)

	if err := submit(ctx, s, t); err != nil {
		return "", err
	}

	if err := Sleep(ctx, t.InitialDelay); err != nil {
		return "", err
	}

	answer := CleanResponse(waitForResponse(ctx, s, t))
	if answer == "" {
		return "", fmt.Errorf("%w: no response received for query %q", domain.ErrNoContent, query)
	}
	return answer, nil
}

func openPanel(ctx context.Context, s Surface, t Timings) bool {
	if s.Visible(ctx, ChatOpenSelector, t.ProbeWait) {
		logger.Debug("chat: panel already open")
		return true
	}
	if !s.Visible(ctx, ChatToggleSelector, t.ProbeWait) {
		return false
	}
	if err := s.Click(ctx, ChatToggleSelector); err != nil {
		logger.Debug("chat: toggle click: %v", err)
		return false
	}
	if Sleep(ctx, t.ToggleSettle) != nil {
		return false
	}
	return s.Visible(ctx, ChatOpenSelector, t.ReopenWait)
}

// waitSubmitEnabled gives the app's own validation time to enable the
// send button. Not reaching that state is not fatal.
func waitSubmitEnabled(ctx context.Context, s Surface, t Timings) {
	btn, ok := FirstMatch(SubmitButtonSelectors, func(sel string) bool {
		return s.Visible(ctx, sel, t.ButtonProbe)
	})
	if !ok {
		return
	}
	err := Until(ctx, t.EnablePoll, t.SubmitEnable, func() bool {
		disabled, err := s.Disabled(ctx, btn)
		return err == nil && !disabled
	})
	if err != nil {
		logger.Debug("chat: send button still disabled: %v", err)
	}
}

// submit presses Enter. A send button that turned disabled means the
// message was accepted; one still enabled is clicked instead.
func submit(ctx context.Context, s Surface, t Timings) error {
	if err := s.PressEnter(ctx); err != nil {
		return driverError("press enter", err)
	}
	btn, ok := FirstMatch(SubmitButtonSelectors, func(sel string) bool {
		return s.Visible(ctx, sel, t.ButtonProbe)
	})
	if !ok {
		logger.Debug("chat: no send button after enter")
		return nil
	}
	if disabled, err := s.Disabled(ctx, btn); err == nil && disabled {
		return nil
	}
	if err := s.Click(ctx, btn); err != nil {
		return driverError("click send", err)
	}
	logger.Debug("chat: clicked send as fallback: %s", btn)
	return nil
}

// waitForResponse runs the three wait phases: the empty placeholder goes
// away, a non-trivial answer appears, then the answer stops growing.
func waitForResponse(ctx context.Context, s Surface, t Timings) string {
	deadline := time.Now().Add(t.ResponseWait)
	waitCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	err := Until(waitCtx, t.EmptyPoll, t.ResponseWait, func() bool {
		return !s.Visible(waitCtx, EmptyStateSelector, t.ElementProbe)
	})
	if err != nil {
		logger.Debug("chat: empty state still shown: %v", err)
	}

	var content string
	for content == "" && time.Now().Before(deadline) {
		if Sleep(waitCtx, t.PollInterval) != nil {
			break
		}
		content = firstResponse(waitCtx, s, t, t.MinResponseChars)
	}
	if content == "" {
		return ""
	}

	current := content
	stable := Stabilize(ctx, t.StableInterval, t.StableReads, content, func() string {
		if text := firstResponse(ctx, s, t, -1); text != "" {
			current = text
		}
		return current
	})
	logger.Debug("chat: response settled at %d chars", len(stable))
	return stable
}

// firstResponse returns the text of the first visible response container
// longer than minChars runes. A negative minChars accepts any text.
func firstResponse(ctx context.Context, s Surface, t Timings, minChars int) string {
	for _, sel := range ResponseSelectors {
		text, ok := s.LastText(ctx, sel, t.ElementProbe)
		if !ok {
			continue
		}
		if utf8.RuneCountInString(text) > minChars {
			return text
		}
	}
	return ""
}

// CleanResponse strips widget chrome from an answer, trims every line and
// drops leading blank lines.
func CleanResponse(raw string) string {
	text := domain.StripArtifacts(raw, domain.UIArtifacts)
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
