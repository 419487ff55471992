package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driven"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driving"
	"github.com/cloudmeru/codewiki-mcp/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatConfig holds the chat retry policy and output budget.
type ChatConfig struct {
	BaseURL     string
	MaxAttempts int
	RetryDelay  time.Duration
	MaxChars    int
}

// ChatService asks questions through the wiki chat, retrying whole
// attempts and caching successful answers.
type ChatService struct {
	client driven.ChatClient
	cache  driven.Cache[string]
	cfg    ChatConfig
}

// NewChatService creates a new chat service. cache may be nil.
func NewChatService(client driven.ChatClient, cache driven.Cache[string], cfg ChatConfig) *ChatService {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &ChatService{client: client, cache: cache, cfg: cfg}
}

// Ask returns the chat's answer to query. Only retryable failures are
// retried; once every attempt has failed the last error is returned
// wrapped in a *domain.RetryError. The returned Answer carries the attempt
// count even on failure.
func (s *ChatService) Ask(ctx context.Context, repo domain.RepoRef, query string) (domain.Answer, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return domain.Answer{}, fmt.Errorf("%w: query must not be empty", domain.ErrInvalidInput)
	}

	key := chatKey(repo, q)
	if s.cache != nil {
		if body, ok := s.cache.Get(key); ok {
			logger.Debug("Chat cache hit: %s %q", repo.ID(), q)
			return domain.Answer{Text: domain.Text{Body: body, Cached: true}, Attempt: 1, MaxAttempts: 1}, nil
		}
	}

	logger.Section("Chat Query")
	pageURL := repo.WikiURL(s.cfg.BaseURL)
	maxAttempts := s.cfg.MaxAttempts

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		logger.Debug("Attempt %d/%d: %s", attempt, maxAttempts, pageURL)

		answer, err := s.client.Ask(ctx, pageURL, q)
		if err == nil && strings.TrimSpace(answer) == "" {
			err = fmt.Errorf("%w: the chat returned an empty response", domain.ErrNoContent)
		}
		if err == nil {
			body, truncated := domain.Truncate(answer, s.cfg.MaxChars)
			if s.cache != nil {
				s.cache.Set(key, body)
			}
			return domain.Answer{
				Text:        domain.Text{Body: body, Truncated: truncated},
				Attempt:     attempt,
				MaxAttempts: maxAttempts,
			}, nil
		}

		lastErr = err
		out := domain.Answer{Attempt: attempt, MaxAttempts: maxAttempts}
		if !domain.IsRetryable(err) || ctx.Err() != nil {
			return out, err
		}
		logger.Warn("chat: attempt %d/%d for %s failed: %v", attempt, maxAttempts, repo.ID(), err)

		if attempt < maxAttempts {
			if err := sleep(ctx, s.cfg.RetryDelay); err != nil {
				return out, err
			}
		}
	}

	return domain.Answer{Attempt: maxAttempts, MaxAttempts: maxAttempts}, &domain.RetryError{Attempts: maxAttempts, Last: lastErr}
}

// chatKey identifies a question about one repository, ignoring case and
// surrounding whitespace.
func chatKey(repo domain.RepoRef, query string) string {
	return repo.ID() + "\x00" + strings.ToLower(strings.TrimSpace(query))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
