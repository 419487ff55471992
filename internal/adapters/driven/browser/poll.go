package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
)

// Until evaluates cond immediately and then every interval until it holds.
// It returns ErrTimeout once timeout has passed without success, or the
// context error if ctx ends first.
func Until(ctx context.Context, interval, timeout time.Duration, cond func() bool) error {
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return nil
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("%w: condition not met within %s", domain.ErrTimeout, timeout)
		}
		wait := interval
		if left := time.Until(deadline); left < wait {
			wait = left
		}
		if err := Sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Stabilize re-reads a growing value every interval, for at most maxReads
// reads, and stops as soon as two consecutive reads have the same length.
// The last value read is returned even if it never settled.
func Stabilize(ctx context.Context, interval time.Duration, maxReads int, first string, read func() string) string {
	last := first
	for i := 0; i < maxReads; i++ {
		if Sleep(ctx, interval) != nil {
			return last
		}
		next := read()
		if len(next) == len(last) {
			return next
		}
		last = next
	}
	return last
}

// FirstMatch probes candidates in order and returns the first one for
// which probe holds.
func FirstMatch(candidates []string, probe func(candidate string) bool) (string, bool) {
	for _, c := range candidates {
		if probe(c) {
			return c, true
		}
	}
	return "", false
}

// Sleep pauses for d or until ctx ends.
func Sleep(ctx context.Context, d time.Duration) error {
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
