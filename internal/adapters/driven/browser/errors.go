package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
)

// driverError tags an automation failure as ErrDriver. Context errors are
// kept as they are so the actor can report them as timeouts.
func driverError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrDriver, op, err)
}
