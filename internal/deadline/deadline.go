// Package deadline runs blocking calls under a per-call time budget.
package deadline

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout reports that a call ran past the budget given to Do.
var ErrTimeout = errors.New("deadline exceeded")

// Do calls fn with a context that expires after d. When the budget set here
// is what stopped fn, the returned error wraps both ErrTimeout and fn's
// error. Cancellation or deadlines inherited from ctx are returned as is.
// A non-positive d applies no budget of its own.
func Do(ctx context.Context, d time.Duration, fn func(context.Context) error) error {
	if d <= 0 {
		return fn(ctx)
	}

	callCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	err := fn(callCtx)
	if err == nil {
		return nil
	}
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w after %s: %w", ErrTimeout, d, err)
	}
	return err
}

// Millis converts a millisecond setting to a duration.
func Millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
