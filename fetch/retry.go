package fetch

import (
	"context"
	"time"

	"github.com/fkarasek/ownmanual"
)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Retry attempts fn with exponential backoff, making len(delays)+1 total
// attempts. Auth failures, schema errors, and missing resources are
// returned immediately; retrying cannot fix them. The logger function,
// if provided, is called for each retry attempt.
func Retry[T any](ctx context.Context, what string, fn func(ctx context.Context) (T, error), logger LogFunc, delays []time.Duration) (T, error) {
	var zero T
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		switch ownmanual.ErrorCode(err) {
		case ownmanual.EUNAUTHORIZED, ownmanual.EINVALID, ownmanual.ENOTFOUND:
			return zero, err
		}

		if attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		if logger != nil {
			logger("  retry %s (attempt %d): %v", what, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return zero, lastErr
}
