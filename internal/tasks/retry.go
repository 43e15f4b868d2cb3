package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/spotex/internal/services"
	"github.com/desertthunder/spotex/internal/shared"
	"github.com/sethvargo/go-retry"
)

const (
	baseBackoff = 500 * time.Millisecond
	maxBackoff  = 30 * time.Second
)

// fetchWithRetry runs fn up to attempts times, retrying only failures
// that wrap shared.ErrUpstreamTransient. Rate-limit responses carrying a
// Retry-After hint are honored before the next attempt; everything else
// backs off exponentially. A call that never succeeds returns an error
// wrapping shared.ErrRetriesExhausted.
func fetchWithRetry[T any](ctx context.Context, attempts int, fn func(context.Context) (T, error)) (T, error) {
	var result T

	if attempts < 1 {
		attempts = 1
	}

	backoff := retry.WithCappedDuration(maxBackoff, retry.NewExponential(baseBackoff))
	backoff = retry.WithMaxRetries(uint64(attempts-1), backoff)

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		value, err := fn(ctx)
		if err == nil {
			result = value
			return nil
		}
		if !errors.Is(err, shared.ErrUpstreamTransient) {
			return err
		}

		var rateLimited *services.RateLimitError
		if errors.As(err, &rateLimited) && rateLimited.RetryAfter > 0 {
			if waitErr := sleepContext(ctx, rateLimited.RetryAfter); waitErr != nil {
				return waitErr
			}
		}

		return retry.RetryableError(err)
	})
	if err != nil && errors.Is(err, shared.ErrUpstreamTransient) {
		return result, fmt.Errorf("%w after %d attempts: %v", shared.ErrRetriesExhausted, attempts, err)
	}

	return result, err
}

// sleepContext waits for d unless the context is canceled first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
