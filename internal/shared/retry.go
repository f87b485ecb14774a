package shared

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// RetryWithBackoff retries fn with exponential backoff and jitter. Only
// retryable HTTP errors trigger another attempt; anything else is returned
// immediately.
func RetryWithBackoff(ctx context.Context, maxRetries int, initialDelay, maxDelay time.Duration, fn func() error) error {
	if maxRetries <= 0 {
		return fn()
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !IsRetryableHTTPError(lastErr) {
			return lastErr
		}

		if attempt == maxRetries-1 {
			break
		}

		delay := initialDelay * time.Duration(1<<uint(attempt))
		if delay > maxDelay {
			delay = maxDelay
		}
		// Jitter of up to ±25% keeps concurrent clients from retrying in
		// lockstep.
		if delay >= 4 {
			jitter := time.Duration(rand.Int63n(int64(delay/2))) - delay/4
			delay += jitter
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}
