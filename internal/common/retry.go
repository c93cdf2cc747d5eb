package common

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shelfwatch/shelfwatch/internal/service"
)

// WithRetry executes an operation with configurable retry behavior. Each call
// carries its own attempt counter and delay; nothing is shared between
// unrelated operations.
func WithRetry(ctx context.Context, operation func() error, opts service.RetryOptions) error {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = 1 * time.Second
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 30 * time.Second
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = 2.0
	}

	delay := opts.InitialDelay

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		if !IsRetryable(err) {
			return err
		}

		if attempt == opts.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %v", ErrMaxRetries, opts.MaxAttempts, err)
		}

		slog.Warn("Operation failed, retrying",
			"attempt", attempt,
			"max_attempts", opts.MaxAttempts,
			"delay", delay,
			"error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			// Exponential backoff, clamped at MaxDelay
			delay = time.Duration(float64(delay) * opts.Multiplier)
			if delay > opts.MaxDelay {
				delay = opts.MaxDelay
			}
		}
	}

	return ErrMaxRetries
}

// Backoff returns the delay before the given 1-based retry attempt:
// initial * multiplier^(attempt-1), clamped at maxDelay.
func Backoff(attempt int, initial, maxDelay time.Duration, multiplier float64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := float64(initial)
	for i := 1; i < attempt; i++ {
		delay *= multiplier
		if delay >= float64(maxDelay) {
			return maxDelay
		}
	}
	return time.Duration(delay)
}
