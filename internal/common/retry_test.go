package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwatch/shelfwatch/internal/service"
)

func fastRetryOpts(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Nanosecond,
		MaxDelay:     time.Microsecond,
		Multiplier:   2.0,
	}
}

func TestWithRetry_SucceedsWithinBudget(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &HTTPError{Status: 503}
		}
		return nil
	}, fastRetryOpts(3))

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_ExhaustsBudget(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return &HTTPError{Status: 503}
	}, fastRetryOpts(2))

	require.ErrorIs(t, err, ErrMaxRetries)
	assert.Equal(t, 2, calls)
}

func TestWithRetry_NonRetryableFailsFast(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return &HTTPError{Status: 400}
	}, fastRetryOpts(3))

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMaxRetries)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, func() error {
		return &HTTPError{Status: 503}
	}, service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Hour})

	require.ErrorIs(t, err, context.Canceled)
}

func TestBackoff_DoublesAndClamps(t *testing.T) {
	tests := []struct {
		name    string
		attempt int
		want    time.Duration
	}{
		{name: "first attempt", attempt: 1, want: time.Second},
		{name: "second attempt", attempt: 2, want: 2 * time.Second},
		{name: "third attempt", attempt: 3, want: 4 * time.Second},
		{name: "sixth attempt", attempt: 6, want: 30 * time.Second},
		{name: "far past the clamp", attempt: 20, want: 30 * time.Second},
		{name: "zero attempt treated as first", attempt: 0, want: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Backoff(tt.attempt, time.Second, 30*time.Second, 2.0)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "gateway unavailable", err: ErrGatewayUnavailable, want: true},
		{name: "timeout", err: ErrRequestTimeout, want: true},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: true},
		{name: "5xx", err: &HTTPError{Status: 502}, want: true},
		{name: "4xx", err: &HTTPError{Status: 404}, want: false},
		{name: "401", err: &HTTPError{Status: 401}, want: false},
		{name: "not implemented", err: &NotImplementedError{Resource: "triggers"}, want: false},
		{name: "wrapped retryable", err: &RetryableError{Err: errors.New("x"), Retryable: true}, want: true},
		{name: "wrapped non-retryable", err: &RetryableError{Err: errors.New("x"), Retryable: false}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestIsNotImplemented(t *testing.T) {
	assert.True(t, IsNotImplemented(&NotImplementedError{Resource: "triggers"}))
	assert.False(t, IsNotImplemented(errors.New("boom")))
	assert.False(t, IsNotImplemented(nil))
}
