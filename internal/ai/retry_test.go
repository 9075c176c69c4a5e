package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliakriv0137/video-analysis-system/internal/logging"
)

func newTestClient(policy RetryPolicy) *Client {
	return &Client{
		policy: policy,
		log:    logging.NewNop(),
	}
}

func TestDelay(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}

	tests := []struct {
		name     string
		attempt  int
		expected time.Duration
	}{
		{name: "first attempt", attempt: 0, expected: time.Second},
		{name: "second attempt doubles", attempt: 1, expected: 2 * time.Second},
		{name: "third attempt doubles again", attempt: 2, expected: 4 * time.Second},
		{name: "negative attempt clamps", attempt: -1, expected: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, policy.Delay(tt.attempt))
		})
	}
}

func TestCallSucceedsFirstAttempt(t *testing.T) {
	c := newTestClient(RetryPolicy{MaxAttempts: 3, BaseDelay: 0})

	calls := 0
	err := c.call(context.Background(), "test", func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestCallRetriesTransientFailure(t *testing.T) {
	c := newTestClient(RetryPolicy{MaxAttempts: 3, BaseDelay: 0})

	calls := 0
	err := c.call(context.Background(), "test", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection reset")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestCallExhaustsAttempts(t *testing.T) {
	c := newTestClient(RetryPolicy{MaxAttempts: 3, BaseDelay: 0})

	calls := 0
	lastErr := errors.New("still broken")
	err := c.call(context.Background(), "test", func(ctx context.Context) error {
		calls++
		return lastErr
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, lastErr, err)
	assert.False(t, IsQuotaExceeded(err))
}

func TestCallQuotaShortCircuits(t *testing.T) {
	c := newTestClient(RetryPolicy{MaxAttempts: 5, BaseDelay: 0})

	calls := 0
	err := c.call(context.Background(), "vision analysis", func(ctx context.Context) error {
		calls++
		return errors.New("429: insufficient_quota")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls, "quota exhaustion must not burn the remaining attempts")
	assert.True(t, IsQuotaExceeded(err))

	var quotaErr *QuotaError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, "vision analysis", quotaErr.Operation)
}

func TestCallContextCancelled(t *testing.T) {
	c := newTestClient(RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.call(ctx, "test", func(ctx context.Context) error {
		t.Fatal("fn must not run after cancellation")
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsQuotaSignal(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "structured quota code",
			err:      &openai.Error{Code: "insufficient_quota"},
			expected: true,
		},
		{
			name:     "structured non-quota code",
			err:      &openai.Error{Code: "rate_limit_exceeded"},
			expected: false,
		},
		{
			name:     "flattened message fallback",
			err:      errors.New("request failed: insufficient_quota"),
			expected: true,
		},
		{
			name:     "unrelated error",
			err:      errors.New("connection refused"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isQuotaSignal(tt.err))
		})
	}
}
