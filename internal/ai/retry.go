package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
)

// RetryPolicy bounds retries against the inference API. It is an explicit
// value passed into the client so pipelines with different policies can
// coexist in one process.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy returns the production policy
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   5 * time.Second,
	}
}

// Delay returns the pre-call delay for a zero-based attempt index. The delay
// applies before every attempt, the first included: it paces requests to
// stay under the API's rate limits rather than reacting to failures.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return p.BaseDelay * time.Duration(1<<uint(attempt))
}

// QuotaError marks quota exhaustion reported by the inference API. It
// short-circuits the retry loop: the condition will not clear within a run,
// so burning the remaining attempts on it is pointless.
type QuotaError struct {
	Operation string
	Detail    string
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("API quota exceeded during %s: %s", e.Operation, e.Detail)
}

// IsQuotaExceeded reports whether err is a classified quota failure
func IsQuotaExceeded(err error) bool {
	var quotaErr *QuotaError
	return errors.As(err, &quotaErr)
}

// isQuotaSignal classifies a raw API failure. The structured API error code
// is checked first; the message substring is only a fallback for transport
// layers that flatten the error.
func isQuotaSignal(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == "insufficient_quota"
	}
	return strings.Contains(err.Error(), "insufficient_quota")
}

// call runs fn with the client's retry policy: pre-attempt delay, quota
// short-circuit, last error propagated once attempts are exhausted.
func (c *Client) call(ctx context.Context, operation string, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < c.policy.MaxAttempts; attempt++ {
		delay := c.policy.Delay(attempt)
		c.log.LogAttempt(operation, attempt+1, c.policy.MaxAttempts, delay)
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if isQuotaSignal(err) {
			return &QuotaError{Operation: operation, Detail: err.Error()}
		}

		c.log.Warnf("%s attempt %d/%d failed: %v", operation, attempt+1, c.policy.MaxAttempts, err)
		lastErr = err
	}
	return lastErr
}
