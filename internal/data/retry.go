package data

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
)

const defaultRetryAttempts = 3

// retryPolicy retries transient store failures with exponential backoff
type retryPolicy struct {
	attempts  int
	baseDelay time.Duration
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{attempts: defaultRetryAttempts, baseDelay: time.Second}
}

// do runs fn until it succeeds, fails permanently, or attempts run out.
// Waits baseDelay, 2*baseDelay, 4*baseDelay... between attempts.
func (p retryPolicy) do(ctx context.Context, op string, fn func() error) error {
	var err error
	delay := p.baseDelay
	for attempt := 1; attempt <= p.attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if !isRetryable(err) || attempt == p.attempts {
			break
		}

		fmt.Printf("[Sheets] %s failed (attempt %d/%d), retrying in %v: %v\n", op, attempt, p.attempts, delay, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}

// isRetryable reports rate limits, server errors and timeouts
func isRetryable(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code >= 500
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}
