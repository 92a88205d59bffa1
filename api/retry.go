package api

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RetryPolicy bounds how many times a remote call is attempted in total and
// how long to wait between attempts. The backoff is fixed, no jitter.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 3,
	Backoff:     time.Second,
}

// SleepFunc is injected into the retry loop so tests can run with a fake
// clock instead of blocking for real.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RemoteUnavailableError means a remote dependency kept failing at the
// transport level until the retry budget ran out. The orchestrator treats it
// as fatal for the request: no order is created.
type RemoteUnavailableError struct {
	Service  string
	Attempts int
	Err      error
}

func (e *RemoteUnavailableError) Error() string {
	return fmt.Sprintf("%s service unavailable after %d attempts: %v", e.Service, e.Attempts, e.Err)
}

func (e *RemoteUnavailableError) Unwrap() error {
	return e.Err
}

// transientError tags a transport-level failure as retryable. Business
// rejections are never tagged and therefore never retried.
type transientError struct {
	err error
}

func (t transientError) Error() string {
	return t.err.Error()
}

func (t transientError) Unwrap() error {
	return t.err
}

func markTransient(err error) error {
	return transientError{err: err}
}

func isTransient(err error) bool {
	var t transientError
	return errors.As(err, &t)
}

// withRetry runs op up to policy.MaxAttempts times, sleeping policy.Backoff
// between attempts. Only transient errors are retried; anything else is
// returned as-is on the first occurrence. When the budget is exhausted the
// last transient error is returned, still tagged, so callers can convert it
// into a RemoteUnavailableError.
func withRetry[T any](ctx context.Context, policy RetryPolicy, sleep SleepFunc, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if !isTransient(err) {
			return zero, err
		}
		lastErr = err

		if attempt == policy.MaxAttempts {
			break
		}
		if err := sleep(ctx, policy.Backoff); err != nil {
			return zero, err
		}
	}

	return zero, lastErr
}
