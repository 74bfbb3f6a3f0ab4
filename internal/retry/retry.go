// Package retry implements a fixed-interval, deadline-bounded retry policy.
// The policy is an explicit value wrapping the underlying call, so pacing,
// ceiling, and the retryable-error predicate are visible and testable on
// their own.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy retries an operation at a fixed Interval until it succeeds, the
// Deadline elapses, or the operation fails with an error the Retryable
// predicate rejects. A nil Retryable treats every error as retryable.
type Policy struct {
	Interval  time.Duration
	Deadline  time.Duration
	Retryable func(error) bool
}

// Do runs op under the policy. The last operation error (or the deadline
// expiry) is returned when the policy gives up; a non-retryable error is
// returned immediately.
func (p Policy) Do(ctx context.Context, op func() error) error {
	ctx, cancel := context.WithTimeout(ctx, p.Deadline)
	defer cancel()

	b := backoff.WithContext(backoff.NewConstantBackOff(p.Interval), ctx)

	var last error
	err := backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		last = err
		if p.Retryable != nil && !p.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b)
	if err == nil {
		return nil
	}
	// when the ceiling expires mid-wait, backoff surfaces the context
	// error; keep the last attempt's failure so callers can classify it
	if last != nil && !errors.Is(err, last) {
		return fmt.Errorf("%v: %w", err, last)
	}
	return err
}
