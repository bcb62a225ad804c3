// Package backoff retries transient backend failures with capped exponential
// waits. Only errors the domain classifies as transient are retried;
// validation, not-found, and quota errors propagate on the first attempt.
package backoff

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// Policy describes one retry schedule. The zero value retries nothing; use
// Default for the standard schedule.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// BaseWait is the wait before the second attempt. Each further wait
	// doubles it.
	BaseWait time.Duration

	// MaxWait caps every individual wait.
	MaxWait time.Duration
}

// Default is the standard schedule: three attempts with waits of 2s then 4s,
// each capped at 10s.
func Default() Policy {
	return Policy{
		MaxAttempts: domain.DefaultRetryAttempts,
		BaseWait:    domain.DefaultRetryBaseWait,
		MaxWait:     domain.DefaultRetryMaxWait,
	}
}

// FromSettings builds a policy from validated retry settings.
func FromSettings(s domain.RetrySettings) Policy {
	return Policy{MaxAttempts: s.MaxAttempts, BaseWait: s.BaseWait, MaxWait: s.MaxWait}
}

// Wait returns the wait before attempt n+1, where n counts completed
// attempts starting at 1: min(BaseWait << (n-1), MaxWait).
func (p Policy) Wait(n int) time.Duration {
	if n < 1 {
		n = 1
	}
	wait := p.BaseWait
	for i := 1; i < n; i++ {
		wait *= 2
		if wait >= p.MaxWait {
			return p.MaxWait
		}
	}
	if wait > p.MaxWait {
		return p.MaxWait
	}
	return wait
}

// Error reports that every attempt failed. It unwraps to the last error, so
// errors.Is and errors.As see through it.
type Error struct {
	// Attempts is how many times fn ran.
	Attempts int

	// Err is the error from the final attempt.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the final attempt's error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Do runs fn under the policy. The first non-transient error returns
// immediately; transient errors are retried until the attempts are spent,
// then wrapped in *Error with the attempt count. Waits select on ctx, so
// cancellation interrupts a sleeping retry.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if !domain.IsTransient(err) {
			return zero, err
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(p.Wait(attempt)):
		}
	}
	return zero, &Error{Attempts: attempts, Err: lastErr}
}

// Retry runs fn under the policy for callers with no result value.
func Retry(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	_, err := Do(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
