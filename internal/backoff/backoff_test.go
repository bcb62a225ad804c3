package backoff

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// fastPolicy keeps test waits in the microsecond range.
func fastPolicy(attempts int) Policy {
	return Policy{MaxAttempts: attempts, BaseWait: time.Microsecond, MaxWait: 10 * time.Microsecond}
}

// TestPolicy_Wait tests the capped exponential schedule
func TestPolicy_Wait(t *testing.T) {
	p := Policy{MaxAttempts: 5, BaseWait: 2 * time.Second, MaxWait: 10 * time.Second}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 10 * time.Second},
		{5, 10 * time.Second},
		{0, 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt %d", tt.attempt), func(t *testing.T) {
			assert.Equal(t, tt.expected, p.Wait(tt.attempt))
		})
	}
}

// TestPolicy_Wait_BaseAboveCap tests that the cap also bounds the first wait
func TestPolicy_Wait_BaseAboveCap(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseWait: 30 * time.Second, MaxWait: 10 * time.Second}
	assert.Equal(t, 10*time.Second, p.Wait(1))
}

// TestDefault tests the standard schedule
func TestDefault(t *testing.T) {
	p := Default()
	assert.Equal(t, 3, p.MaxAttempts)
	assert.Equal(t, 2*time.Second, p.BaseWait)
	assert.Equal(t, 10*time.Second, p.MaxWait)
}

// TestDo_SucceedsAfterTransientFailures tests that transient errors are
// retried until success
func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), fastPolicy(3), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", fmt.Errorf("list: %w", domain.ErrBackendUnavailable)
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

// TestDo_NonTransientReturnsImmediately tests that validation, not-found,
// and quota errors are never retried
func TestDo_NonTransientReturnsImmediately(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"validation", domain.ErrInvalidInput},
		{"not found", domain.ErrNotFound},
		{"quota", domain.ErrQuotaExceeded},
		{"unauthorised", domain.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			_, err := Do(context.Background(), fastPolicy(3), func(ctx context.Context) (int, error) {
				calls++
				return 0, fmt.Errorf("call: %w", tt.err)
			})

			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, calls, "non-transient errors must not be retried")

			var be *Error
			assert.False(t, errors.As(err, &be), "first-attempt failures are not wrapped")
		})
	}
}

// TestDo_ExhaustionWrapsLastError tests the attempt-count wrapper
func TestDo_ExhaustionWrapsLastError(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastPolicy(3), func(ctx context.Context) (int, error) {
		calls++
		return 0, fmt.Errorf("call %d: %w", calls, domain.ErrBackendUnavailable)
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)

	var be *Error
	require.True(t, errors.As(err, &be))
	assert.Equal(t, 3, be.Attempts)
	assert.Contains(t, be.Error(), "after 3 attempts")

	// The taxonomy stays visible through the wrapper.
	assert.True(t, domain.IsTransient(err))
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

// TestDo_ContextCancelledDuringWait tests that cancellation interrupts a
// sleeping retry
func TestDo_ContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	p := Policy{MaxAttempts: 3, BaseWait: time.Hour, MaxWait: time.Hour}
	calls := 0
	done := make(chan error, 1)
	go func() {
		_, err := Do(ctx, p, func(ctx context.Context) (int, error) {
			calls++
			return 0, domain.ErrBackendUnavailable
		})
		done <- err
	}()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(5 * time.Second):
		t.Fatal("Do did not return after cancellation")
	}
}

// TestDo_ZeroPolicyRunsOnce tests that a zero policy still runs fn once
func TestDo_ZeroPolicyRunsOnce(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Policy{}, func(ctx context.Context) (int, error) {
		calls++
		return 0, domain.ErrBackendUnavailable
	})

	var be *Error
	require.True(t, errors.As(err, &be))
	assert.Equal(t, 1, be.Attempts)
	assert.Equal(t, 1, calls)
}

// TestRetry tests the no-result wrapper
func TestRetry(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastPolicy(2), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return domain.ErrBackendUnavailable
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
