package gemini

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// defaultRateLimitBackoff applies when a 429 arrives without a usable
// Retry-After header.
const defaultRateLimitBackoff = 60 * time.Second

// RateLimiter paces outbound API requests. It combines a token bucket for
// the sustained client-side rate with a backoff window armed by 429
// responses, so the client holds off for as long as the backend asked.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter creates a limiter sustaining rps requests per second with
// the given burst size.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Wait blocks until a request may proceed. It first sits out any backoff
// recorded from a 429 response, then waits for the token bucket.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordRateLimitError arms the backoff window after a 429 response.
// Call it with the parsed Retry-After seconds; zero or negative applies the
// default backoff.
func (r *RateLimiter) RecordRateLimitError(retryAfterSeconds int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	backoff := time.Duration(retryAfterSeconds) * time.Second
	if retryAfterSeconds <= 0 {
		backoff = defaultRateLimitBackoff
	}
	r.retryAt = time.Now().Add(backoff)
}

// Allow reports whether a request may proceed immediately without blocking.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		return false
	}
	return r.limiter.Allow()
}
