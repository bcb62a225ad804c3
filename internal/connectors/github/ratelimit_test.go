package github

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func rateLimitResponse(limit, remaining int, reset time.Time) *http.Response {
	header := http.Header{}
	header.Set(HeaderRateLimit, strconv.Itoa(limit))
	header.Set(HeaderRateRemaining, strconv.Itoa(remaining))
	header.Set(HeaderRateReset, strconv.FormatInt(reset.Unix(), 10))
	return &http.Response{StatusCode: http.StatusOK, Header: header}
}

func TestRateLimiter_UpdateFromResponse(t *testing.T) {
	t.Run("parses headers", func(t *testing.T) {
		r := NewRateLimiter()
		reset := time.Now().Add(30 * time.Minute).Truncate(time.Second)

		r.UpdateFromResponse(rateLimitResponse(5000, 4321, reset))

		assert.Equal(t, 4321, r.Remaining())
		assert.Equal(t, reset.Unix(), r.ResetTime().Unix())
		assert.Equal(t, DefaultMinBuffer, r.minBuffer)
	})

	t.Run("anonymous quota shrinks the reserve", func(t *testing.T) {
		r := NewRateLimiter()

		r.UpdateFromResponse(rateLimitResponse(60, 55, time.Now().Add(time.Hour)))

		assert.Equal(t, 55, r.Remaining())
		assert.Equal(t, 2, r.minBuffer, "60/50 rounds below the floor")
	})

	t.Run("nil response is ignored", func(t *testing.T) {
		r := NewRateLimiter()
		r.UpdateFromResponse(nil)
		assert.Equal(t, AuthenticatedRateLimit, r.Remaining())
	})

	t.Run("malformed headers are ignored", func(t *testing.T) {
		r := NewRateLimiter()
		header := http.Header{}
		header.Set(HeaderRateRemaining, "soon")
		r.UpdateFromResponse(&http.Response{Header: header})
		assert.Equal(t, AuthenticatedRateLimit, r.Remaining())
	})
}

func TestRateLimiter_Wait(t *testing.T) {
	t.Run("passes with quota available", func(t *testing.T) {
		r := NewRateLimiter()
		r.bucket = rate.NewLimiter(rate.Inf, 1)

		require.NoError(t, r.Wait(context.Background()))
	})

	t.Run("honours context while waiting for reset", func(t *testing.T) {
		r := NewRateLimiter()
		r.bucket = rate.NewLimiter(rate.Inf, 1)
		r.UpdateFromResponse(rateLimitResponse(5000, 3, time.Now().Add(time.Hour)))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := r.Wait(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("ignores reset times already in the past", func(t *testing.T) {
		r := NewRateLimiter()
		r.bucket = rate.NewLimiter(rate.Inf, 1)
		r.UpdateFromResponse(rateLimitResponse(5000, 0, time.Now().Add(-time.Minute)))

		require.NoError(t, r.Wait(context.Background()))
	})
}

func TestClampBuffer(t *testing.T) {
	assert.Equal(t, 2, clampBuffer(0))
	assert.Equal(t, 2, clampBuffer(1))
	assert.Equal(t, 40, clampBuffer(40))
	assert.Equal(t, DefaultMinBuffer, clampBuffer(900))
}
