package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// wrapError maps go-github errors onto the domain error taxonomy so callers
// can classify with errors.Is. Context cancellation passes through unchanged.
func wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: %s: rate limit exceeded, resets at %s",
			domain.ErrQuotaExceeded, operation, rateErr.Rate.Reset.Time.Format(time.RFC3339))
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: %s: secondary rate limit hit", domain.ErrQuotaExceeded, operation)
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) {
		code := 0
		if ghErr.Response != nil {
			code = ghErr.Response.StatusCode
		}
		switch {
		case code == http.StatusNotFound:
			return fmt.Errorf("%w: %s: %s", domain.ErrNotFound, operation, ghErr.Message)
		case code == http.StatusUnauthorized || code == http.StatusForbidden:
			return fmt.Errorf("%w: %s: %s", domain.ErrUnauthorized, operation, ghErr.Message)
		case code == http.StatusUnprocessableEntity:
			return fmt.Errorf("%w: %s: %s", domain.ErrInvalidInput, operation, ghErr.Message)
		case code >= 500:
			return fmt.Errorf("%w: %s: GitHub returned %d: %s",
				domain.ErrBackendUnavailable, operation, code, ghErr.Message)
		default:
			return fmt.Errorf("%s: %w", operation, err)
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %s: %v", domain.ErrBackendUnavailable, operation, err)
	}

	return fmt.Errorf("%s: %w", operation, err)
}
