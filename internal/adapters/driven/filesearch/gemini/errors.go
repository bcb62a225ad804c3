package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// statusFailedPrecondition is the canonical status the backend reports when
// a store is deleted without force while documents remain. It arrives with
// HTTP 400, so the code alone cannot distinguish it from bad input.
const statusFailedPrecondition = "FAILED_PRECONDITION"

// apiError decodes a non-2xx response into a *googleapi.Error. Responses
// that are not the standard error envelope still produce an error carrying
// the status code and raw body.
func apiError(resp *http.Response, body []byte) error {
	gerr := &googleapi.Error{
		Code:   resp.StatusCode,
		Body:   string(body),
		Header: resp.Header,
	}

	var envelope struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		gerr.Message = envelope.Error.Message
	}
	if gerr.Message == "" {
		gerr.Message = http.StatusText(resp.StatusCode)
	}
	return gerr
}

// wrapError maps a backend API error onto the domain error taxonomy so
// callers can classify with errors.Is. Errors that are not *googleapi.Error
// pass through unchanged.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	switch {
	case gerr.Code == http.StatusBadRequest:
		if statusOf(gerr.Body) == statusFailedPrecondition {
			return fmt.Errorf("%w: %s", domain.ErrStoreNotEmpty, gerr.Message)
		}
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, gerr.Message)
	case gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, gerr.Message)
	case gerr.Code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, gerr.Message)
	case gerr.Code == http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrStoreNotEmpty, gerr.Message)
	case gerr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrQuotaExceeded, gerr.Message)
	case gerr.Code >= 500:
		return fmt.Errorf("%w: backend returned %d: %s", domain.ErrBackendUnavailable, gerr.Code, gerr.Message)
	default:
		return gerr
	}
}

// wrapTransportError classifies a failure that happened before any response
// arrived: dial failures, timeouts, broken connections. Caller cancellation
// passes through untouched so it is never retried as a backend fault.
func wrapTransportError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
}

// statusOf extracts the canonical status string from a Google error body.
func statusOf(body string) string {
	var envelope struct {
		Error struct {
			Status string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return ""
	}
	return envelope.Error.Status
}

// parseRetryAfter reads a Retry-After header as whole seconds. Both the
// delta-seconds and HTTP-date forms are accepted. Returns 0 when the header
// is absent or unparseable, letting the limiter apply its default backoff.
func parseRetryAfter(value string) int {
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return secs
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return int(d.Seconds()) + 1
		}
	}
	return 0
}
