// Package gemini implements the file-search backend against the Gemini File
// Search REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/custodia-labs/corpus-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.FileSearchService = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL           = "https://generativelanguage.googleapis.com"
	DefaultRequestTimeout    = 30 * time.Second
	DefaultUploadTimeout     = 300 * time.Second
	DefaultRequestsPerSecond = 5.0
	DefaultBurst             = 10
)

// apiVersion selects the REST surface. File search lives under v1beta.
const apiVersion = "v1beta"

// Config holds configuration for the Gemini file-search client.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL is the API base URL (default:
	// https://generativelanguage.googleapis.com). Can be changed for
	// proxies or test servers.
	BaseURL string

	// RequestTimeout bounds metadata, listing, and generation calls
	// (default: 30s).
	RequestTimeout time.Duration

	// UploadTimeout bounds content uploads (default: 300s).
	UploadTimeout time.Duration

	// RequestsPerSecond is the sustained client-side rate limit
	// (default: 5).
	RequestsPerSecond float64

	// Burst is the rate limiter burst size (default: 10).
	Burst int
}

// ConfigFromSettings maps the application's backend settings onto a Config.
func ConfigFromSettings(s domain.BackendSettings) Config {
	return Config{
		APIKey:            s.APIKey,
		BaseURL:           s.BaseURL,
		RequestTimeout:    s.RequestTimeout,
		UploadTimeout:     s.UploadTimeout,
		RequestsPerSecond: s.RequestsPerSecond,
		Burst:             s.Burst,
	}
}

// Client talks to the Gemini File Search API. Resource names returned by the
// backend are passed back verbatim on later calls; the client never rewrites
// them.
type Client struct {
	http    *http.Client
	upload  *http.Client
	baseURL string
	apiKey  string
	limiter *RateLimiter
	log     zerolog.Logger
}

// NewClient creates a new Gemini file-search client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key is required", domain.ErrUnauthorized)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.UploadTimeout == 0 {
		cfg.UploadTimeout = DefaultUploadTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Burst == 0 {
		cfg.Burst = DefaultBurst
	}

	return &Client{
		http: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		upload: &http.Client{
			Timeout: cfg.UploadTimeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		limiter: NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
		log:     logger.For("gemini"),
	}, nil
}

// endpoint builds a versioned API URL for a resource name or collection path,
// with optional query parameters.
func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + "/" + apiVersion + "/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// doJSON sends a JSON request and decodes a JSON response. A nil body sends
// no payload; a nil out discards the response body. Non-2xx responses are
// mapped onto the domain error taxonomy.
func (c *Client) doJSON(ctx context.Context, client *http.Client, method, rawURL string, body, out any) error {
	var payload io.Reader = http.NoBody
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		payload = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, client, out)
}

// send executes a prepared request against the API: rate limit, auth header,
// status mapping, response decode.
func (c *Client) send(req *http.Request, client *http.Client, out any) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return err
	}
	req.Header.Set("x-goog-api-key", c.apiKey)

	c.log.Debug().Str("method", req.Method).Str("path", req.URL.Path).Msg("backend request")

	resp, err := client.Do(req)
	if err != nil {
		return wrapTransportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return wrapTransportError(fmt.Errorf("read response: %w", err))
	}

	if err := c.checkStatus(resp, respBody); err != nil {
		c.log.Debug().Int("status", resp.StatusCode).Str("path", req.URL.Path).Msg("backend error")
		return err
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// checkStatus maps a non-2xx response onto the domain error taxonomy. A 429
// additionally arms the limiter's backoff so subsequent calls hold off.
func (c *Client) checkStatus(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		c.limiter.RecordRateLimitError(retryAfter)
		c.log.Warn().Int("retry_after_seconds", retryAfter).Msg("backend rate limit hit")
	}
	return wrapError(apiError(resp, body))
}

// Ping validates the backend is reachable and the API key accepted, using a
// single-item store listing as a lightweight probe.
func (c *Client) Ping(ctx context.Context) error {
	query := url.Values{"pageSize": {"1"}}
	return c.doJSON(ctx, c.http, http.MethodGet, c.endpoint(domain.StoreCollection, query), nil, nil)
}
