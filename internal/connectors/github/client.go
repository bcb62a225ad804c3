package github

import (
	"context"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Client wraps the go-github client with rate limiting.
type Client struct {
	gh      *gh.Client
	limiter *RateLimiter
}

// NewClient creates a GitHub API client. With a non-empty token, requests
// authenticate as that token's user; with an empty token, requests run
// anonymously against the much lower unauthenticated quota.
func NewClient(token string) *Client {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
	} else {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = DefaultTimeout

	return &Client{
		gh:      gh.NewClient(httpClient),
		limiter: NewRateLimiter(),
	}
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.limiter
}

// updateRateLimit updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimit(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.limiter.UpdateFromResponse(resp.Response)
}
