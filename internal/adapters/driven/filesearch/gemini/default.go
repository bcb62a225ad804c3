package gemini

import "sync"

// The CLI and the MCP server both talk to the backend through one shared
// client so a single rate limiter sees every outbound request. The shared
// client is built exactly once; later callers reuse it even if they pass a
// different configuration.

var (
	defaultMu     sync.Mutex
	defaultClient *Client
)

// Default returns the process-wide client, creating it from cfg on first
// use. Subsequent calls ignore cfg and return the existing client.
func Default(cfg Config) (*Client, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultClient != nil {
		return defaultClient, nil
	}
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	defaultClient = client
	return client, nil
}

// ResetDefault discards the shared client so the next Default call builds a
// fresh one. Tests use it to switch configurations between cases.
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultClient = nil
}
