// Package mcp provides an MCP (Model Context Protocol) server adapter for
// Corpus. It lets AI assistants manage file-search stores, ingest documents,
// and run grounded searches over them.
package mcp

import (
	"errors"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// Missing-port errors reported by Ports.Validate.
var (
	ErrMissingStoreService     = errors.New("mcp: store service is required")
	ErrMissingDocumentService  = errors.New("mcp: document service is required")
	ErrMissingSearchService    = errors.New("mcp: search service is required")
	ErrMissingOperationService = errors.New("mcp: operation service is required")
)

// ToolError is the structured failure payload carried inside a tool result.
// Failures never cross the tool boundary as protocol faults: the handler
// catches every error kind and reports it here, so the host process keeps
// running and the caller can decide on retry or backoff from Kind.
type ToolError struct {
	// Kind classifies the failure: validation, not_found, quota_exceeded,
	// backend_unavailable, partial_failure, unauthorised, or internal.
	Kind string `json:"kind" jsonschema:"failure classification for retry and backoff decisions"`

	// Message is the human-readable failure description.
	Message string `json:"message" jsonschema:"human-readable failure description"`

	// JournalID is set for partial_failure kinds when the buffered original
	// bytes were journalled; recovery replays from it.
	JournalID string `json:"journal_id,omitempty" jsonschema:"journal entry to recover a partial metadata update from"`
}

// toolError converts any error into the boundary payload. Partial update
// failures carry their journal entry ID so the caller can recover.
func toolError(err error) *ToolError {
	if err == nil {
		return nil
	}
	te := &ToolError{
		Kind:    string(domain.KindOf(err)),
		Message: err.Error(),
	}
	var partial *domain.PartialUpdateError
	if errors.As(err, &partial) {
		te.JournalID = partial.JournalID
	}
	return te
}
