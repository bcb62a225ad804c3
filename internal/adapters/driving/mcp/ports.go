package mcp

import (
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Store manages file-search stores.
	Store driving.StoreService

	// Document manages documents within stores.
	Document driving.DocumentService

	// Search provides grounded search over stores.
	Search driving.SearchService

	// Operation tracks long-running backend operations.
	Operation driving.OperationService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Store == nil {
		return ErrMissingStoreService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Operation == nil {
		return ErrMissingOperationService
	}
	return nil
}
