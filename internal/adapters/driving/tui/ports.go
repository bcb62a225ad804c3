// Package tui provides an interactive terminal user interface for corpus.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Store manages file-search stores.
	Store driving.StoreService

	// Document manages documents within stores.
	Document driving.DocumentService

	// Search provides grounded search over stores.
	Search driving.SearchService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	store driving.StoreService,
	document driving.DocumentService,
	search driving.SearchService,
) *Ports {
	return &Ports{
		Store:    store,
		Document: document,
		Search:   search,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
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
	return nil
}
