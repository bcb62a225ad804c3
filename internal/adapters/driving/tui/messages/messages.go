// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch is the question input and grounded answer view.
	ViewSearch
	// ViewStores is the store management view.
	ViewStores
	// ViewDocuments lists documents for a store.
	ViewDocuments
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewStores:
		return "stores"
	case ViewDocuments:
		return "documents"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// StoresLoaded carries the list of stores from the service.
type StoresLoaded struct {
	Stores []domain.Store
	Err    error
}

// StoreSelected signals a store was selected for document browsing.
type StoreSelected struct {
	Store domain.Store
}

// StoreDeleted signals a store deletion completed.
type StoreDeleted struct {
	Name string
	Err  error
}

// DocumentsLoaded carries the list of documents for a store.
type DocumentsLoaded struct {
	StoreName string
	Documents []domain.Document
	Err       error
}

// DocumentDeleted signals a document deletion completed.
type DocumentDeleted struct {
	Name string
	Err  error
}

// SearchCompleted carries the grounded answer back to the model.
type SearchCompleted struct {
	Result *domain.SearchResult
	Err    error
}
