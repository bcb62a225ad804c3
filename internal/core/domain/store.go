package domain

import (
	"fmt"
	"strings"
	"time"
)

// StoreCollection is the resource collection stores live under. Store names
// are "<collection>/<store_id>"; parsing depends on the exact format, so it
// is never rewritten.
const StoreCollection = "fileSearchStores"

// MaxDisplayNameLength is the backend's limit on display names.
const MaxDisplayNameLength = 512

// Store is a named collection of documents held by the file-search backend.
// The backend is authoritative for every field; Corpus keeps no local copy.
type Store struct {
	// Name is the backend-issued resource name, "fileSearchStores/<id>".
	Name string

	// DisplayName is the human-readable name, at most 512 characters.
	DisplayName string

	// ActiveDocumentsCount is the number of documents indexed and searchable.
	ActiveDocumentsCount int64

	// PendingDocumentsCount is the number of documents still processing.
	PendingDocumentsCount int64

	// FailedDocumentsCount is the number of documents that failed indexing.
	FailedDocumentsCount int64

	// TotalDocumentsCount is the backend's reported document total.
	TotalDocumentsCount int64

	// SizeBytes is the total stored byte size across documents.
	SizeBytes int64

	// CreateTime is when the store was created.
	CreateTime time.Time

	// UpdateTime is when the store was last mutated.
	UpdateTime time.Time
}

// StoreStatistics is a live tally computed by traversing every document in a
// store. It is a consistency check against the store's own counters, not an
// enforced guarantee; the backend stays authoritative.
type StoreStatistics struct {
	// StoreName is the store that was traversed.
	StoreName string

	// DocumentCount is the number of documents seen.
	DocumentCount int

	// TotalSizeBytes sums document sizes, treating missing sizes as zero.
	TotalSizeBytes int64

	// StatesBreakdown tallies documents per state. Documents reporting no
	// state are bucketed under DocumentStateUnknown.
	StatesBreakdown map[DocumentState]int
}

// ValidateDisplayName checks the backend's display name constraint.
func ValidateDisplayName(name string) error {
	if len(name) > MaxDisplayNameLength {
		return fmt.Errorf("%w: display name exceeds %d characters", ErrInvalidInput, MaxDisplayNameLength)
	}
	return nil
}

// ValidateStoreName checks that a store resource name is well formed.
func ValidateStoreName(name string) error {
	rest, ok := strings.CutPrefix(name, StoreCollection+"/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return fmt.Errorf("%w: malformed store name %q", ErrInvalidInput, name)
	}
	return nil
}
