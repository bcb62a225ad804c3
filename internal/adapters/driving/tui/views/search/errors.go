package search

import "errors"

// Error definitions for the search view.
var (
	// ErrNoSearchService indicates that no search service was provided.
	ErrNoSearchService = errors.New("search service is required")

	// ErrNoStores indicates there are no stores to ground a question on.
	ErrNoStores = errors.New("no stores available; create one with 'corpus store create'")
)
