package tui

import "errors"

// ErrMissingStoreService is returned when the store service is not provided.
var ErrMissingStoreService = errors.New("tui: store service is required")

// ErrMissingDocumentService is returned when the document service is not provided.
var ErrMissingDocumentService = errors.New("tui: document service is required")

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("tui: search service is required")
