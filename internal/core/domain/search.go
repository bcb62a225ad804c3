package domain

import "fmt"

// MaxSearchStores caps how many stores one grounded query may span.
// The bound is enforced before any call leaves this layer.
const MaxSearchStores = 5

// SearchQuery is a grounded-generation request over one or more stores.
type SearchQuery struct {
	// Query is the natural-language question. Required.
	Query string

	// StoreNames lists 1 to MaxSearchStores store resource names to ground
	// against.
	StoreNames []string

	// Model overrides the configured default model when non-empty.
	Model string

	// MetadataFilter is an optional backend filter expression applied to
	// document custom metadata.
	MetadataFilter string

	// MaxOutputTokens caps the generated answer length when positive.
	MaxOutputTokens int

	// Temperature overrides the sampling temperature when non-nil.
	Temperature *float64
}

// Validate checks the query shape before any network call.
func (q SearchQuery) Validate() error {
	if q.Query == "" {
		return fmt.Errorf("%w: search query must not be empty", ErrInvalidInput)
	}
	if len(q.StoreNames) == 0 {
		return fmt.Errorf("%w: search requires at least one store", ErrInvalidInput)
	}
	if len(q.StoreNames) > MaxSearchStores {
		return fmt.Errorf("%w: search spans %d stores, maximum is %d", ErrInvalidInput, len(q.StoreNames), MaxSearchStores)
	}
	for _, name := range q.StoreNames {
		if err := ValidateStoreName(name); err != nil {
			return err
		}
	}
	return nil
}

// Citation links a span of the generated answer back to a source document.
type Citation struct {
	// Source identifies the document the evidence came from.
	Source string

	// Snippet is the retrieved text the answer was grounded on.
	Snippet string

	// Metadata carries any further backend-supplied chunk attributes,
	// normalised to JSON-safe values.
	Metadata map[string]any
}

// SearchResult is a grounded answer with its supporting evidence.
type SearchResult struct {
	// Answer is the generated answer text: the in-order concatenation of
	// the first candidate's text parts. Empty when the model produced none.
	Answer string

	// Citations is the ordered evidence list. Empty means the answer had no
	// grounding chunks; that is a valid zero-match outcome, not a failure.
	Citations []Citation

	// Grounding is the raw grounding metadata, normalised to JSON-safe
	// values for callers that need more than Citations exposes.
	Grounding map[string]any

	// Stores lists the store names that were searched.
	Stores []string

	// Model is the model identifier that produced the answer.
	Model string
}
