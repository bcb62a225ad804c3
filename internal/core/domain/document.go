package domain

import (
	"fmt"
	"strings"
	"time"
)

// DocumentSeparator joins a store name and a document ID into a full document
// resource name. Store derivation splits on this exact literal.
const DocumentSeparator = "/documents/"

// DocumentState is the backend-driven processing state of a document.
type DocumentState string

// Document states. A document is created PROCESSING on an accepted
// upload/import and moves to ACTIVE or FAILED out of band; the transition is
// only observable by polling or re-listing.
const (
	// DocumentStateProcessing means the backend accepted the content and is
	// still chunking and indexing it.
	DocumentStateProcessing DocumentState = "PROCESSING"

	// DocumentStateActive means the document is indexed and searchable.
	DocumentStateActive DocumentState = "ACTIVE"

	// DocumentStateFailed means indexing failed; the document is not
	// searchable and can only be deleted.
	DocumentStateFailed DocumentState = "FAILED"

	// DocumentStateUnknown covers responses that omit the state or report
	// one this layer does not recognise.
	DocumentStateUnknown DocumentState = "UNKNOWN"
)

// IsValid returns true if the state is one this layer recognises.
func (s DocumentState) IsValid() bool {
	switch s {
	case DocumentStateProcessing, DocumentStateActive, DocumentStateFailed, DocumentStateUnknown:
		return true
	default:
		return false
	}
}

// IsTerminal returns true once the backend will no longer change the state.
func (s DocumentState) IsTerminal() bool {
	return s == DocumentStateActive || s == DocumentStateFailed
}

// String returns the string representation.
func (s DocumentState) String() string {
	return string(s)
}

// Document is an ingested, chunked unit of content inside exactly one Store.
// Its name always begins with the owning store's name.
type Document struct {
	// Name is the backend-issued resource name,
	// "<store_resource>/documents/<document_id>".
	Name string

	// DisplayName is the human-readable name, at most 512 characters.
	DisplayName string

	// State is the processing state. The backend drives transitions.
	State DocumentState

	// SizeBytes is the stored size. Zero when the backend omits it.
	SizeBytes int64

	// MIMEType is the declared or guessed content type.
	MIMEType string

	// CustomMetadata is the ordered caller-attached annotation list,
	// at most MaxMetadataEntries entries.
	CustomMetadata []MetadataEntry

	// CreateTime is when the document was created.
	CreateTime time.Time

	// UpdateTime is when the document was last updated.
	UpdateTime time.Time
}

// StoreName derives the owning store's resource name from the document name.
func (d Document) StoreName() (string, error) {
	return DeriveStoreName(d.Name)
}

// DeriveStoreName splits a document resource name at the literal
// "/documents/" separator and returns the owning store's name. A name
// lacking the separator is a validation failure; callers check this before
// any network call.
func DeriveStoreName(documentName string) (string, error) {
	store, rest, found := strings.Cut(documentName, DocumentSeparator)
	if !found || store == "" || rest == "" {
		return "", fmt.Errorf("%w: document name %q lacks a %q segment", ErrInvalidInput, documentName, DocumentSeparator)
	}
	return store, nil
}

// ValidateDocumentName checks that a document resource name is well formed
// and nested under a well-formed store name.
func ValidateDocumentName(name string) error {
	store, err := DeriveStoreName(name)
	if err != nil {
		return err
	}
	return ValidateStoreName(store)
}

// ChunkingConfig controls how the backend splits a document for indexing.
// It is passed through verbatim; the backend owns the semantics.
type ChunkingConfig struct {
	// MaxTokensPerChunk caps the tokens in one chunk.
	MaxTokensPerChunk int

	// MaxOverlapTokens sets how many tokens adjacent chunks share.
	MaxOverlapTokens int
}

// IsZero returns true when no chunking overrides were requested.
func (c ChunkingConfig) IsZero() bool {
	return c.MaxTokensPerChunk == 0 && c.MaxOverlapTokens == 0
}
