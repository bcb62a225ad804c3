package domain

import (
	"fmt"
	"strings"
)

// UploadRequest carries one document's content into a store.
type UploadRequest struct {
	// StoreName is the target store resource name. Required.
	StoreName string

	// Content is the raw file bytes. Required.
	Content []byte

	// DisplayName is the human-readable name, at most 512 characters.
	DisplayName string

	// MIMEType declares the content type. When empty it is guessed from the
	// display name's extension; the backend decides what it accepts.
	MIMEType string

	// Chunking overrides the configured chunking defaults when non-zero.
	Chunking ChunkingConfig

	// Metadata is the ordered custom metadata list, at most
	// MaxMetadataEntries entries.
	Metadata []MetadataEntry
}

// Validate checks the request shape against the configured upload limits
// before any network call.
func (r UploadRequest) Validate(maxBytes int64) error {
	if err := ValidateStoreName(r.StoreName); err != nil {
		return err
	}
	if len(r.Content) == 0 {
		return fmt.Errorf("%w: upload content must not be empty", ErrInvalidInput)
	}
	if maxBytes > 0 && int64(len(r.Content)) > maxBytes {
		return fmt.Errorf("%w: upload of %d bytes exceeds the %d byte limit", ErrInvalidInput, len(r.Content), maxBytes)
	}
	if err := ValidateDisplayName(r.DisplayName); err != nil {
		return err
	}
	return ValidateMetadata(r.Metadata)
}

// ImportRequest ingests a file already registered with the backend's file
// service (a "files/<id>" resource) into a store.
type ImportRequest struct {
	// StoreName is the target store resource name. Required.
	StoreName string

	// FileName is the file service resource name, "files/<id>". Required.
	FileName string

	// DisplayName is the human-readable name, at most 512 characters.
	DisplayName string

	// Chunking overrides the configured chunking defaults when non-zero.
	Chunking ChunkingConfig

	// Metadata is the ordered custom metadata list.
	Metadata []MetadataEntry
}

// Validate checks the request shape before any network call.
func (r ImportRequest) Validate() error {
	if err := ValidateStoreName(r.StoreName); err != nil {
		return err
	}
	if !strings.HasPrefix(r.FileName, "files/") || r.FileName == "files/" {
		return fmt.Errorf("%w: malformed file name %q, want files/<id>", ErrInvalidInput, r.FileName)
	}
	if err := ValidateDisplayName(r.DisplayName); err != nil {
		return err
	}
	return ValidateMetadata(r.Metadata)
}

// IngestResult is what a caller gets back from an accepted upload or import:
// an operation to poll, and the resulting document name when the backend
// already knows it.
type IngestResult struct {
	// OperationName tracks the asynchronous ingestion.
	OperationName string

	// DocumentName is the created document's resource name, when the
	// backend reported it with the operation. May be empty until the
	// operation completes.
	DocumentName string
}

// UpdateMetadataRequest replaces a document's custom metadata. The backend
// has no in-place mutation, so the update runs as a delete + re-upload saga
// and the document name may change.
type UpdateMetadataRequest struct {
	// DocumentName is the existing document's resource name. Required.
	DocumentName string

	// StoreName names the owning store explicitly. When empty it is derived
	// from DocumentName at the "/documents/" separator.
	StoreName string

	// Metadata is the replacement custom metadata. Required.
	Metadata []MetadataEntry

	// Content is the original file bytes to re-upload. Required: without
	// them the document cannot be reconstructed after the delete step.
	Content []byte

	// DisplayName overrides the existing document's display name. Empty
	// inherits it.
	DisplayName string

	// MIMEType overrides the existing document's MIME type. Empty inherits
	// it.
	MIMEType string

	// Chunking overrides the configured chunking defaults when non-zero.
	Chunking ChunkingConfig
}

// Validate checks the saga preconditions before step one executes. The store
// name must be resolvable and the original bytes must be present; either
// failure aborts before any network call.
func (r UpdateMetadataRequest) Validate() error {
	if len(r.Content) == 0 {
		return fmt.Errorf("%w: metadata update requires the original file bytes", ErrInvalidInput)
	}
	if r.StoreName == "" {
		if _, err := DeriveStoreName(r.DocumentName); err != nil {
			return err
		}
	} else if err := ValidateStoreName(r.StoreName); err != nil {
		return err
	}
	if err := ValidateDisplayName(r.DisplayName); err != nil {
		return err
	}
	return ValidateMetadata(r.Metadata)
}

// ResolveStoreName returns the explicit store name when set, otherwise the
// one derived from the document name.
func (r UpdateMetadataRequest) ResolveStoreName() (string, error) {
	if r.StoreName != "" {
		return r.StoreName, nil
	}
	return DeriveStoreName(r.DocumentName)
}

// UpdateResult reports an accepted metadata update.
type UpdateResult struct {
	// OperationName tracks the re-ingest.
	OperationName string

	// NewDocumentName is the re-created document's name when resolvable at
	// accept time. It may differ from the original name.
	NewDocumentName string

	// JournalID identifies the journal entry that buffered the original
	// bytes. Empty when journalling is disabled.
	JournalID string
}
