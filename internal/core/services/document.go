package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/custodia-labs/corpus-cli/internal/backoff"
	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
	"github.com/custodia-labs/corpus-cli/internal/logger"
	"github.com/custodia-labs/corpus-cli/internal/pager"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages documents within stores.
type DocumentService struct {
	backend driven.FileSearchService
	journal driven.UpdateJournal
	retry   backoff.Policy
	upload  domain.UploadSettings
	log     zerolog.Logger
}

// NewDocumentService creates a new document service. The journal may be nil;
// metadata updates then run without a recovery buffer.
func NewDocumentService(
	backend driven.FileSearchService,
	journal driven.UpdateJournal,
	retry backoff.Policy,
	upload domain.UploadSettings,
) *DocumentService {
	return &DocumentService{
		backend: backend,
		journal: journal,
		retry:   retry,
		upload:  upload,
		log:     logger.For("document-service"),
	}
}

// Upload ingests raw bytes into a store. The MIME type is guessed from the
// display name when omitted, chunking defaults are applied, and the request
// is validated before any network call. The upload itself is retried on
// transient faults.
func (s *DocumentService) Upload(ctx context.Context, req domain.UploadRequest) (*domain.IngestResult, error) {
	if req.MIMEType == "" {
		req.MIMEType = domain.MIMETypeForExtension(strings.ToLower(filepath.Ext(req.DisplayName)))
	}
	if req.Chunking.IsZero() {
		req.Chunking = domain.ChunkingConfig{
			MaxTokensPerChunk: s.upload.ChunkTokens,
			MaxOverlapTokens:  s.upload.ChunkOverlapTokens,
		}
	}
	if err := req.Validate(s.upload.MaxFileSizeBytes); err != nil {
		return nil, err
	}

	result, err := backoff.Do(ctx, s.retry, func(ctx context.Context) (*domain.IngestResult, error) {
		return s.backend.Upload(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("upload %q: %w", req.DisplayName, err)
	}

	s.log.Info().
		Str("store", req.StoreName).
		Str("display_name", req.DisplayName).
		Int("bytes", len(req.Content)).
		Str("operation", result.OperationName).
		Msg("upload accepted")
	return result, nil
}

// Import ingests an already-registered file service resource into a store.
func (s *DocumentService) Import(ctx context.Context, req domain.ImportRequest) (*domain.IngestResult, error) {
	if req.Chunking.IsZero() {
		req.Chunking = domain.ChunkingConfig{
			MaxTokensPerChunk: s.upload.ChunkTokens,
			MaxOverlapTokens:  s.upload.ChunkOverlapTokens,
		}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result, err := backoff.Do(ctx, s.retry, func(ctx context.Context) (*domain.IngestResult, error) {
		return s.backend.Import(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("import %q: %w", req.FileName, err)
	}

	s.log.Info().
		Str("store", req.StoreName).
		Str("file", req.FileName).
		Str("operation", result.OperationName).
		Msg("import accepted")
	return result, nil
}

// List aggregates every document in a store across all pages.
func (s *DocumentService) List(ctx context.Context, storeName string) ([]domain.Document, error) {
	if err := domain.ValidateStoreName(storeName); err != nil {
		return nil, err
	}

	list := func(ctx context.Context, pageSize int, pageToken string) ([]domain.Document, string, error) {
		return s.backend.ListDocuments(ctx, storeName, pageSize, pageToken)
	}
	docs, err := pager.New(list, 0).Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents in %s: %w", storeName, err)
	}
	return docs, nil
}

// ListPage fetches a single page of a store's documents for callers that
// manage their own paging tokens.
func (s *DocumentService) ListPage(ctx context.Context, storeName string, pageSize int, pageToken string) ([]domain.Document, string, error) {
	if err := domain.ValidateStoreName(storeName); err != nil {
		return nil, "", err
	}
	if pageSize < 0 {
		return nil, "", fmt.Errorf("%w: page size must not be negative", domain.ErrInvalidInput)
	}
	return s.backend.ListDocuments(ctx, storeName, pageSize, pageToken)
}

// Get retrieves one document by resource name.
func (s *DocumentService) Get(ctx context.Context, name string) (*domain.Document, error) {
	if err := domain.ValidateDocumentName(name); err != nil {
		return nil, err
	}
	return s.backend.GetDocument(ctx, name)
}

// Delete removes a document.
func (s *DocumentService) Delete(ctx context.Context, name string, force bool) error {
	if err := domain.ValidateDocumentName(name); err != nil {
		return err
	}
	if err := s.backend.DeleteDocument(ctx, name, force); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	s.log.Info().Str("document", name).Msg("document deleted")
	return nil
}

// UpdateMetadata replaces a document's custom metadata. The backend has no
// in-place mutation, so the update is a delete + re-upload:
//
//  1. validate the request, resolve the store
//  2. fetch the existing document to inherit display name and MIME type
//  3. journal the original bytes and upload parameters
//  4. delete the document (force)
//  5. re-upload the journalled content with the new metadata
//
// The window between 4 and 5 is not atomic. A re-upload failure surfaces as
// *domain.PartialUpdateError carrying the journal entry ID; RecoverUpdate
// replays step 5 from the journal.
func (s *DocumentService) UpdateMetadata(ctx context.Context, req domain.UpdateMetadataRequest) (*domain.UpdateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	storeName, err := req.ResolveStoreName()
	if err != nil {
		return nil, err
	}

	existing, err := s.backend.GetDocument(ctx, req.DocumentName)
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", req.DocumentName, err)
	}
	displayName := req.DisplayName
	if displayName == "" {
		displayName = existing.DisplayName
	}
	mimeType := req.MIMEType
	if mimeType == "" {
		mimeType = existing.MIMEType
	}

	upload := domain.UploadRequest{
		StoreName:   storeName,
		Content:     req.Content,
		DisplayName: displayName,
		MIMEType:    mimeType,
		Chunking:    req.Chunking,
		Metadata:    req.Metadata,
	}

	var journalID string
	if s.journal != nil {
		journalID, err = s.journal.Append(ctx, domain.JournalEntry{
			DocumentName: req.DocumentName,
			StoreName:    storeName,
			DisplayName:  displayName,
			MIMEType:     mimeType,
			Metadata:     req.Metadata,
			Content:      req.Content,
			Status:       domain.JournalStatusPending,
		})
		if err != nil {
			return nil, fmt.Errorf("journal update of %s: %w", req.DocumentName, err)
		}
	}

	if err := s.backend.DeleteDocument(ctx, req.DocumentName, true); err != nil {
		// Nothing was destroyed; the buffered bytes are not needed.
		s.releaseJournalEntry(ctx, journalID)
		return nil, fmt.Errorf("delete document %s: %w", req.DocumentName, err)
	}

	result, err := backoff.Do(ctx, s.retry, func(ctx context.Context) (*domain.IngestResult, error) {
		return s.backend.Upload(ctx, upload)
	})
	if err != nil {
		if s.journal != nil {
			if jerr := s.journal.MarkFailed(ctx, journalID, err.Error()); jerr != nil {
				s.log.Error().Err(jerr).Str("journal_id", journalID).Msg("mark journal entry failed")
			}
		}
		s.log.Error().
			Err(err).
			Str("document", req.DocumentName).
			Str("journal_id", journalID).
			Msg("metadata update partially failed: document deleted, re-upload did not complete")
		return nil, &domain.PartialUpdateError{
			DocumentName: req.DocumentName,
			StoreName:    storeName,
			JournalID:    journalID,
			Err:          err,
		}
	}

	s.releaseJournalEntry(ctx, journalID)
	s.log.Info().
		Str("document", req.DocumentName).
		Str("new_document", result.DocumentName).
		Str("operation", result.OperationName).
		Msg("metadata updated")
	return &domain.UpdateResult{
		OperationName:   result.OperationName,
		NewDocumentName: result.DocumentName,
		JournalID:       journalID,
	}, nil
}

// RecoverUpdate replays the re-upload step of a partially failed metadata
// update from its journal entry.
func (s *DocumentService) RecoverUpdate(ctx context.Context, journalID string) (*domain.UpdateResult, error) {
	if s.journal == nil {
		return nil, fmt.Errorf("%w: journalling is disabled", domain.ErrInvalidInput)
	}
	entry, err := s.journal.Get(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("load journal entry %s: %w", journalID, err)
	}
	if entry.Status == domain.JournalStatusCompleted {
		return nil, fmt.Errorf("%w: journal entry %s already completed", domain.ErrInvalidInput, journalID)
	}

	upload := domain.UploadRequest{
		StoreName:   entry.StoreName,
		Content:     entry.Content,
		DisplayName: entry.DisplayName,
		MIMEType:    entry.MIMEType,
		Metadata:    entry.Metadata,
	}
	result, err := backoff.Do(ctx, s.retry, func(ctx context.Context) (*domain.IngestResult, error) {
		return s.backend.Upload(ctx, upload)
	})
	if err != nil {
		if jerr := s.journal.MarkFailed(ctx, journalID, err.Error()); jerr != nil {
			s.log.Error().Err(jerr).Str("journal_id", journalID).Msg("mark journal entry failed")
		}
		return nil, &domain.PartialUpdateError{
			DocumentName: entry.DocumentName,
			StoreName:    entry.StoreName,
			JournalID:    journalID,
			Err:          err,
		}
	}

	if err := s.journal.MarkCompleted(ctx, journalID); err != nil {
		s.log.Error().Err(err).Str("journal_id", journalID).Msg("mark journal entry completed")
	}
	s.log.Info().
		Str("journal_id", journalID).
		Str("document", entry.DocumentName).
		Str("new_document", result.DocumentName).
		Msg("metadata update recovered")
	return &domain.UpdateResult{
		OperationName:   result.OperationName,
		NewDocumentName: result.DocumentName,
		JournalID:       journalID,
	}, nil
}

// PendingRecoveries lists journalled updates whose re-upload has not
// completed.
func (s *DocumentService) PendingRecoveries(ctx context.Context) ([]domain.JournalEntry, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.ListPending(ctx)
}

// releaseJournalEntry marks an entry completed once its buffered content can
// no longer be needed.
func (s *DocumentService) releaseJournalEntry(ctx context.Context, journalID string) {
	if s.journal == nil || journalID == "" {
		return
	}
	if err := s.journal.MarkCompleted(ctx, journalID); err != nil {
		s.log.Error().Err(err).Str("journal_id", journalID).Msg("release journal entry")
	}
}
