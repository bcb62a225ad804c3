package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

func testUploadSettings() domain.UploadSettings {
	return domain.UploadSettings{
		MaxFileSizeBytes:   1 << 20,
		ChunkTokens:        200,
		ChunkOverlapTokens: 20,
	}
}

// TestDocumentService_Upload tests validation, MIME guessing, and retry
func TestDocumentService_Upload(t *testing.T) {
	t.Run("guesses MIME type and applies chunking defaults", func(t *testing.T) {
		var got domain.UploadRequest
		backend := &mockBackend{
			uploadFn: func(_ context.Context, req domain.UploadRequest) (*domain.IngestResult, error) {
				got = req
				return &domain.IngestResult{OperationName: "operations/op-1"}, nil
			},
		}
		svc := NewDocumentService(backend, nil, fastRetry(), testUploadSettings())

		result, err := svc.Upload(context.Background(), domain.UploadRequest{
			StoreName:   "fileSearchStores/kb",
			Content:     []byte("# notes"),
			DisplayName: "Notes.MD",
		})
		require.NoError(t, err)

		assert.Equal(t, "operations/op-1", result.OperationName)
		assert.Equal(t, "text/markdown", got.MIMEType)
		assert.Equal(t, 200, got.Chunking.MaxTokensPerChunk)
		assert.Equal(t, 20, got.Chunking.MaxOverlapTokens)
	})

	t.Run("explicit MIME type and chunking survive", func(t *testing.T) {
		var got domain.UploadRequest
		backend := &mockBackend{
			uploadFn: func(_ context.Context, req domain.UploadRequest) (*domain.IngestResult, error) {
				got = req
				return &domain.IngestResult{OperationName: "operations/op-1"}, nil
			},
		}
		svc := NewDocumentService(backend, nil, fastRetry(), testUploadSettings())

		_, err := svc.Upload(context.Background(), domain.UploadRequest{
			StoreName:   "fileSearchStores/kb",
			Content:     []byte("x"),
			DisplayName: "notes.md",
			MIMEType:    "text/plain",
			Chunking:    domain.ChunkingConfig{MaxTokensPerChunk: 64, MaxOverlapTokens: 8},
		})
		require.NoError(t, err)
		assert.Equal(t, "text/plain", got.MIMEType)
		assert.Equal(t, 64, got.Chunking.MaxTokensPerChunk)
	})

	t.Run("oversize upload never reaches the backend", func(t *testing.T) {
		calls := 0
		backend := &mockBackend{
			uploadFn: func(_ context.Context, _ domain.UploadRequest) (*domain.IngestResult, error) {
				calls++
				return nil, nil
			},
		}
		settings := testUploadSettings()
		settings.MaxFileSizeBytes = 4
		svc := NewDocumentService(backend, nil, fastRetry(), settings)

		_, err := svc.Upload(context.Background(), domain.UploadRequest{
			StoreName:   "fileSearchStores/kb",
			Content:     []byte("too big"),
			DisplayName: "big.txt",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Zero(t, calls)
	})

	t.Run("retries transient upload failures", func(t *testing.T) {
		calls := 0
		backend := &mockBackend{
			uploadFn: func(_ context.Context, _ domain.UploadRequest) (*domain.IngestResult, error) {
				calls++
				if calls == 1 {
					return nil, domain.ErrBackendUnavailable
				}
				return &domain.IngestResult{OperationName: "operations/op-1"}, nil
			},
		}
		svc := NewDocumentService(backend, nil, fastRetry(), testUploadSettings())

		_, err := svc.Upload(context.Background(), domain.UploadRequest{
			StoreName:   "fileSearchStores/kb",
			Content:     []byte("x"),
			DisplayName: "a.txt",
		})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})
}

// TestDocumentService_Import tests file-resource validation
func TestDocumentService_Import(t *testing.T) {
	backend := &mockBackend{
		importFn: func(_ context.Context, req domain.ImportRequest) (*domain.IngestResult, error) {
			return &domain.IngestResult{OperationName: "operations/op-9"}, nil
		},
	}
	svc := NewDocumentService(backend, nil, fastRetry(), testUploadSettings())

	result, err := svc.Import(context.Background(), domain.ImportRequest{
		StoreName: "fileSearchStores/kb",
		FileName:  "files/f1",
	})
	require.NoError(t, err)
	assert.Equal(t, "operations/op-9", result.OperationName)

	_, err = svc.Import(context.Background(), domain.ImportRequest{
		StoreName: "fileSearchStores/kb",
		FileName:  "f1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestDocumentService_List tests aggregation across pages
func TestDocumentService_List(t *testing.T) {
	backend := &mockBackend{
		listDocsFn: func(_ context.Context, _ string, _ int, pageToken string) ([]domain.Document, string, error) {
			if pageToken == "" {
				return []domain.Document{{Name: "fileSearchStores/kb/documents/a"}}, "p2", nil
			}
			return []domain.Document{{Name: "fileSearchStores/kb/documents/b"}}, "", nil
		},
	}
	svc := NewDocumentService(backend, nil, fastRetry(), testUploadSettings())

	docs, err := svc.List(context.Background(), "fileSearchStores/kb")
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	_, err = svc.List(context.Background(), "kb")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestDocumentService_UpdateMetadata tests the delete + re-upload saga
func TestDocumentService_UpdateMetadata(t *testing.T) {
	const docName = "fileSearchStores/kb/documents/doc-1"

	baseRequest := func() domain.UpdateMetadataRequest {
		return domain.UpdateMetadataRequest{
			DocumentName: docName,
			Metadata:     []domain.MetadataEntry{domain.StringMetadata("category", "ops")},
			Content:      []byte("original content"),
		}
	}

	existingDoc := &domain.Document{
		Name:        docName,
		DisplayName: "runbook.md",
		MIMEType:    "text/markdown",
		State:       domain.DocumentStateActive,
	}

	t.Run("happy path journals, deletes, re-uploads", func(t *testing.T) {
		var steps []string
		var uploaded domain.UploadRequest
		backend := &mockBackend{
			getDocumentFn: func(_ context.Context, name string) (*domain.Document, error) {
				steps = append(steps, "get")
				return existingDoc, nil
			},
			deleteDocFn: func(_ context.Context, name string, force bool) error {
				steps = append(steps, "delete")
				assert.True(t, force, "saga delete must be forced")
				return nil
			},
			uploadFn: func(_ context.Context, req domain.UploadRequest) (*domain.IngestResult, error) {
				steps = append(steps, "upload")
				uploaded = req
				return &domain.IngestResult{
					OperationName: "operations/op-2",
					DocumentName:  "fileSearchStores/kb/documents/doc-2",
				}, nil
			},
		}
		journal := newMockJournal()
		svc := NewDocumentService(backend, journal, fastRetry(), testUploadSettings())

		result, err := svc.UpdateMetadata(context.Background(), baseRequest())
		require.NoError(t, err)

		assert.Equal(t, []string{"get", "delete", "upload"}, steps)
		assert.Equal(t, "operations/op-2", result.OperationName)
		assert.Equal(t, "fileSearchStores/kb/documents/doc-2", result.NewDocumentName)
		assert.Equal(t, "journal-1", result.JournalID)

		// Inherited from the existing document.
		assert.Equal(t, "runbook.md", uploaded.DisplayName)
		assert.Equal(t, "text/markdown", uploaded.MIMEType)
		assert.Equal(t, "fileSearchStores/kb", uploaded.StoreName)

		// The buffered bytes are released once the re-upload is accepted.
		assert.Equal(t, domain.JournalStatusCompleted, journal.status("journal-1"))
	})

	t.Run("missing content fails before any network call", func(t *testing.T) {
		backend := &mockBackend{}
		svc := NewDocumentService(backend, newMockJournal(), fastRetry(), testUploadSettings())

		req := baseRequest()
		req.Content = nil
		_, err := svc.UpdateMetadata(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("underivable store fails before any network call", func(t *testing.T) {
		backend := &mockBackend{}
		svc := NewDocumentService(backend, newMockJournal(), fastRetry(), testUploadSettings())

		req := baseRequest()
		req.DocumentName = "fileSearchStores/kb/doc-1"
		_, err := svc.UpdateMetadata(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing document aborts before the delete step", func(t *testing.T) {
		deleted := false
		backend := &mockBackend{
			getDocumentFn: func(_ context.Context, _ string) (*domain.Document, error) {
				return nil, domain.ErrNotFound
			},
			deleteDocFn: func(_ context.Context, _ string, _ bool) error {
				deleted = true
				return nil
			},
		}
		svc := NewDocumentService(backend, newMockJournal(), fastRetry(), testUploadSettings())

		_, err := svc.UpdateMetadata(context.Background(), baseRequest())
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.False(t, deleted)
	})

	t.Run("delete failure leaves the document intact", func(t *testing.T) {
		backend := &mockBackend{
			getDocumentFn: func(_ context.Context, _ string) (*domain.Document, error) {
				return existingDoc, nil
			},
			deleteDocFn: func(_ context.Context, _ string, _ bool) error {
				return domain.ErrBackendUnavailable
			},
		}
		journal := newMockJournal()
		svc := NewDocumentService(backend, journal, fastRetry(), testUploadSettings())

		_, err := svc.UpdateMetadata(context.Background(), baseRequest())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
		assert.False(t, domain.IsPartialUpdate(err), "nothing was destroyed, not a partial failure")

		// The buffered entry is released; nothing needs replay.
		assert.Equal(t, domain.JournalStatusCompleted, journal.status("journal-1"))
	})

	t.Run("re-upload failure is a partial failure carrying the journal ID", func(t *testing.T) {
		backend := &mockBackend{
			getDocumentFn: func(_ context.Context, _ string) (*domain.Document, error) {
				return existingDoc, nil
			},
			deleteDocFn: func(_ context.Context, _ string, _ bool) error {
				return nil
			},
			uploadFn: func(_ context.Context, _ domain.UploadRequest) (*domain.IngestResult, error) {
				return nil, domain.ErrBackendUnavailable
			},
		}
		journal := newMockJournal()
		svc := NewDocumentService(backend, journal, fastRetry(), testUploadSettings())

		_, err := svc.UpdateMetadata(context.Background(), baseRequest())
		require.Error(t, err)

		var partial *domain.PartialUpdateError
		require.True(t, errors.As(err, &partial), "want *domain.PartialUpdateError, got %T", err)
		assert.Equal(t, docName, partial.DocumentName)
		assert.Equal(t, "fileSearchStores/kb", partial.StoreName)
		assert.Equal(t, "journal-1", partial.JournalID)
		assert.True(t, domain.IsPartialUpdate(err))

		assert.Equal(t, domain.JournalStatusFailed, journal.status("journal-1"))
	})

	t.Run("runs without a journal", func(t *testing.T) {
		backend := &mockBackend{
			getDocumentFn: func(_ context.Context, _ string) (*domain.Document, error) {
				return existingDoc, nil
			},
			deleteDocFn: func(_ context.Context, _ string, _ bool) error { return nil },
			uploadFn: func(_ context.Context, _ domain.UploadRequest) (*domain.IngestResult, error) {
				return nil, domain.ErrBackendUnavailable
			},
		}
		svc := NewDocumentService(backend, nil, fastRetry(), testUploadSettings())

		_, err := svc.UpdateMetadata(context.Background(), baseRequest())

		var partial *domain.PartialUpdateError
		require.True(t, errors.As(err, &partial))
		assert.Empty(t, partial.JournalID)
	})
}

// TestDocumentService_RecoverUpdate tests saga replay from the journal
func TestDocumentService_RecoverUpdate(t *testing.T) {
	seedFailedEntry := func(t *testing.T, journal *mockJournal) string {
		t.Helper()
		id, err := journal.Append(context.Background(), domain.JournalEntry{
			DocumentName: "fileSearchStores/kb/documents/doc-1",
			StoreName:    "fileSearchStores/kb",
			DisplayName:  "runbook.md",
			MIMEType:     "text/markdown",
			Metadata:     []domain.MetadataEntry{domain.StringMetadata("category", "ops")},
			Content:      []byte("original content"),
			Status:       domain.JournalStatusPending,
		})
		require.NoError(t, err)
		require.NoError(t, journal.MarkFailed(context.Background(), id, "backend unavailable"))
		return id
	}

	t.Run("replays the re-upload", func(t *testing.T) {
		var uploaded domain.UploadRequest
		backend := &mockBackend{
			uploadFn: func(_ context.Context, req domain.UploadRequest) (*domain.IngestResult, error) {
				uploaded = req
				return &domain.IngestResult{
					OperationName: "operations/op-7",
					DocumentName:  "fileSearchStores/kb/documents/doc-3",
				}, nil
			},
		}
		journal := newMockJournal()
		id := seedFailedEntry(t, journal)
		svc := NewDocumentService(backend, journal, fastRetry(), testUploadSettings())

		result, err := svc.RecoverUpdate(context.Background(), id)
		require.NoError(t, err)

		assert.Equal(t, "operations/op-7", result.OperationName)
		assert.Equal(t, "fileSearchStores/kb/documents/doc-3", result.NewDocumentName)
		assert.Equal(t, []byte("original content"), uploaded.Content)
		assert.Equal(t, "runbook.md", uploaded.DisplayName)
		assert.Equal(t, domain.JournalStatusCompleted, journal.status(id))
	})

	t.Run("completed entries cannot be replayed", func(t *testing.T) {
		journal := newMockJournal()
		id := seedFailedEntry(t, journal)
		require.NoError(t, journal.MarkCompleted(context.Background(), id))
		svc := NewDocumentService(&mockBackend{}, journal, fastRetry(), testUploadSettings())

		_, err := svc.RecoverUpdate(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("replay failure keeps the entry failed", func(t *testing.T) {
		backend := &mockBackend{
			uploadFn: func(_ context.Context, _ domain.UploadRequest) (*domain.IngestResult, error) {
				return nil, domain.ErrBackendUnavailable
			},
		}
		journal := newMockJournal()
		id := seedFailedEntry(t, journal)
		svc := NewDocumentService(backend, journal, fastRetry(), testUploadSettings())

		_, err := svc.RecoverUpdate(context.Background(), id)
		assert.True(t, domain.IsPartialUpdate(err))
		assert.Equal(t, domain.JournalStatusFailed, journal.status(id))
	})

	t.Run("disabled journal is a validation error", func(t *testing.T) {
		svc := NewDocumentService(&mockBackend{}, nil, fastRetry(), testUploadSettings())
		_, err := svc.RecoverUpdate(context.Background(), "journal-1")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown entry is not found", func(t *testing.T) {
		svc := NewDocumentService(&mockBackend{}, newMockJournal(), fastRetry(), testUploadSettings())
		_, err := svc.RecoverUpdate(context.Background(), "journal-404")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

// TestDocumentService_PendingRecoveries tests the pending listing
func TestDocumentService_PendingRecoveries(t *testing.T) {
	journal := newMockJournal()
	id1, err := journal.Append(context.Background(), domain.JournalEntry{
		DocumentName: "fileSearchStores/kb/documents/a",
		Status:       domain.JournalStatusPending,
	})
	require.NoError(t, err)
	id2, err := journal.Append(context.Background(), domain.JournalEntry{
		DocumentName: "fileSearchStores/kb/documents/b",
		Status:       domain.JournalStatusPending,
	})
	require.NoError(t, err)
	require.NoError(t, journal.MarkCompleted(context.Background(), id2))

	svc := NewDocumentService(&mockBackend{}, journal, fastRetry(), testUploadSettings())

	pending, err := svc.PendingRecoveries(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, id1, pending[0].ID)

	t.Run("nil journal lists nothing", func(t *testing.T) {
		svc := NewDocumentService(&mockBackend{}, nil, fastRetry(), testUploadSettings())
		pending, err := svc.PendingRecoveries(context.Background())
		require.NoError(t, err)
		assert.Empty(t, pending)
	})
}
