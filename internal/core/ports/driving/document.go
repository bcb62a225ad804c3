package driving

import (
	"context"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// DocumentService manages documents within stores.
type DocumentService interface {
	// Upload ingests raw bytes into a store. Validation runs before any
	// network call; the returned operation tracks indexing.
	Upload(ctx context.Context, req domain.UploadRequest) (*domain.IngestResult, error)

	// Import ingests an already-registered file service resource
	// ("files/<id>") into a store.
	Import(ctx context.Context, req domain.ImportRequest) (*domain.IngestResult, error)

	// List aggregates every document in a store across all pages.
	List(ctx context.Context, storeName string) ([]domain.Document, error)

	// ListPage fetches a single page of a store's documents, passing the
	// caller's paging straight through. The returned token is empty on the
	// last page.
	ListPage(ctx context.Context, storeName string, pageSize int, pageToken string) ([]domain.Document, string, error)

	// Get retrieves one document by resource name.
	Get(ctx context.Context, name string) (*domain.Document, error)

	// Delete removes a document. Force is forwarded to the backend.
	Delete(ctx context.Context, name string, force bool) error

	// UpdateMetadata replaces a document's custom metadata by deleting and
	// re-uploading it. Not atomic: when the re-upload fails after the delete
	// succeeded, the returned error is a *domain.PartialUpdateError naming
	// the journal entry that buffered the original bytes.
	UpdateMetadata(ctx context.Context, req domain.UpdateMetadataRequest) (*domain.UpdateResult, error)

	// RecoverUpdate replays the re-upload step of a partially failed
	// metadata update from its journal entry.
	RecoverUpdate(ctx context.Context, journalID string) (*domain.UpdateResult, error)

	// PendingRecoveries lists journalled updates whose re-upload has not
	// completed.
	PendingRecoveries(ctx context.Context) ([]domain.JournalEntry, error)
}
