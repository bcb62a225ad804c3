package driven

import (
	"context"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// FileSearchService is the remote file-search backend: store and document
// lifecycle, long-running operation polling, and grounded generation. The
// backend owns all state; this layer never caches resources locally.
//
// Listing methods are token-paginated and return the next page token, empty
// when the listing is exhausted. Implementations map backend failures onto
// the domain error taxonomy; callers rely on errors.Is against the domain
// sentinels.
type FileSearchService interface {
	// CreateStore creates a store with the given display name.
	CreateStore(ctx context.Context, displayName string) (*domain.Store, error)

	// GetStore fetches one store by resource name.
	GetStore(ctx context.Context, name string) (*domain.Store, error)

	// ListStores fetches one page of stores.
	ListStores(ctx context.Context, pageSize int, pageToken string) ([]domain.Store, string, error)

	// DeleteStore removes a store. Without force the backend refuses to
	// delete a store that still contains documents (domain.ErrStoreNotEmpty).
	DeleteStore(ctx context.Context, name string, force bool) error

	// Upload ingests raw bytes into a store. The returned operation tracks
	// chunking and indexing, which continue after the call returns.
	Upload(ctx context.Context, req domain.UploadRequest) (*domain.IngestResult, error)

	// Import ingests an already-registered file service resource into a
	// store.
	Import(ctx context.Context, req domain.ImportRequest) (*domain.IngestResult, error)

	// ListDocuments fetches one page of a store's documents.
	ListDocuments(ctx context.Context, storeName string, pageSize int, pageToken string) ([]domain.Document, string, error)

	// GetDocument fetches one document by resource name.
	GetDocument(ctx context.Context, name string) (*domain.Document, error)

	// DeleteDocument removes a document. Force is forwarded verbatim.
	DeleteDocument(ctx context.Context, name string, force bool) error

	// GetOperation polls one long-running operation by resource name.
	GetOperation(ctx context.Context, name string) (*domain.Operation, error)

	// Search runs grounded generation against the query's stores and
	// returns the synthesised answer with its citations.
	Search(ctx context.Context, query domain.SearchQuery) (*domain.SearchResult, error)

	// Ping verifies connectivity and credentials with a minimal call.
	Ping(ctx context.Context) error
}
