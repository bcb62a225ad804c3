package driving

import (
	"context"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// StoreService manages file-search stores.
type StoreService interface {
	// Create creates a store with the given display name.
	Create(ctx context.Context, displayName string) (*domain.Store, error)

	// Get retrieves one store by resource name.
	Get(ctx context.Context, name string) (*domain.Store, error)

	// List aggregates every store across all pages.
	List(ctx context.Context) ([]domain.Store, error)

	// ListPage fetches a single page of stores, passing the caller's paging
	// straight through. The returned token is empty on the last page.
	ListPage(ctx context.Context, pageSize int, pageToken string) ([]domain.Store, string, error)

	// Delete removes a store. Without force a store that still contains
	// documents is refused.
	Delete(ctx context.Context, name string, force bool) error

	// Statistics recomputes live document statistics by traversing every
	// document in the store.
	Statistics(ctx context.Context, name string) (*domain.StoreStatistics, error)
}
