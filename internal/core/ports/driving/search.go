package driving

import (
	"context"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// SearchService provides grounded search to external actors.
type SearchService interface {
	// Search asks the backend to answer the query grounded on the given
	// stores (one to five) and returns the answer with its citations. An
	// answer with no citations is a valid result.
	Search(ctx context.Context, query domain.SearchQuery) (*domain.SearchResult, error)
}
