package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
	"github.com/custodia-labs/corpus-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService provides grounded search to external actors.
type SearchService struct {
	backend  driven.FileSearchService
	defaults domain.SearchSettings
	log      zerolog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(backend driven.FileSearchService, defaults domain.SearchSettings) *SearchService {
	return &SearchService{
		backend:  backend,
		defaults: defaults,
		log:      logger.For("search-service"),
	}
}

// Search asks the backend to answer the query grounded on the given stores.
// The configured default model fills in when the query names none. An answer
// with no citations is a valid result: the model may answer without leaning
// on retrieved content.
func (s *SearchService) Search(ctx context.Context, query domain.SearchQuery) (*domain.SearchResult, error) {
	if query.Model == "" {
		query.Model = s.defaults.DefaultModel
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if len(query.StoreNames) > s.defaults.MaxStores {
		return nil, fmt.Errorf("%w: search spans %d stores, configured maximum is %d",
			domain.ErrInvalidInput, len(query.StoreNames), s.defaults.MaxStores)
	}

	result, err := s.backend.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	s.log.Debug().
		Str("model", result.Model).
		Int("stores", len(query.StoreNames)).
		Int("citations", len(result.Citations)).
		Msg("search answered")
	return result, nil
}
