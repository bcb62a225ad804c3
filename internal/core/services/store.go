package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/custodia-labs/corpus-cli/internal/backoff"
	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
	"github.com/custodia-labs/corpus-cli/internal/logger"
	"github.com/custodia-labs/corpus-cli/internal/pager"
)

// Ensure StoreService implements the interface.
var _ driving.StoreService = (*StoreService)(nil)

// statisticsPageSize is the page size for full-store traversals.
const statisticsPageSize = 100

// StoreService manages file-search stores.
type StoreService struct {
	backend driven.FileSearchService
	retry   backoff.Policy
	log     zerolog.Logger
}

// NewStoreService creates a new store service.
func NewStoreService(backend driven.FileSearchService, retry backoff.Policy) *StoreService {
	return &StoreService{
		backend: backend,
		retry:   retry,
		log:     logger.For("store-service"),
	}
}

// Create creates a store with the given display name. Creation is retried on
// transient backend faults.
func (s *StoreService) Create(ctx context.Context, displayName string) (*domain.Store, error) {
	if err := domain.ValidateDisplayName(displayName); err != nil {
		return nil, err
	}

	store, err := backoff.Do(ctx, s.retry, func(ctx context.Context) (*domain.Store, error) {
		return s.backend.CreateStore(ctx, displayName)
	})
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}

	s.log.Info().Str("store", store.Name).Str("display_name", displayName).Msg("store created")
	return store, nil
}

// Get retrieves one store by resource name.
func (s *StoreService) Get(ctx context.Context, name string) (*domain.Store, error) {
	if err := domain.ValidateStoreName(name); err != nil {
		return nil, err
	}
	return s.backend.GetStore(ctx, name)
}

// List aggregates every store across all pages. Aggregation is this layer's
// explicit choice; the traversal underneath stays lazy.
func (s *StoreService) List(ctx context.Context) ([]domain.Store, error) {
	p := pager.New(s.backend.ListStores, 0)
	stores, err := p.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	return stores, nil
}

// ListPage fetches a single page of stores for callers that manage their own
// paging tokens.
func (s *StoreService) ListPage(ctx context.Context, pageSize int, pageToken string) ([]domain.Store, string, error) {
	if pageSize < 0 {
		return nil, "", fmt.Errorf("%w: page size must not be negative", domain.ErrInvalidInput)
	}
	return s.backend.ListStores(ctx, pageSize, pageToken)
}

// Delete removes a store. Without force the backend refuses to delete a
// store that still contains documents.
func (s *StoreService) Delete(ctx context.Context, name string, force bool) error {
	if err := domain.ValidateStoreName(name); err != nil {
		return err
	}
	if err := s.backend.DeleteStore(ctx, name, force); err != nil {
		return fmt.Errorf("delete store: %w", err)
	}
	s.log.Info().Str("store", name).Bool("force", force).Msg("store deleted")
	return nil
}

// Statistics recomputes live document statistics by traversing every
// document in the store, one page of 100 at a time. Nothing is cached; the
// numbers are as fresh as the traversal.
func (s *StoreService) Statistics(ctx context.Context, name string) (*domain.StoreStatistics, error) {
	if err := domain.ValidateStoreName(name); err != nil {
		return nil, err
	}

	stats := &domain.StoreStatistics{
		StoreName:       name,
		StatesBreakdown: make(map[domain.DocumentState]int),
	}

	list := func(ctx context.Context, pageSize int, pageToken string) ([]domain.Document, string, error) {
		return s.backend.ListDocuments(ctx, name, pageSize, pageToken)
	}
	err := pager.New(list, statisticsPageSize).Each(ctx, func(doc domain.Document) bool {
		stats.DocumentCount++
		// Missing sizes count as zero; unknown states bucket together.
		stats.TotalSizeBytes += doc.SizeBytes
		state := doc.State
		if !state.IsValid() {
			state = domain.DocumentStateUnknown
		}
		stats.StatesBreakdown[state]++
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("traverse %s: %w", name, err)
	}

	s.log.Debug().
		Str("store", name).
		Int("documents", stats.DocumentCount).
		Int64("bytes", stats.TotalSizeBytes).
		Msg("statistics computed")
	return stats, nil
}
