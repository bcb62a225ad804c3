package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
	"github.com/custodia-labs/corpus-cli/internal/logger"
)

// Ensure OperationService implements the interface.
var _ driving.OperationService = (*OperationService)(nil)

// defaultPollInterval paces Wait when the caller passes no interval.
const defaultPollInterval = 2 * time.Second

// OperationService tracks long-running backend operations.
type OperationService struct {
	backend driven.FileSearchService
	log     zerolog.Logger
}

// NewOperationService creates a new operation service.
func NewOperationService(backend driven.FileSearchService) *OperationService {
	return &OperationService{
		backend: backend,
		log:     logger.For("operation-service"),
	}
}

// Get polls one operation by resource name.
func (s *OperationService) Get(ctx context.Context, name string) (*domain.Operation, error) {
	if err := domain.ValidateOperationName(name); err != nil {
		return nil, err
	}
	return s.backend.GetOperation(ctx, name)
}

// Wait polls the operation at the given interval until it reports done or
// the context ends. A done operation that carries a backend error is still a
// successful Wait; the caller inspects the snapshot.
func (s *OperationService) Wait(ctx context.Context, name string, interval time.Duration) (*domain.Operation, error) {
	if err := domain.ValidateOperationName(name); err != nil {
		return nil, err
	}
	if interval <= 0 {
		interval = defaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		op, err := s.backend.GetOperation(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("poll %s: %w", name, err)
		}
		if op.Done {
			s.log.Debug().Str("operation", name).Bool("succeeded", op.Succeeded()).Msg("operation finished")
			return op, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
