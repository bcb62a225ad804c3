package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// OperationService tracks long-running backend operations.
type OperationService interface {
	// Get polls one operation by resource name.
	Get(ctx context.Context, name string) (*domain.Operation, error)

	// Wait polls the operation at the given interval until it is done or
	// the context ends. The operation's terminal snapshot is returned; a
	// failed operation is not an error at this level.
	Wait(ctx context.Context, name string, interval time.Duration) (*domain.Operation, error)
}
