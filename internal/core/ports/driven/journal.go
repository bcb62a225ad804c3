package driven

import (
	"context"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// UpdateJournal durably buffers metadata updates across their destructive
// window. Backed by SQLite.
type UpdateJournal interface {
	// Append writes a pending entry and returns its ID. The write must be
	// durable before the caller proceeds to the delete step.
	Append(ctx context.Context, entry domain.JournalEntry) (string, error)

	// Get retrieves an entry by ID.
	Get(ctx context.Context, id string) (*domain.JournalEntry, error)

	// ListPending returns entries whose re-import has not completed, oldest
	// first.
	ListPending(ctx context.Context) ([]domain.JournalEntry, error)

	// MarkCompleted records that the re-import was accepted and releases the
	// buffered content.
	MarkCompleted(ctx context.Context, id string) error

	// MarkFailed records a re-import failure, keeping the buffered content
	// for replay.
	MarkFailed(ctx context.Context, id string, cause string) error

	// Prune removes completed entries older than the given number of days.
	// Returns how many were removed.
	Prune(ctx context.Context, olderThanDays int) (int, error)

	// Close releases the underlying database handle.
	Close() error
}
