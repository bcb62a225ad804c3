// Package memory provides in-memory implementations of driven port
// interfaces for testing. Nothing here survives the process.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
)

// Ensure Journal implements the interface.
var _ driven.UpdateJournal = (*Journal)(nil)

// Journal is an in-memory implementation of driven.UpdateJournal.
type Journal struct {
	mu      sync.RWMutex
	entries map[string]domain.JournalEntry
	order   []string
}

// NewJournal creates a new in-memory journal.
func NewJournal() *Journal {
	return &Journal{entries: make(map[string]domain.JournalEntry)}
}

// Append stores a pending entry and returns its ID.
func (j *Journal) Append(_ context.Context, entry domain.JournalEntry) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Status == "" {
		entry.Status = domain.JournalStatusPending
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	j.entries[entry.ID] = entry
	j.order = append(j.order, entry.ID)
	return entry.ID, nil
}

// Get retrieves an entry by ID.
func (j *Journal) Get(_ context.Context, id string) (*domain.JournalEntry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	entry, ok := j.entries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

// ListPending returns entries whose re-import has not completed, oldest
// first.
func (j *Journal) ListPending(_ context.Context) ([]domain.JournalEntry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var pending []domain.JournalEntry
	for _, id := range j.order {
		entry, ok := j.entries[id]
		if !ok || entry.Status == domain.JournalStatusCompleted {
			continue
		}
		pending = append(pending, entry)
	}
	return pending, nil
}

// MarkCompleted records a successful re-import and drops the buffered
// content.
func (j *Journal) MarkCompleted(_ context.Context, id string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	entry, ok := j.entries[id]
	if !ok {
		return domain.ErrNotFound
	}
	entry.Status = domain.JournalStatusCompleted
	entry.LastError = ""
	entry.Content = nil
	entry.UpdatedAt = time.Now().UTC()
	j.entries[id] = entry
	return nil
}

// MarkFailed records a re-import failure, keeping the buffered content.
func (j *Journal) MarkFailed(_ context.Context, id string, cause string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	entry, ok := j.entries[id]
	if !ok {
		return domain.ErrNotFound
	}
	entry.Status = domain.JournalStatusFailed
	entry.LastError = cause
	entry.UpdatedAt = time.Now().UTC()
	j.entries[id] = entry
	return nil
}

// Prune removes completed entries older than the given number of days.
func (j *Journal) Prune(_ context.Context, olderThanDays int) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	removed := 0
	for id, entry := range j.entries {
		if entry.Status == domain.JournalStatusCompleted && entry.UpdatedAt.Before(cutoff) {
			delete(j.entries, id)
			removed++
		}
	}
	return removed, nil
}

// Close is a no-op.
func (j *Journal) Close() error {
	return nil
}
