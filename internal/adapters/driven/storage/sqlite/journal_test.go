package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// setupTestJournal creates a temporary SQLite journal for testing.
func setupTestJournal(t *testing.T) *Journal {
	t.Helper()

	journal, err := NewJournal(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	require.NotNil(t, journal)

	t.Cleanup(func() {
		assert.NoError(t, journal.Close())
	})
	return journal
}

// testEntry builds a populated entry for the given document.
func testEntry(document string) domain.JournalEntry {
	tag := "archived"
	return domain.JournalEntry{
		DocumentName: document,
		StoreName:    "fileSearchStores/my-store",
		DisplayName:  "notes.md",
		MIMEType:     "text/markdown",
		Metadata: []domain.MetadataEntry{
			{Key: "status", StringValue: &tag},
		},
		Content: []byte("original file bytes"),
	}
}

func TestJournal_AppendAndGet(t *testing.T) {
	ctx := context.Background()
	journal := setupTestJournal(t)

	id, err := journal.Append(ctx, testEntry("fileSearchStores/my-store/documents/doc-1"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	entry, err := journal.Get(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, id, entry.ID)
	assert.Equal(t, "fileSearchStores/my-store/documents/doc-1", entry.DocumentName)
	assert.Equal(t, "fileSearchStores/my-store", entry.StoreName)
	assert.Equal(t, "notes.md", entry.DisplayName)
	assert.Equal(t, "text/markdown", entry.MIMEType)
	assert.Equal(t, []byte("original file bytes"), entry.Content)
	assert.Equal(t, domain.JournalStatusPending, entry.Status)
	assert.False(t, entry.CreatedAt.IsZero())

	require.Len(t, entry.Metadata, 1)
	assert.Equal(t, "status", entry.Metadata[0].Key)
	require.NotNil(t, entry.Metadata[0].StringValue)
	assert.Equal(t, "archived", *entry.Metadata[0].StringValue)
}

func TestJournal_Get_NotFound(t *testing.T) {
	journal := setupTestJournal(t)

	_, err := journal.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJournal_ListPending(t *testing.T) {
	ctx := context.Background()
	journal := setupTestJournal(t)

	first, err := journal.Append(ctx, testEntry("fileSearchStores/s/documents/first"))
	require.NoError(t, err)
	second, err := journal.Append(ctx, testEntry("fileSearchStores/s/documents/second"))
	require.NoError(t, err)
	done, err := journal.Append(ctx, testEntry("fileSearchStores/s/documents/done"))
	require.NoError(t, err)

	require.NoError(t, journal.MarkFailed(ctx, second, "backend unavailable"))
	require.NoError(t, journal.MarkCompleted(ctx, done))

	pending, err := journal.ListPending(ctx)
	require.NoError(t, err)

	// Completed entries drop out; pending and failed both stay, oldest first.
	require.Len(t, pending, 2)
	assert.Equal(t, first, pending[0].ID)
	assert.Equal(t, second, pending[1].ID)
	assert.Equal(t, domain.JournalStatusFailed, pending[1].Status)
	assert.Equal(t, "backend unavailable", pending[1].LastError)
}

func TestJournal_MarkCompleted_DropsContent(t *testing.T) {
	ctx := context.Background()
	journal := setupTestJournal(t)

	id, err := journal.Append(ctx, testEntry("fileSearchStores/s/documents/doc"))
	require.NoError(t, err)

	require.NoError(t, journal.MarkCompleted(ctx, id))

	entry, err := journal.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.JournalStatusCompleted, entry.Status)
	assert.Empty(t, entry.Content)
}

func TestJournal_MarkFailed_KeepsContent(t *testing.T) {
	ctx := context.Background()
	journal := setupTestJournal(t)

	id, err := journal.Append(ctx, testEntry("fileSearchStores/s/documents/doc"))
	require.NoError(t, err)

	require.NoError(t, journal.MarkFailed(ctx, id, "quota exhausted"))

	entry, err := journal.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.JournalStatusFailed, entry.Status)
	assert.Equal(t, "quota exhausted", entry.LastError)
	assert.Equal(t, []byte("original file bytes"), entry.Content)
}

func TestJournal_Mark_NotFound(t *testing.T) {
	ctx := context.Background()
	journal := setupTestJournal(t)

	assert.ErrorIs(t, journal.MarkCompleted(ctx, "missing"), domain.ErrNotFound)
	assert.ErrorIs(t, journal.MarkFailed(ctx, "missing", "cause"), domain.ErrNotFound)
}

func TestJournal_Prune(t *testing.T) {
	ctx := context.Background()
	journal := setupTestJournal(t)

	oldID, err := journal.Append(ctx, testEntry("fileSearchStores/s/documents/old"))
	require.NoError(t, err)
	require.NoError(t, journal.MarkCompleted(ctx, oldID))

	// Age the completed entry past the cutoff.
	aged := time.Now().UTC().AddDate(0, 0, -10)
	_, err = journal.db.ExecContext(ctx,
		"UPDATE journal_entries SET updated_at = ? WHERE id = ?", aged, oldID)
	require.NoError(t, err)

	freshID, err := journal.Append(ctx, testEntry("fileSearchStores/s/documents/fresh"))
	require.NoError(t, err)
	require.NoError(t, journal.MarkCompleted(ctx, freshID))

	pendingID, err := journal.Append(ctx, testEntry("fileSearchStores/s/documents/pending"))
	require.NoError(t, err)
	_, err = journal.db.ExecContext(ctx,
		"UPDATE journal_entries SET updated_at = ? WHERE id = ?", aged, pendingID)
	require.NoError(t, err)

	removed, err := journal.Prune(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	// The aged pending entry survives; only completed entries are pruned.
	_, err = journal.Get(ctx, pendingID)
	assert.NoError(t, err)
	_, err = journal.Get(ctx, oldID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = journal.Get(ctx, freshID)
	assert.NoError(t, err)
}

func TestJournal_ReopenPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	journal, err := NewJournal(path)
	require.NoError(t, err)
	id, err := journal.Append(ctx, testEntry("fileSearchStores/s/documents/doc"))
	require.NoError(t, err)
	require.NoError(t, journal.Close())

	reopened, err := NewJournal(path)
	require.NoError(t, err)
	defer reopened.Close()

	entry, err := reopened.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "fileSearchStores/s/documents/doc", entry.DocumentName)
}
