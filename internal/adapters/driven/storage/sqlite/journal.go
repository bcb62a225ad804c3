package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/corpus-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
)

// Ensure Journal implements the interface.
var _ driven.UpdateJournal = (*Journal)(nil)

// Journal is the SQLite-backed implementation of driven.UpdateJournal.
type Journal struct {
	db   *sql.DB
	path string
}

// NewJournal opens the journal database at path, creating it if needed.
// If path is empty, defaults to ~/.corpus/data/journal.db.
func NewJournal(path string) (*Journal, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".corpus", "data", "journal.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// WAL mode lets a recovery scan read while an update appends.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	j := &Journal{db: db, path: path}
	if err := j.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Path returns the database file path.
func (j *Journal) Path() string {
	return j.path
}

// Append writes a pending entry. The insert commits before this returns, so
// the caller may proceed to the destructive step knowing the content is
// buffered.
func (j *Journal) Append(ctx context.Context, entry domain.JournalEntry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Status == "" {
		entry.Status = domain.JournalStatusPending
	}

	metadataJSON, err := json.Marshal(entry.Metadata)
	if err != nil {
		return "", fmt.Errorf("marshalling metadata: %w", err)
	}

	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO journal_entries
			(id, document_name, store_name, display_name, mime_type,
			 metadata, content, status, last_error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.DocumentName, entry.StoreName, entry.DisplayName,
		entry.MIMEType, string(metadataJSON), entry.Content,
		string(entry.Status), entry.LastError, entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("appending journal entry: %w", err)
	}
	return entry.ID, nil
}

// Get retrieves an entry by ID.
func (j *Journal) Get(ctx context.Context, id string) (*domain.JournalEntry, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT id, document_name, store_name, display_name, mime_type,
		       metadata, content, status, last_error, created_at, updated_at
		FROM journal_entries
		WHERE id = ?
	`, id)

	entry, err := scanEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("getting journal entry: %w", err)
	}
	return entry, nil
}

// ListPending returns entries whose re-import has not completed, oldest
// first. Both pending and failed entries qualify; a pending entry from a
// crashed process needs replay just as a failed one does.
func (j *Journal) ListPending(ctx context.Context) ([]domain.JournalEntry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, document_name, store_name, display_name, mime_type,
		       metadata, content, status, last_error, created_at, updated_at
		FROM journal_entries
		WHERE status != ?
		ORDER BY created_at ASC
	`, string(domain.JournalStatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("listing pending journal entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating journal entries: %w", err)
	}
	return entries, nil
}

// MarkCompleted records that the re-import was accepted. The buffered
// content is dropped; only the entry's bookkeeping row remains until Prune.
func (j *Journal) MarkCompleted(ctx context.Context, id string) error {
	return j.setStatus(ctx, id, domain.JournalStatusCompleted, "", true)
}

// MarkFailed records a re-import failure, keeping the buffered content for
// replay.
func (j *Journal) MarkFailed(ctx context.Context, id string, cause string) error {
	return j.setStatus(ctx, id, domain.JournalStatusFailed, cause, false)
}

func (j *Journal) setStatus(ctx context.Context, id string, status domain.JournalStatus, cause string, dropContent bool) error {
	query := `
		UPDATE journal_entries
		SET status = ?, last_error = ?, updated_at = ?
		WHERE id = ?
	`
	if dropContent {
		query = `
		UPDATE journal_entries
		SET status = ?, last_error = ?, updated_at = ?, content = X''
		WHERE id = ?
	`
	}

	result, err := j.db.ExecContext(ctx, query, string(status), cause, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating journal entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking journal update: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Prune removes completed entries older than the given number of days and
// returns how many were removed.
func (j *Journal) Prune(ctx context.Context, olderThanDays int) (int, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)

	result, err := j.db.ExecContext(ctx, `
		DELETE FROM journal_entries
		WHERE status = ? AND updated_at < ?
	`, string(domain.JournalStatusCompleted), cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning journal: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned entries: %w", err)
	}
	return int(affected), nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*domain.JournalEntry, error) {
	var (
		entry        domain.JournalEntry
		metadataJSON string
		status       string
	)
	err := row.Scan(
		&entry.ID, &entry.DocumentName, &entry.StoreName, &entry.DisplayName,
		&entry.MIMEType, &metadataJSON, &entry.Content, &status,
		&entry.LastError, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Status = domain.JournalStatus(status)
	if err := json.Unmarshal([]byte(metadataJSON), &entry.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshalling metadata: %w", err)
	}
	return &entry, nil
}

// migrate runs all pending migrations.
func (j *Journal) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := j.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := j.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_journal.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := j.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := j.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
