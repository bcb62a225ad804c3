package domain

import "time"

// JournalStatus tracks a journalled metadata update through its lifecycle.
type JournalStatus string

// Journal statuses. An entry is written pending before the delete step runs,
// marked completed once the re-import is accepted, and marked failed when the
// re-import did not go through and the buffered bytes are still needed.
const (
	JournalStatusPending   JournalStatus = "pending"
	JournalStatusCompleted JournalStatus = "completed"
	JournalStatusFailed    JournalStatus = "failed"
)

// JournalEntry buffers everything needed to replay a metadata update's
// re-import: the original bytes plus the upload parameters. It is written
// before the destructive delete step so a crash or backend fault between
// delete and re-import never strands the document's content.
type JournalEntry struct {
	// ID is the entry's identifier, a UUID.
	ID string

	// DocumentName is the document the update targeted.
	DocumentName string

	// StoreName is the store the re-import targets.
	StoreName string

	// DisplayName is the display name to re-upload under.
	DisplayName string

	// MIMEType is the MIME type to re-upload with.
	MIMEType string

	// Metadata is the replacement metadata the update carried.
	Metadata []MetadataEntry

	// Content is the original file bytes.
	Content []byte

	// Status is the entry's lifecycle state.
	Status JournalStatus

	// LastError records the most recent failure, empty otherwise.
	LastError string

	// CreatedAt is when the entry was journalled.
	CreatedAt time.Time

	// UpdatedAt is when the status last changed.
	UpdatedAt time.Time
}
