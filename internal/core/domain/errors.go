package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input: a bad metadata
	// shape, a resource name that cannot be parsed, missing required bytes.
	// Never retried; surfaced immediately.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates a referenced backend resource does not exist.
	// Never retried.
	ErrNotFound = errors.New("not found")

	// ErrBackendUnavailable indicates a transient backend fault: a network
	// error, a timeout, or a 5xx-class response. Eligible for retry.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrQuotaExceeded indicates the backend rejected the call for quota
	// or rate reasons. Never retried locally; callers back off above.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorised")

	// ErrStoreNotEmpty indicates a store deletion without force was refused
	// because documents remain. Distinct from a forced deletion, which
	// removes contained documents implicitly.
	ErrStoreNotEmpty = errors.New("store not empty")

	// ErrPartialUpdate indicates a metadata update deleted the original
	// document but failed to re-import it. The logical document is gone from
	// the backend until the re-import is replayed from the journal.
	ErrPartialUpdate = errors.New("partial update: document deleted but re-import failed")
)

// PartialUpdateError carries the context needed to recover from a metadata
// update that deleted the original document but failed to re-import it.
type PartialUpdateError struct {
	// DocumentName is the name of the document that was deleted.
	DocumentName string

	// StoreName is the store the re-import targets.
	StoreName string

	// JournalID identifies the journal entry holding the buffered bytes.
	// Empty when journalling was disabled.
	JournalID string

	// Err is the re-import failure.
	Err error
}

// Error implements the error interface.
func (e *PartialUpdateError) Error() string {
	if e.JournalID != "" {
		return fmt.Sprintf("partial update of %s: delete succeeded but re-import failed (recover with journal entry %s): %v",
			e.DocumentName, e.JournalID, e.Err)
	}
	return fmt.Sprintf("partial update of %s: delete succeeded but re-import failed: %v", e.DocumentName, e.Err)
}

// Unwrap returns the underlying re-import failure.
func (e *PartialUpdateError) Unwrap() error {
	return e.Err
}

// Is reports ErrPartialUpdate so callers can match with errors.Is without
// needing the concrete type.
func (e *PartialUpdateError) Is(target error) bool {
	return target == ErrPartialUpdate
}

// IsTransient returns true if the error is a transient backend fault and the
// call may be retried.
func IsTransient(err error) bool {
	return errors.Is(err, ErrBackendUnavailable)
}

// IsValidation returns true if the error is an input validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsQuota returns true if the error indicates exhausted backend quota.
func IsQuota(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}

// IsPartialUpdate returns true if the error is a partial metadata update.
func IsPartialUpdate(err error) bool {
	return errors.Is(err, ErrPartialUpdate)
}

// ErrorKind is the coarse classification reported across the tool boundary.
type ErrorKind string

// Error kinds, in the order a caller should consider them.
const (
	ErrorKindValidation   ErrorKind = "validation"
	ErrorKindNotFound     ErrorKind = "not_found"
	ErrorKindQuota        ErrorKind = "quota_exceeded"
	ErrorKindTransient    ErrorKind = "backend_unavailable"
	ErrorKindPartial      ErrorKind = "partial_failure"
	ErrorKindUnauthorized ErrorKind = "unauthorised"
	ErrorKindInternal     ErrorKind = "internal"
)

// KindOf maps an error to its boundary classification. Unrecognised errors
// classify as internal.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case IsPartialUpdate(err):
		return ErrorKindPartial
	case IsValidation(err):
		return ErrorKindValidation
	case IsNotFound(err):
		return ErrorKindNotFound
	case IsQuota(err):
		return ErrorKindQuota
	case IsTransient(err):
		return ErrorKindTransient
	case errors.Is(err, ErrUnauthorized):
		return ErrorKindUnauthorized
	case errors.Is(err, ErrStoreNotEmpty):
		return ErrorKindValidation
	default:
		return ErrorKindInternal
	}
}
