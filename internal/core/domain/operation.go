package domain

import (
	"fmt"
	"strings"
)

// OperationCollection prefixes operation resource names.
const OperationCollection = "operations"

// Operation is the async handle returned by mutating ingestion calls.
// It is terminal once Done is true; this layer polls, the backend never
// pushes, and an accepted operation cannot be cancelled from here.
type Operation struct {
	// Name is the backend-issued resource name, "operations/<id>".
	Name string

	// Done is true once the operation reached a terminal state.
	Done bool

	// Error is set when the operation finished unsuccessfully.
	Error *OperationError

	// Response is the normalised success payload, when the backend
	// attached one.
	Response map[string]any

	// Metadata is the normalised progress metadata. For ingestion it may
	// carry the resulting document name.
	Metadata map[string]any
}

// OperationError is the failure detail of a finished operation.
type OperationError struct {
	// Code is the backend's numeric error code.
	Code int

	// Message is the human-readable failure description.
	Message string

	// Details carries any structured error details, normalised.
	Details []any
}

// Succeeded returns true once the operation finished without error.
func (o Operation) Succeeded() bool {
	return o.Done && o.Error == nil
}

// DocumentName extracts the resulting document name from the operation
// metadata, when the backend recorded one. Returns "" otherwise.
func (o Operation) DocumentName() string {
	if o.Metadata == nil {
		return ""
	}
	for _, key := range []string{"document_name", "documentName"} {
		if v, ok := o.Metadata[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// ValidateOperationName checks that an operation resource name is well
// formed. Bare names ("operations/<id>") and names nested under another
// resource ("fileSearchStores/<id>/operations/<id>") are both accepted;
// the backend issues both forms.
func ValidateOperationName(name string) error {
	if rest, ok := strings.CutPrefix(name, OperationCollection+"/"); ok && rest != "" {
		return nil
	}
	if parent, rest, found := strings.Cut(name, "/"+OperationCollection+"/"); found && parent != "" && rest != "" {
		return nil
	}
	return fmt.Errorf("%w: malformed operation name %q", ErrInvalidInput, name)
}
