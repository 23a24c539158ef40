package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a lookup that matched nothing, e.g. a run ID the
	// ledger has never seen.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput reports a caller-supplied argument that fails a
	// precondition before any stage work starts.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedInput reports a raw source that could not be parsed at
	// all. Unlike a record-level validation failure this is fatal for the
	// source's stage: there is no record set, not even an empty one.
	ErrMalformedInput = errors.New("malformed input")
)

// ValidationError is a record-level schema failure, carrying the field that
// tripped it. Validation errors are data, not faults: the failing record is
// routed to the invalid partition and the run continues.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
