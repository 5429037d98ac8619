package store

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two outcomes that need no extra payload.
var (
	// ErrNotFound marks a referenced resource that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a unique-key collision, e.g. a duplicate business code.
	ErrConflict = errors.New("conflict")
)

// ValidationError reports malformed or out-of-range input with field detail.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// ConfirmRequiredError is not a failure: it pauses a destructive status
// change until the caller retries with an explicit confirmation. SlotName
// carries the bound slot's display name so the UI can re-prompt.
type ConfirmRequiredError struct {
	SlotName string
}

func (e *ConfirmRequiredError) Error() string {
	return fmt.Sprintf("confirmation required: resource is still bound to %q", e.SlotName)
}

func notFoundf(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
}

func conflictf(kind, code string) error {
	return fmt.Errorf("%s code %q already exists: %w", kind, code, ErrConflict)
}

func validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
