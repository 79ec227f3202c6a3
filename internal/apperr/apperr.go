// Package apperr defines the error kinds shared by the store, service and
// API layers. Lower layers return these (usually wrapped) and the API maps
// them to HTTP statuses with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrAuth       = errors.New("not authenticated")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrTransition = errors.New("illegal status transition")
	ErrStorage    = errors.New("storage failure")
)

// ValidationError reports malformed input. Field names the offending input
// ("domain" for an email outside the institutional domain).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid returns a ValidationError for field with the given message.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// TransitionError reports a status change the lifecycle does not allow.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change status from %q to %q", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrTransition }

// StorageError reports a blob store failure. Err may be nil when the
// failure is the locator itself (malformed or foreign).
type StorageError struct {
	Op      string
	Locator string
	Err     error
}

func (e *StorageError) Error() string {
	msg := "media " + e.Op
	if e.Locator != "" {
		msg += " " + e.Locator
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StorageError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStorage}
	}
	return []error{ErrStorage, e.Err}
}
