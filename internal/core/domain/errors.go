// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is wrapped by a StoreError when the backend rejects the credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrVersionConflict is wrapped by a StoreError when a conditional write lost.
	ErrVersionConflict = errors.New("version conflict")
	// ErrNotFound marks a missing item at API boundaries.
	ErrNotFound = errors.New("not found")
)

// StoreError reports a failed read or write against the backing store
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError wraps err as a StoreError for op
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// FormatError reports an import payload that is not a collection of items
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid format: %s: %v", e.Reason, e.Err)
	}
	return "invalid format: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }

// ValidationError reports a rejected field in user input
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// IsStoreError reports whether err carries a StoreError
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// IsValidationError reports whether err carries a ValidationError or FormatError
func IsValidationError(err error) bool {
	var ve *ValidationError
	var fe *FormatError
	return errors.As(err, &ve) || errors.As(err, &fe)
}
