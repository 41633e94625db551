// Package shared contains common domain errors used by the roster and
// attendance packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")

	// Persistence errors
	ErrInvalidFormat = errors.New("invalid format")
	ErrStorage       = errors.New("storage failure")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "roster", "attendance", "storage"
	Op      string // Operation that failed, e.g., "Register", "Mark"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Roster errors
var (
	ErrStudentNotFound      = NewDomainError("roster", "Get", ErrNotFound, "student not registered")
	ErrStudentAlreadyExists = NewDomainError("roster", "Register", ErrAlreadyExists, "student already registered")
	ErrMissingFields        = NewDomainError("roster", "Register", ErrInvalidInput, "all fields are required")
	ErrMissingRollNumber    = NewDomainError("roster", "Validate", ErrInvalidInput, "roll number is required")
)

// Attendance errors
var (
	ErrMissingTime   = NewDomainError("attendance", "Mark", ErrInvalidInput, "enter time")
	ErrInvalidStatus = NewDomainError("attendance", "Mark", ErrInvalidInput, "status must be Present or Absent")
)

// Storage errors
var (
	ErrCorruptDocument = NewDomainError("storage", "Load", ErrInvalidFormat, "document is not valid JSON")
	ErrWriteFailed     = NewDomainError("storage", "Save", ErrStorage, "document could not be written")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsParse checks if the error comes from a corrupt persisted document.
func IsParse(err error) bool {
	return errors.Is(err, ErrInvalidFormat)
}

// IsStorage checks if the error comes from a failed write or backend call.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}
