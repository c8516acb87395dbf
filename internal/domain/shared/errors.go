// Package shared contains common domain types, errors and events
// that are used across all domain packages. This package has zero external dependencies.
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
	ErrValidation    = errors.New("validation error")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidFormat = errors.New("invalid format")

	// Startup errors
	ErrLoad = errors.New("bootstrap load failed")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "roster", "profile"
	Op      string // Operation that failed, e.g., "UpdateFriend"
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

// Roster domain errors
var (
	ErrFriendNotFound      = NewDomainError("roster", "FindFriend", ErrNotFound, "friend not found")
	ErrFriendAlreadyExists = NewDomainError("roster", "AddFriend", ErrAlreadyExists, "friend already exists")
	ErrInvalidAvailability = NewDomainError("roster", "Validate", ErrInvalidInput, "unknown availability")
)

// NewFriendNotFoundError reports that no roster entry matches email.
func NewFriendNotFoundError(email string) *DomainError {
	return NewDomainError("roster", "UpdateFriend", ErrNotFound, fmt.Sprintf("friend %q not found", email))
}

// NewFriendAlreadyExistsError reports that a roster entry with email is already present.
func NewFriendAlreadyExistsError(email string) *DomainError {
	return NewDomainError("roster", "AddFriend", ErrAlreadyExists, fmt.Sprintf("friend %q already exists", email))
}

// LoadError is returned when a bootstrap document cannot be turned into state.
// It is fatal at startup.
type LoadError struct {
	Document string
	Err      error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Document, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error { return e.Err }

// Is reports ErrLoad for every LoadError.
func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// NewLoadError creates a LoadError for the named document.
func NewLoadError(document string, err error) *LoadError {
	return &LoadError{Document: document, Err: err}
}

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
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsLoad checks if the error came from bootstrap loading.
func IsLoad(err error) bool {
	return errors.Is(err, ErrLoad)
}
