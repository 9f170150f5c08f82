// Package shared contains common domain types, errors, events, and value objects
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

	// Relation errors
	ErrSelfRelation      = errors.New("relation targets itself")
	ErrDuplicateRelation = errors.New("relation already exists")

	// Validation errors
	ErrValidation   = errors.New("validation error")
	ErrInvalidID    = errors.New("invalid ID")
	ErrInvalidInput = errors.New("invalid input")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "user", "film", "friendship"
	Op      string // Operation that failed, e.g., "Get", "AddFriend"
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

// NotFound builds the lookup failure for an entity of the given domain.
func NotFound(domain string, id int64) *DomainError {
	return NewDomainError(domain, "Get", ErrNotFound, fmt.Sprintf("%s with id=%d not found", domain, id))
}

// Friendship domain errors
var (
	ErrSelfFriendship   = NewDomainError("friendship", "AddFriend", ErrSelfRelation, "user cannot befriend itself")
	ErrFriendshipExists = NewDomainError("friendship", "AddFriend", ErrDuplicateRelation, "users are already friends")
)

// User domain errors
var (
	ErrEmailTaken = NewDomainError("user", "Save", ErrAlreadyExists, "email is already registered")
)

// Filmography domain errors
var (
	ErrInvalidSortMode = NewDomainError("filmography", "ParseSortMode", ErrInvalidInput, "sortBy must be one of: likes, year")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists) || errors.Is(err, ErrDuplicateRelation)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrSelfRelation)
}
