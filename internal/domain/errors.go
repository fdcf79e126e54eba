// Package domain holds the toolkit's business types, scoring rules and
// errors.
//
// Errors here describe what went wrong in business terms. Each typed error
// wraps one of the sentinels below, and the adapters choose transport status
// codes by matching on the sentinel.
package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrValidation  = errors.New("validation failed")
	ErrForbidden   = errors.New("forbidden")
	ErrUnavailable = errors.New("unavailable")
)

// NotFoundError names the missing entity. ID is empty for singletons such
// as a workspace's SWOT analysis.
type NotFoundError struct {
	Entity string
	ID     string
}

func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}

	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictError reports a write that clashes with existing state, such as
// a second expert registration for one email address.
type ConflictError struct {
	Entity  string
	Reason  string
	Details string
}

func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

func NewConflictErrorWithDetails(entity, reason, details string) error {
	return &ConflictError{Entity: entity, Reason: reason, Details: details}
}

func (e *ConflictError) Error() string {
	msg := e.Entity + ": " + e.Reason
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}

	return msg
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// MalformedStateError reports a stored tool document that no longer
// decodes into its current shape. It matches ErrConflict and the decode
// error.
type MalformedStateError struct {
	Key   string
	Cause error
}

func NewMalformedStateError(key string, cause error) error {
	return &MalformedStateError{Key: key, Cause: cause}
}

func (e *MalformedStateError) Error() string {
	return fmt.Sprintf("stored state %q is malformed: %v", e.Key, e.Cause)
}

func (e *MalformedStateError) Unwrap() []error { return []error{ErrConflict, e.Cause} }

// ValidationError rejects one input field. Value, when set, is the
// offending input.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Message
	}

	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ForbiddenError refuses an operation in the current state, for example a
// tool switched off by a feature flag.
type ForbiddenError struct {
	Operation string
	Reason    string
}

func NewForbiddenError(operation, reason string) error {
	return &ForbiddenError{Operation: operation, Reason: reason}
}

func (e *ForbiddenError) Error() string {
	if e.Reason == "" {
		return e.Operation + " is not allowed"
	}

	return fmt.Sprintf("%s is not allowed: %s", e.Operation, e.Reason)
}

func (e *ForbiddenError) Unwrap() error { return ErrForbidden }

// UnavailableError reports a dependency that could not serve the request.
type UnavailableError struct {
	Service string
	Reason  string
}

func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

func (e *UnavailableError) Error() string {
	if e.Reason == "" {
		return e.Service + " is unavailable"
	}

	return fmt.Sprintf("%s is unavailable: %s", e.Service, e.Reason)
}

func (e *UnavailableError) Unwrap() error { return ErrUnavailable }

func IsNotFound(err error) bool    { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool    { return errors.Is(err, ErrConflict) }
func IsValidation(err error) bool  { return errors.Is(err, ErrValidation) }
func IsForbidden(err error) bool   { return errors.Is(err, ErrForbidden) }
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }
