package entity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies failures so callers can map them to user-facing behavior
type ErrorKind string

const (
	KindValidation   ErrorKind = "VALIDATION"
	KindNetwork      ErrorKind = "NETWORK"
	KindUnauthorized ErrorKind = "UNAUTHORIZED"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindUnknown      ErrorKind = "UNKNOWN"
)

// DomainError is the typed error carried across layer boundaries
type DomainError struct {
	Kind    ErrorKind
	Message string
	Fields  []string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation error naming the missing fields
func NewValidationError(fields ...string) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Message: "missing required fields: " + strings.Join(fields, ", "),
		Fields:  fields,
	}
}

// NewNetworkError wraps a transport failure; providerMessage is preferred
// for user display when the remote gave one
func NewNetworkError(providerMessage string, err error) *DomainError {
	msg := providerMessage
	if msg == "" {
		msg = "remote call failed"
	}
	return &DomainError{Kind: KindNetwork, Message: msg, Err: err}
}

// NewUnauthorizedError creates an authorization failure
func NewUnauthorizedError(message string) *DomainError {
	if message == "" {
		message = "not authorized"
	}
	return &DomainError{Kind: KindUnauthorized, Message: message}
}

// NewNotFoundError creates a not-found failure
func NewNotFoundError(message string) *DomainError {
	if message == "" {
		message = "not found"
	}
	return &DomainError{Kind: KindNotFound, Message: message}
}

// KindOf extracts the error kind, defaulting to Unknown
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}
