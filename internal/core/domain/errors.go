// Package domain defines the core REPL domain models.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain error with a structured error code.
type DomainError struct {
	Code    string // Error code (e.g., "RF-SOCK-5000")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Socket Errors (SOCK)
// ============================================================================

var (
	// ErrListen indicates the socket REPL could not bind its address.
	ErrListen = NewDomainError("RF-SOCK-5001", "failed to set up socket REPL")

	// ErrWrite indicates a write to a connection failed; the connection is considered closed.
	ErrWrite = NewDomainError("RF-SOCK-5002", "connection write failed")

	// ErrLineTooLong indicates a remote peer sent a line above the configured limit.
	ErrLineTooLong = NewDomainError("RF-SOCK-4130", "input line too long")
)

// ============================================================================
// Configuration Errors (CONF)
// ============================================================================

var (
	// ErrConfigInvalid indicates configuration validation failed.
	ErrConfigInvalid = NewDomainError("RF-CONF-4000", "invalid configuration")
)

// ============================================================================
// History Errors (HIST)
// ============================================================================

var (
	// ErrHistoryPersist indicates the history file could not be written.
	ErrHistoryPersist = NewDomainError("RF-HIST-5000", "history persist failed")

	// ErrHistoryLoad indicates the history file could not be read.
	ErrHistoryLoad = NewDomainError("RF-HIST-5001", "history load failed")
)
