package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	// ErrInputRead marks an upload that could not be opened or parsed as a table.
	ErrInputRead = errors.New("input unreadable")
	// ErrMalformedInput marks a table missing a required rating dimension or
	// producing zero scenes after reshaping.
	ErrMalformedInput = errors.New("malformed input")
	// ErrNotFound marks an absent job or artifact.
	ErrNotFound = errors.New("resource not found")
	// ErrConfiguration marks invalid startup configuration; never raised per job.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrStore marks job-store failures, the one class allowed to surface as a
	// hard handler failure.
	ErrStore = errors.New("store error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
