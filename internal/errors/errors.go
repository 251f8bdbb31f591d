// Package errors defines the application error taxonomy and its mapping
// onto HTTP responses.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies a class of application error.
type ErrorCode string

const (
	// Validation and lookup failures.
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"

	// Storage failures.
	ErrCodeStorage ErrorCode = "STORAGE_ERROR"

	// Anything else.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// AppError is a classified application error. Message is safe to return to
// clients; Err carries the internal cause for logs.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause for errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError with no underlying cause.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap creates an AppError around an underlying cause.
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Validation creates a validation error.
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// NotFound creates a not-found error for a named resource.
func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, resource+" not found")
}

// Unauthorized creates an authentication error.
func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message)
}

// Storage wraps a database error.
func Storage(operation string, err error) *AppError {
	return Wrap(ErrCodeStorage, operation+" failed", err)
}

// Internal wraps an unclassified error.
func Internal(err error) *AppError {
	return Wrap(ErrCodeInternal, "internal error", err)
}

// HTTPStatus maps an error code to its HTTP status.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeStorage, ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse is the JSON error envelope sent to clients.
type errorResponse struct {
	Error struct {
		Code    ErrorCode `json:"code"`
		Message string    `json:"message"`
	} `json:"error"`
}

// WriteHTTP writes err as a JSON error response. Non-AppError values are
// reported as internal errors without leaking the cause.
func WriteHTTP(w http.ResponseWriter, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = Internal(err)
	}

	var resp errorResponse
	resp.Error.Code = appErr.Code
	resp.Error.Message = appErr.Message

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.HTTPStatus())
	_ = json.NewEncoder(w).Encode(resp)
}
