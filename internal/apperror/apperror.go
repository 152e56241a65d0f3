// Package apperror defines the application's error taxonomy.
//
// Services return *AppError values wrapping one of the sentinel errors
// below; the HTTP layer maps sentinels to status codes with errors.Is.
// Anything that is not an AppError is treated as unknown and surfaces as a
// 500 without exposing internals.
package apperror

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError carries a sentinel plus a human-readable message suitable for
// API responses.
type AppError struct {
	Err     error  // sentinel classifying the failure
	Message string // human-readable error message
	Field   string // optional: field or key causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound returns an AppError for a missing user, group or event.
// HTTP handlers map this to 404.
func NotFound(message string) *AppError {
	return &AppError{Err: ErrNotFound, Message: message}
}

// ValidationFailed returns an AppError for missing or malformed input.
// HTTP handlers map this to 400.
func ValidationFailed(field, message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message, Field: field}
}

// Conflict returns an AppError for a violated uniqueness constraint
// (duplicate email, username or group name). HTTP handlers map this to 400,
// matching the API's historical behaviour.
func Conflict(message string) *AppError {
	return &AppError{Err: ErrConflict, Message: message}
}

// Unauthorized returns an AppError for a missing or invalid credential.
// HTTP handlers map this to 401.
func Unauthorized(message string) *AppError {
	return &AppError{Err: ErrUnauthorized, Message: message}
}
