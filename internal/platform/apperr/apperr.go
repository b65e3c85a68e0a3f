// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error handling framework for the
Stockroom service.

It provides a rich error type that bridges the gap between low-level
storage/crypto errors and what the HTTP layer shows to a user, either as a
flash message on a redirect or as a JSON envelope for API/AJAX callers.

Architecture:

  - AppError: a struct containing a machine-readable code and a client-safe message.
  - Taxonomy: one constructor per authentication failure class.
  - Mapping: explicit mapping from AppError to HTTP status codes.

Every error that leaves the service layer should be an [AppError] (or wrap
one) so handlers can decide between "flash and redirect" and "log and 500".
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Error Codes

const (
	CodeNotFound              = "NOT_FOUND"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeForbidden             = "FORBIDDEN"
	CodeConflict              = "CONFLICT"
	CodeValidation            = "VALIDATION_ERROR"
	CodeRateLimited           = "RATE_LIMITED"
	CodeDuplicateIdentity     = "DUPLICATE_IDENTITY"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeInvalidOrExpiredToken = "INVALID_OR_EXPIRED_TOKEN"
	CodePasswordMismatch      = "PASSWORD_MISMATCH"
	CodeInternal              = "INTERNAL_ERROR"
	CodeStoreUnavailable      = "STORE_UNAVAILABLE"
)

// AppError is the canonical error type of the service.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "CONFLICT").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the form field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// IsServerFault reports whether the error must be logged and hidden behind a
// generic page rather than shown as a flash message.
func (e *AppError) IsServerFault() bool { return e.HTTPStatus >= http.StatusInternalServerError }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("User") // Returns "User not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// Conflict creates a 409 [AppError] for unique-constraint violations outside
// the identity domain.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       CodeRateLimited,
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Authentication Taxonomy

// DuplicateIdentity is returned when a username or email is already registered.
func DuplicateIdentity() *AppError {
	return &AppError{
		Code:       CodeDuplicateIdentity,
		Message:    "Username or email is already registered",
		HTTPStatus: http.StatusConflict,
	}
}

// InvalidCredentials is the single login failure shown to clients.
//
// Unknown identifier, inactive account and wrong password all collapse into
// this error so responses cannot be used to enumerate accounts. The cause is
// kept for server-side logs only.
func InvalidCredentials(cause error) *AppError {
	return &AppError{
		Code:       CodeInvalidCredentials,
		Message:    "Invalid login credentials",
		HTTPStatus: http.StatusUnauthorized,
		Cause:      cause,
	}
}

// InvalidOrExpiredToken is returned when a password reset token is unknown,
// already used or past its expiry.
func InvalidOrExpiredToken() *AppError {
	return &AppError{
		Code:       CodeInvalidOrExpiredToken,
		Message:    "Password reset token is invalid or has expired",
		HTTPStatus: http.StatusBadRequest,
	}
}

// PasswordMismatch is returned when the password confirmation differs.
func PasswordMismatch() *AppError {
	return &AppError{
		Code:       CodePasswordMismatch,
		Message:    "Passwords do not match",
		HTTPStatus: http.StatusBadRequest,
		Details:    []FieldError{{Field: "confirmPassword", Message: "Passwords do not match"}},
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// StoreUnavailable wraps a database or cache failure. It is never retried.
func StoreUnavailable(cause error) *AppError {
	return &AppError{
		Code:       CodeStoreUnavailable,
		Message:    "Service temporarily unavailable",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err carries an [*AppError] with the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
