// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error handling framework for TruyenNet.

It provides a rich error type that bridges the gap between low-level transport or
storage errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Upstream: Constructors for every failure the comic API client can report
    (network, timeout, non-2xx status, malformed payload).
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses. Its Message is the display text a client renders.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Error Codes

const (
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodeInternal        = "INTERNAL_ERROR"
	CodeNetwork         = "NETWORK_ERROR"
	CodeTimeout         = "TIMEOUT"
	CodeUpstream        = "UPSTREAM_ERROR"
	CodeBadPayload      = "BAD_UPSTREAM_PAYLOAD"
	CodeUpstreamMessage = "UPSTREAM_REJECTED"
)

// AppError is the canonical error type for the TruyenNet API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "TIMEOUT").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// UpstreamStatus is the status returned by the remote API, when there was one.
	UpstreamStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Bookmark") // Returns "Bookmark not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
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

// # Upstream Errors

// NetworkError creates a 502 [AppError] for connectivity failures toward the comic API.
func NetworkError(cause error) *AppError {
	return &AppError{
		Code:       CodeNetwork,
		Message:    "Network error: Could not connect to server",
		HTTPStatus: http.StatusBadGateway,
		Cause:      cause,
	}
}

// Timeout creates a 504 [AppError] for requests that exceeded their deadline.
func Timeout(cause error) *AppError {
	return &AppError{
		Code:       CodeTimeout,
		Message:    "Request timeout",
		HTTPStatus: http.StatusGatewayTimeout,
		Cause:      cause,
	}
}

// UpstreamStatus creates a 502 [AppError] for a non-2xx answer from the comic API.
//
// Example:
//
//	apperr.UpstreamStatus(404, "Not Found") // Returns "HTTP Error: 404 Not Found"
func UpstreamStatus(status int, statusText string) *AppError {
	if statusText == "" {
		statusText = http.StatusText(status)
	}
	return &AppError{
		Code:           CodeUpstream,
		Message:        fmt.Sprintf("HTTP Error: %d %s", status, statusText),
		HTTPStatus:     http.StatusBadGateway,
		UpstreamStatus: status,
	}
}

// BadPayload creates a 502 [AppError] when the upstream body is not the expected JSON.
func BadPayload(cause error) *AppError {
	return &AppError{
		Code:       CodeBadPayload,
		Message:    "Unexpected response from server",
		HTTPStatus: http.StatusBadGateway,
		Cause:      cause,
	}
}

// UpstreamMessage creates a 502 [AppError] for an envelope whose status is "error".
func UpstreamMessage(msg string) *AppError {
	if msg == "" {
		msg = "The comic service rejected the request"
	}
	return &AppError{
		Code:       CodeUpstreamMessage,
		Message:    msg,
		HTTPStatus: http.StatusBadGateway,
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

// # Helpers

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

// Message returns the display text for any error, falling back to a generic one.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if ae := As(err); ae != nil {
		return ae.Message
	}
	return "An error occurred"
}
