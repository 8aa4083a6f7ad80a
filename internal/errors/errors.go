// Package errors defines the structured error type the HTTP layer maps to
// status codes and metrics labels.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/pejman93/echopulse/internal/domain"
)

// ErrorType classifies an error for response mapping and metrics.
type ErrorType string

const (
	TypeValidation  ErrorType = "validation"
	TypeNotFound    ErrorType = "not_found"
	TypeInternal    ErrorType = "internal"
	TypeUnavailable ErrorType = "unavailable"
)

var statusByType = map[ErrorType]int{
	TypeValidation:  http.StatusBadRequest,
	TypeNotFound:    http.StatusNotFound,
	TypeInternal:    http.StatusInternalServerError,
	TypeUnavailable: http.StatusServiceUnavailable,
}

// Error is a typed error carrying an optional cause and loose key/value
// context for logging and client responses.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// HTTPStatus maps the error type to a response status. Unknown types are
// treated as internal.
func (e *Error) HTTPStatus() int {
	if status, ok := statusByType[e.Type]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func newError(t ErrorType, message string, cause error) *Error {
	return &Error{Type: t, Message: message, Cause: cause, Context: make(map[string]any)}
}

// ValidationError reports invalid caller input.
func ValidationError(message string) *Error {
	return newError(TypeValidation, message, nil)
}

// NotFoundError reports a missing resource.
func NotFoundError(message string) *Error {
	return newError(TypeNotFound, message, nil)
}

// InternalError reports a server-side failure, keeping the cause for logs.
func InternalError(message string, cause error) *Error {
	return newError(TypeInternal, message, cause)
}

// UnavailableError reports a dependency outage, e.g. the Redis breaker open.
func UnavailableError(message string, cause error) *Error {
	return newError(TypeUnavailable, message, cause)
}

// WithContext attaches a key/value pair and returns the error for chaining.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// ErrorResponse is the JSON body sent to clients.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Type    ErrorType      `json:"type"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Type: e.Type, Context: e.Context}
}

// AsStructuredError coerces any error into an *Error. Domain sentinels get
// their natural type; anything unrecognized becomes an internal error whose
// cause stays out of the client-facing message.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structured *Error
	if errors.As(err, &structured) {
		return structured
	}

	switch {
	case errors.Is(err, domain.ErrNoSources),
		errors.Is(err, domain.ErrUnknownStrategy),
		errors.Is(err, domain.ErrUnknownCategory):
		return ValidationError(err.Error())
	case errors.Is(err, domain.ErrSpeakerNotFound):
		return NotFoundError(err.Error())
	}

	return InternalError("internal server error", err)
}
