package types

import (
	"errors"
	"fmt"
)

// Error kind sentinels. Every failure surfaced by the client wraps exactly
// one of these (or none, for generic API errors), so callers can branch with
// errors.Is without inspecting codes.
var (
	// ErrAuthentication is returned for bad or missing credentials, failed
	// token refresh, or a persistent 401
	ErrAuthentication = errors.New("authentication failed")

	// ErrNotFound is returned on HTTP 404; never retried
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited is returned on HTTP 429 after retry exhaustion
	ErrRateLimited = errors.New("rate limit exceeded")
)

// Error codes used in the structured Error type
const (
	CodeAuthentication = "AUTHENTICATION_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeRateLimit      = "RATE_LIMIT"
	CodeAPIError       = "API_ERROR"
	CodeRequestFailed  = "REQUEST_FAILED"
)

// Error represents an API error
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode,omitempty"`
	Err        error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewAuthenticationError creates an authentication error
func NewAuthenticationError(message string) *Error {
	return &Error{Code: CodeAuthentication, Message: message, Err: ErrAuthentication}
}

// NewNotFoundError creates a not-found error for the given endpoint
func NewNotFoundError(endpoint string) *Error {
	return &Error{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("resource not found: %s", endpoint),
		StatusCode: 404,
		Err:        ErrNotFound,
	}
}

// NewRateLimitError creates a rate-limit error
func NewRateLimitError(message string) *Error {
	return &Error{Code: CodeRateLimit, Message: message, StatusCode: 429, Err: ErrRateLimited}
}

// NewAPIError creates a generic API error for an HTTP status
func NewAPIError(statusCode int, message string) *Error {
	return &Error{Code: CodeAPIError, Message: message, StatusCode: statusCode}
}

// NewRequestError creates a generic request failure wrapping a transport error
func NewRequestError(message string, err error) *Error {
	return &Error{Code: CodeRequestFailed, Message: message, Err: err}
}
