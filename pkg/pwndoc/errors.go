package pwndoc

import (
	"errors"

	"github.com/pwndoc-mcp/pwndoc-go/internal/types"
)

// Error kind sentinels, re-exported for callers. Match with errors.Is.
var (
	// ErrAuthentication is returned for bad or missing credentials, a failed
	// refresh + re-login, or a persistent 401
	ErrAuthentication = types.ErrAuthentication

	// ErrNotFound is returned on HTTP 404; such requests are never retried
	ErrNotFound = types.ErrNotFound

	// ErrRateLimited is returned on HTTP 429 after retry exhaustion
	ErrRateLimited = types.ErrRateLimited
)

// Error is the structured error carried by every client failure
type Error = types.Error

// IsAuthenticationError checks if err is an authentication failure
func IsAuthenticationError(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// IsNotFound checks if err is a not-found failure
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRateLimited checks if err is a rate-limit failure
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
