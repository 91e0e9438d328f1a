package types

import "time"

const (
	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the default number of request attempts
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the base delay for exponential backoff
	DefaultRetryDelay = time.Second

	// DefaultRateLimitRequests is the default sliding-window quota
	DefaultRateLimitRequests = 100

	// DefaultRateLimitPeriod is the default sliding-window period
	DefaultRateLimitPeriod = 60 * time.Second

	// TokenTTL is how long an access token obtained from login or refresh
	// is assumed valid before a refresh is attempted
	TokenTTL = time.Hour

	// RefreshCookieName is the cookie carrying the refresh token. The name
	// is a wire contract with the PwnDoc backend.
	RefreshCookieName = "refreshToken"

	// UserAgent is the user agent string
	UserAgent = "pwndoc-go/1.0.0"
)
