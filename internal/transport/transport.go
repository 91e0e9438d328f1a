// Package transport executes PwnDoc API requests: it applies the
// authentication check, cooperative rate limiting, and the retry policy
// (exponential backoff on transport failures and 429, token refresh on 401,
// immediate failure on 404).
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"

	"github.com/pwndoc-mcp/pwndoc-go/internal/auth"
	"github.com/pwndoc-mcp/pwndoc-go/internal/ratelimit"
	"github.com/pwndoc-mcp/pwndoc-go/internal/types"
)

const contentType = "application/json"

// Executor issues HTTP requests against the PwnDoc API. It is not safe for
// concurrent use: session and rate-window state are mutated without locking,
// so concurrent callers must serialize around Do.
type Executor struct {
	baseURL    string
	httpClient *http.Client
	auth       *auth.Service
	limiter    *ratelimit.Limiter

	maxRetries   int
	retryDelay   time.Duration
	retryWaitMax time.Duration

	logger types.Logger
	hooks  *types.Hooks

	// sleep is swapped out in tests
	sleep func(time.Duration)
}

// Options configures an Executor
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Auth       *auth.Service
	Limiter    *ratelimit.Limiter

	MaxRetries int
	RetryDelay time.Duration

	// RetryWaitMax caps a single backoff sleep. Defaults to 30s.
	RetryWaitMax time.Duration

	Logger types.Logger
	Hooks  *types.Hooks
}

// NewExecutor creates a request executor
func NewExecutor(opts Options) *Executor {
	logger := opts.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = types.DefaultMaxRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = types.DefaultRetryDelay
	}
	if opts.RetryWaitMax <= 0 {
		opts.RetryWaitMax = 30 * time.Second
	}

	return &Executor{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		httpClient:   opts.HTTPClient,
		auth:         opts.Auth,
		limiter:      opts.Limiter,
		maxRetries:   opts.MaxRetries,
		retryDelay:   opts.RetryDelay,
		retryWaitMax: opts.RetryWaitMax,
		logger:       logger,
		hooks:        opts.Hooks,
		sleep:        time.Sleep,
	}
}

// apiURL builds the full request URL under the /api prefix
func (e *Executor) apiURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return e.baseURL + "/api" + path
}

// Do executes an API request and returns the parsed JSON response body.
// An empty success body is reported as {"success":true}. Failures carry one
// of the error kinds from internal/types.
func (e *Executor) Do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	if err := e.auth.EnsureAuthenticated(ctx); err != nil {
		return nil, err
	}
	e.acquireSlot()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal request body")
		}
	}

	url := e.apiURL(path)
	reqID := uuid.NewString()
	e.logger.Debug("API request", "id", reqID, "method", method, "url", url)

	var lastErr error
	for attempt := 0; attempt < e.maxRetries; attempt++ {
		resp, respBody, err := e.doAttempt(ctx, method, url, payload)
		if err != nil {
			lastErr = err
			if attempt < e.maxRetries-1 {
				e.backoff(attempt, reqID, fmt.Sprintf("request failed: %v", err))
				continue
			}
			return nil, types.NewRequestError(fmt.Sprintf("request failed: %v", err), err)
		}

		e.logger.Debug("API response", "id", reqID, "status", resp.StatusCode, "size", len(respBody))

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			e.logger.Warn("Received 401 Unauthorized, attempting token refresh", "id", reqID)
			if e.auth.CanRefresh() && e.auth.Refresh(ctx) {
				continue
			}
			if e.auth.HasCredentials() {
				if err := e.auth.Authenticate(ctx); err != nil {
					return nil, err
				}
				continue
			}
			return nil, types.NewAuthenticationError("authentication failed (401 Unauthorized)")

		case resp.StatusCode == http.StatusNotFound:
			return nil, types.NewNotFoundError(path)

		case resp.StatusCode == http.StatusTooManyRequests:
			if attempt < e.maxRetries-1 {
				e.backoff(attempt, reqID, "rate limited by server (429)")
				continue
			}
			return nil, types.NewRateLimitError("rate limit exceeded (429 Too Many Requests)")

		case resp.StatusCode >= 400:
			return nil, types.NewAPIError(resp.StatusCode, errorDetail(resp.StatusCode, respBody))
		}

		if len(respBody) == 0 {
			return json.RawMessage(`{"success":true}`), nil
		}
		if !json.Valid(respBody) {
			return nil, types.NewRequestError("failed to parse JSON response", nil)
		}
		return json.RawMessage(respBody), nil
	}

	msg := fmt.Sprintf("request failed after %d retries", e.maxRetries)
	if lastErr != nil {
		msg = fmt.Sprintf("%s: %v", msg, lastErr)
	}
	return nil, types.NewRequestError(msg, lastErr)
}

// Raw fetches a binary payload (report, template, or image download) with an
// authenticated single-shot request, bypassing JSON decoding and the retry
// loop.
func (e *Executor) Raw(ctx context.Context, method, path string) ([]byte, error) {
	if err := e.auth.EnsureAuthenticated(ctx); err != nil {
		return nil, err
	}
	e.acquireSlot()

	url := e.apiURL(path)
	resp, body, err := e.doAttempt(ctx, method, url, nil)
	if err != nil {
		return nil, types.NewRequestError(fmt.Sprintf("request failed: %v", err), err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, types.NewAuthenticationError("authentication failed (401 Unauthorized)")
	case resp.StatusCode == http.StatusNotFound:
		return nil, types.NewNotFoundError(path)
	case resp.StatusCode >= 400:
		return nil, types.NewAPIError(resp.StatusCode, errorDetail(resp.StatusCode, body))
	}
	return body, nil
}

// doAttempt performs one HTTP exchange and drains the response body
func (e *Executor) doAttempt(ctx context.Context, method, url string, payload []byte) (*http.Response, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentType)
	req.Header.Set("User-Agent", types.UserAgent)
	if token := e.auth.Token(); token != "" {
		req.Header.Set("Authorization", "JWT "+token)
	}

	if e.hooks != nil && e.hooks.OnRequest != nil {
		e.hooks.OnRequest(ctx, req)
	}

	start := time.Now()
	resp, err := e.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		if e.hooks != nil && e.hooks.OnError != nil {
			e.hooks.OnError(ctx, err)
		}
		return nil, nil, err
	}
	defer resp.Body.Close()

	if e.hooks != nil && e.hooks.OnResponse != nil {
		e.hooks.OnResponse(ctx, resp, duration)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return resp, body, nil
}

// acquireSlot applies cooperative rate limiting: a failed acquisition sleeps
// the limiter's wait time and re-attempts exactly once. A second failure is
// not an error — the request proceeds anyway.
func (e *Executor) acquireSlot() {
	if e.limiter == nil || e.limiter.Acquire() {
		return
	}
	if wait := e.limiter.WaitTime(); wait > 0 {
		e.logger.Warn("Rate limit reached, waiting", "wait", wait)
		e.sleep(wait)
	}
	e.limiter.Acquire()
}

// backoff sleeps retryDelay * 2^attempt, capped at retryWaitMax
func (e *Executor) backoff(attempt int, reqID, reason string) {
	delay := retryablehttp.DefaultBackoff(e.retryDelay, e.retryWaitMax, attempt, nil)
	e.logger.Warn(reason, "id", reqID, "attempt", attempt+1, "max", e.maxRetries, "backoff", delay)
	e.sleep(delay)
}

// errorDetail extracts a human-readable message from an error response body:
// the datas field, then message, then the raw body when it is not JSON.
func errorDetail(status int, body []byte) string {
	detail := fmt.Sprintf("HTTP %d", status)

	var errResp struct {
		Datas   json.RawMessage `json:"datas"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		if len(errResp.Datas) > 0 && string(errResp.Datas) != "null" {
			return detail + ": " + string(errResp.Datas)
		}
		if errResp.Message != "" {
			return detail + ": " + errResp.Message
		}
		return detail
	}

	if len(body) > 0 {
		return detail + ": " + string(body)
	}
	return detail
}
