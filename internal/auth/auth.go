// Package auth manages the PwnDoc session lifecycle: login, cookie-based
// token refresh, and the pre-request authentication check.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/pwndoc-mcp/pwndoc-go/internal/types"
)

const (
	loginEndpoint   = "/api/users/login"
	refreshEndpoint = "/api/users/refreshtoken"
)

// Service handles authentication against a PwnDoc server. It is the only
// component that mutates the session.
type Service struct {
	baseURL    string
	httpClient *http.Client
	username   string
	password   string
	static     bool
	session    *types.Session
	logger     types.Logger
}

// Options configures the auth service
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Username   string
	Password   string

	// Token is a pre-issued JWT. When set it is used verbatim and the
	// login/refresh lifecycle is bypassed entirely.
	Token string

	Logger types.Logger
}

// NewService creates a new auth service
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}

	s := &Service{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		username:   opts.Username,
		password:   opts.Password,
		session:    &types.Session{},
		logger:     logger,
	}

	if opts.Token != "" {
		s.session.Token = opts.Token
		s.static = true
		s.logger.Debug("Using pre-issued token, expiry tracking disabled")
	}

	return s
}

// Session returns the current session state
func (s *Service) Session() *types.Session {
	return s.session
}

// Token returns the current access token, empty when unauthenticated
func (s *Service) Token() string {
	return s.session.Token
}

// HasCredentials reports whether a username/password pair is configured
func (s *Service) HasCredentials() bool {
	return s.username != "" && s.password != ""
}

// CanRefresh reports whether a refresh token has been captured
func (s *Service) CanRefresh() bool {
	return s.session.RefreshToken != ""
}

// EnsureAuthenticated guarantees a usable token before a request. An expired
// token is refreshed, falling back to a full login; an absent token triggers
// a login when credentials exist. A pre-issued token short-circuits the whole
// check.
func (s *Service) EnsureAuthenticated(ctx context.Context) error {
	if s.static {
		return nil
	}

	if s.session.Token != "" && s.session.Expired() {
		s.logger.Debug("Token expired, refreshing authentication")
		if s.CanRefresh() && s.Refresh(ctx) {
			return nil
		}
		s.logger.Warn("Token refresh unavailable or failed, re-authenticating")
		return s.Authenticate(ctx)
	}

	if s.session.Token == "" {
		if s.HasCredentials() {
			return s.Authenticate(ctx)
		}
		return types.NewAuthenticationError("no authentication credentials provided")
	}

	return nil
}

// Authenticate performs a username/password login and stores the resulting
// access token, its expiry, and the refresh token from the response cookie.
func (s *Service) Authenticate(ctx context.Context) error {
	if !s.HasCredentials() {
		return types.NewAuthenticationError("username and password required for authentication")
	}

	s.logger.Info("Authenticating user", "username", s.username)

	body, err := json.Marshal(map[string]string{
		"username": s.username,
		"password": s.password,
	})
	if err != nil {
		return errors.Wrap(err, "failed to marshal login request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+loginEndpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to create login request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", types.UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return types.NewAuthenticationError(fmt.Sprintf("authentication request failed: %v", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.NewAuthenticationError(fmt.Sprintf("failed to read login response: %v", err))
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return types.NewAuthenticationError("invalid username or password")
	}
	if resp.StatusCode >= 400 {
		return types.NewAuthenticationError(fmt.Sprintf("authentication failed with HTTP %d", resp.StatusCode))
	}

	token, err := extractToken(respBody)
	if err != nil {
		return types.NewAuthenticationError("failed to get token from login response")
	}

	s.session.Token = token
	s.session.ExpiresAt = time.Now().Add(types.TokenTTL)

	for _, c := range resp.Cookies() {
		if c.Name == types.RefreshCookieName {
			s.session.RefreshToken = c.Value
			s.logger.Debug("Refresh token obtained from cookies")
		}
	}

	s.logger.Info("Authentication successful")
	return nil
}

// Refresh exchanges the captured refresh token for a new access token. A
// rotated refresh cookie in the response replaces the stored one. Refresh is
// non-fatal: any transport error, non-200 status, or missing token field
// returns false and the caller decides the fallback.
func (s *Service) Refresh(ctx context.Context) bool {
	if !s.CanRefresh() {
		s.logger.Warn("No refresh token available")
		return false
	}

	s.logger.Debug("Refreshing authentication token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+refreshEndpoint, strings.NewReader(""))
	if err != nil {
		s.logger.Warn("Failed to create refresh request", "error", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", types.UserAgent)

	// A cookie jar already carries the refresh cookie captured at login;
	// attach it manually only for jarless clients so it travels exactly once.
	if s.httpClient.Jar == nil {
		req.AddCookie(&http.Cookie{Name: types.RefreshCookieName, Value: s.session.RefreshToken})
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("Token refresh request failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.Warn("Failed to read refresh response", "error", err)
		return false
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("Token refresh failed", "status", resp.StatusCode)
		return false
	}

	token, err := extractToken(respBody)
	if err != nil {
		s.logger.Warn("No token in refresh response")
		return false
	}

	s.session.Token = token
	s.session.ExpiresAt = time.Now().Add(types.TokenTTL)

	for _, c := range resp.Cookies() {
		if c.Name == types.RefreshCookieName {
			s.session.RefreshToken = c.Value
			s.logger.Debug("Refresh token rotated")
		}
	}

	s.logger.Info("Token refreshed successfully")
	return true
}

// extractToken pulls datas.token out of a login or refresh response
func extractToken(body []byte) (string, error) {
	var resp struct {
		Datas struct {
			Token string `json:"token"`
		} `json:"datas"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", errors.Wrap(err, "failed to parse response")
	}
	if resp.Datas.Token == "" {
		return "", errors.New("missing token field")
	}
	return resp.Datas.Token, nil
}
