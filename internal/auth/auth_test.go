package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwndoc-mcp/pwndoc-go/internal/types"
)

func newService(t *testing.T, serverURL, username, password, token string) *Service {
	t.Helper()
	return NewService(Options{
		BaseURL:    serverURL,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
		Username:   username,
		Password:   password,
		Token:      token,
	})
}

func TestAuthenticate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/users/login", r.URL.Path)

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "alice", creds["username"])
		assert.Equal(t, "s3cret", creds["password"])

		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "R1"})
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"datas":{"token":"T1"}}`))
	}))
	defer server.Close()

	s := newService(t, server.URL, "alice", "s3cret", "")

	err := s.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "T1", s.Token())
	assert.Equal(t, "R1", s.Session().RefreshToken)
	assert.False(t, s.Session().ExpiresAt.IsZero(), "expiry must be tracked after login")
	assert.WithinDuration(t, time.Now().Add(time.Hour), s.Session().ExpiresAt, time.Minute)
}

func TestAuthenticate_InvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	s := newService(t, server.URL, "alice", "wrong", "")

	err := s.Authenticate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrAuthentication)
	assert.Contains(t, err.Error(), "invalid username or password")
}

func TestAuthenticate_MissingTokenField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"datas":{}}`))
	}))
	defer server.Close()

	s := newService(t, server.URL, "alice", "s3cret", "")

	err := s.Authenticate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrAuthentication)
}

func TestAuthenticate_NoCredentials(t *testing.T) {
	s := newService(t, "http://localhost:1", "", "", "")

	err := s.Authenticate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrAuthentication)
}

func TestAuthenticate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	s := newService(t, server.URL, "alice", "s3cret", "")

	err := s.Authenticate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrAuthentication)
	assert.Contains(t, err.Error(), "502")
}

func TestRefresh_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/users/refreshtoken", r.URL.Path)

		cookie, err := r.Cookie("refreshToken")
		require.NoError(t, err, "refresh token must travel as a cookie")
		assert.Equal(t, "R1", cookie.Value)

		w.Write([]byte(`{"datas":{"token":"T2"}}`))
	}))
	defer server.Close()

	s := newService(t, server.URL, "alice", "s3cret", "")
	s.session.Token = "T1"
	s.session.RefreshToken = "R1"

	assert.True(t, s.Refresh(context.Background()))
	assert.Equal(t, "T2", s.Token())
}

func TestRefresh_CookieTravelsOnceWithJar(t *testing.T) {
	var cookies []*http.Cookie
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookies = r.Cookies()
		w.Write([]byte(`{"datas":{"token":"T2"}}`))
	}))
	defer server.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	serverURL, err := url.Parse(server.URL)
	require.NoError(t, err)
	jar.SetCookies(serverURL, []*http.Cookie{{Name: "refreshToken", Value: "R1"}})

	s := NewService(Options{
		BaseURL:    server.URL,
		HTTPClient: &http.Client{Jar: jar, Timeout: 5 * time.Second},
		Username:   "alice",
		Password:   "s3cret",
	})
	s.session.Token = "T1"
	s.session.RefreshToken = "R1"

	require.True(t, s.Refresh(context.Background()))

	count := 0
	for _, c := range cookies {
		if c.Name == "refreshToken" {
			count++
			assert.Equal(t, "R1", c.Value)
		}
	}
	assert.Equal(t, 1, count, "the refresh cookie must not be duplicated")
}

func TestRefresh_RotatedCookieReplacesStored(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "R2"})
		w.Write([]byte(`{"datas":{"token":"T2"}}`))
	}))
	defer server.Close()

	s := newService(t, server.URL, "alice", "s3cret", "")
	s.session.Token = "T1"
	s.session.RefreshToken = "R1"

	require.True(t, s.Refresh(context.Background()))
	assert.Equal(t, "T2", s.Token())
	assert.Equal(t, "R2", s.Session().RefreshToken)
}

func TestRefresh_NonFatalFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
		},
		{
			name: "missing token field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"datas":{}}`))
			},
		},
		{
			name: "non-JSON body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("gateway error"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			s := newService(t, server.URL, "alice", "s3cret", "")
			s.session.Token = "T1"
			s.session.RefreshToken = "R1"

			assert.False(t, s.Refresh(context.Background()))
			assert.Equal(t, "T1", s.Token(), "failed refresh must not clobber the current token")
		})
	}
}

func TestRefresh_WithoutRefreshToken(t *testing.T) {
	s := newService(t, "http://localhost:1", "alice", "s3cret", "")
	assert.False(t, s.Refresh(context.Background()))
}

func TestEnsureAuthenticated_StaticTokenIsInert(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer server.Close()

	s := newService(t, server.URL, "", "", "PRE-ISSUED")

	require.NoError(t, s.EnsureAuthenticated(context.Background()))
	require.NoError(t, s.EnsureAuthenticated(context.Background()))
	assert.Equal(t, 0, hits, "a pre-issued token must never trigger login or refresh")
	assert.Equal(t, "PRE-ISSUED", s.Token())
	assert.True(t, s.Session().ExpiresAt.IsZero(), "expiry tracking stays inert")
}

func TestEnsureAuthenticated_LoginWhenNoToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"datas":{"token":"T1"}}`))
	}))
	defer server.Close()

	s := newService(t, server.URL, "alice", "s3cret", "")

	require.NoError(t, s.EnsureAuthenticated(context.Background()))
	assert.Equal(t, "T1", s.Token())
}

func TestEnsureAuthenticated_NoTokenNoCredentials(t *testing.T) {
	s := newService(t, "http://localhost:1", "", "", "")

	err := s.EnsureAuthenticated(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrAuthentication)
}

func TestEnsureAuthenticated_ExpiredTokenRefreshes(t *testing.T) {
	var refreshed bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/refreshtoken":
			refreshed = true
			w.Write([]byte(`{"datas":{"token":"T2"}}`))
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
		}
	}))
	defer server.Close()

	s := newService(t, server.URL, "alice", "s3cret", "")
	s.session.Token = "T1"
	s.session.RefreshToken = "R1"
	s.session.ExpiresAt = time.Now().Add(-time.Minute)

	require.NoError(t, s.EnsureAuthenticated(context.Background()))
	assert.True(t, refreshed)
	assert.Equal(t, "T2", s.Token())
}

func TestEnsureAuthenticated_RefreshFailureFallsBackToLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/refreshtoken":
			w.WriteHeader(http.StatusUnauthorized)
		case "/api/users/login":
			w.Write([]byte(`{"datas":{"token":"T3"}}`))
		}
	}))
	defer server.Close()

	s := newService(t, server.URL, "alice", "s3cret", "")
	s.session.Token = "T1"
	s.session.RefreshToken = "R1"
	s.session.ExpiresAt = time.Now().Add(-time.Minute)

	require.NoError(t, s.EnsureAuthenticated(context.Background()))
	assert.Equal(t, "T3", s.Token())
}
