package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwndoc-mcp/pwndoc-go/internal/auth"
	"github.com/pwndoc-mcp/pwndoc-go/internal/ratelimit"
	"github.com/pwndoc-mcp/pwndoc-go/internal/types"
)

// newTestExecutor wires an executor against serverURL with a recording sleep
// so backoff tests run instantly.
func newTestExecutor(serverURL string, authOpts auth.Options, limiter *ratelimit.Limiter) (*Executor, *[]time.Duration) {
	httpClient := &http.Client{Timeout: 5 * time.Second}
	authOpts.BaseURL = serverURL
	authOpts.HTTPClient = httpClient

	e := NewExecutor(Options{
		BaseURL:    serverURL,
		HTTPClient: httpClient,
		Auth:       auth.NewService(authOpts),
		Limiter:    limiter,
		MaxRetries: 3,
		RetryDelay: time.Second,
	})

	var sleeps []time.Duration
	e.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return e, &sleeps
}

func TestDo_AttachesJWTHeaderAfterLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/login":
			w.Write([]byte(`{"datas":{"token":"T1"}}`))
		case "/api/audits":
			assert.Equal(t, "JWT T1", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.Write([]byte(`{"datas":[{"name":"Q3 pentest"}]}`))
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
		}
	}))
	defer server.Close()

	e, _ := newTestExecutor(server.URL, auth.Options{Username: "a", Password: "b"}, nil)

	result, err := e.Do(context.Background(), http.MethodGet, "/audits", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"datas":[{"name":"Q3 pentest"}]}`, string(result))
}

func TestDo_NotFoundNeverRetries(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	e, sleeps := newTestExecutor(server.URL, auth.Options{Token: "T"}, nil)

	_, err := e.Do(context.Background(), http.MethodGet, "/audits/missing", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, 1, hits, "404 must fail on the first attempt")
	assert.Empty(t, *sleeps, "404 must not back off")
}

func TestDo_RateLimitedRetriesWithDoublingDelays(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	e, sleeps := newTestExecutor(server.URL, auth.Options{Token: "T"}, nil)

	_, err := e.Do(context.Background(), http.MethodGet, "/audits", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrRateLimited)
	assert.Equal(t, 3, hits, "429 retries up to max_retries attempts")

	require.Len(t, *sleeps, 2)
	assert.Equal(t, time.Second, (*sleeps)[0])
	assert.Equal(t, 2*time.Second, (*sleeps)[1], "each backoff doubles the previous")
}

func TestDo_TransportFailureBacksOffThenFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	e, sleeps := newTestExecutor(server.URL, auth.Options{Token: "T"}, nil)

	_, err := e.Do(context.Background(), http.MethodGet, "/audits", nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, types.ErrAuthentication)
	assert.NotErrorIs(t, err, types.ErrNotFound)
	assert.NotErrorIs(t, err, types.ErrRateLimited)

	var apiErr *types.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, types.CodeRequestFailed, apiErr.Code)

	// retry_delay=1.0: attempt 0 sleeps 1000ms, attempt 1 sleeps 2000ms,
	// attempt 2 is terminal
	require.Len(t, *sleeps, 2)
	assert.Equal(t, time.Second, (*sleeps)[0])
	assert.Equal(t, 2*time.Second, (*sleeps)[1])
}

func TestDo_UnauthorizedRefreshesOnceThenSucceeds(t *testing.T) {
	var refreshes, auditHits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/login":
			http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "R1"})
			w.Write([]byte(`{"datas":{"token":"T1"}}`))
		case "/api/users/refreshtoken":
			refreshes++
			w.Write([]byte(`{"datas":{"token":"T2"}}`))
		case "/api/audits":
			auditHits++
			if r.Header.Get("Authorization") == "JWT T2" {
				w.Write([]byte(`{"datas":[]}`))
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer server.Close()

	e, sleeps := newTestExecutor(server.URL, auth.Options{Username: "a", Password: "b"}, nil)

	result, err := e.Do(context.Background(), http.MethodGet, "/audits", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"datas":[]}`, string(result))
	assert.Equal(t, 1, refreshes, "exactly one refresh cycle")
	assert.Equal(t, 2, auditHits, "original request retried once after refresh")
	assert.Empty(t, *sleeps, "the 401 path does not back off")
}

func TestDo_UnauthorizedWithoutRecoveryFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	// static token: no refresh token, no credentials to fall back on
	e, _ := newTestExecutor(server.URL, auth.Options{Token: "stale"}, nil)

	_, err := e.Do(context.Background(), http.MethodGet, "/audits", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrAuthentication)
}

func TestDo_EmptySuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	e, _ := newTestExecutor(server.URL, auth.Options{Token: "T"}, nil)

	result, err := e.Do(context.Background(), http.MethodDelete, "/audits/1", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true}`, string(result))
}

func TestDo_NonJSONSuccessBodyIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>proxy error page</html>"))
	}))
	defer server.Close()

	e, _ := newTestExecutor(server.URL, auth.Options{Token: "T"}, nil)

	_, err := e.Do(context.Background(), http.MethodGet, "/audits", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse JSON response")
}

func TestDo_SendsJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := make([]byte, r.ContentLength)
		r.Body.Read(body)
		assert.JSONEq(t, `{"name":"Internal audit","language":"en"}`, string(body))
		w.Write([]byte(`{"datas":{"_id":"a1"}}`))
	}))
	defer server.Close()

	e, _ := newTestExecutor(server.URL, auth.Options{Token: "T"}, nil)

	_, err := e.Do(context.Background(), http.MethodPost, "/audits",
		map[string]string{"name": "Internal audit", "language": "en"})
	require.NoError(t, err)
}

func TestErrorDetail_Extraction(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{
			name:     "datas field",
			status:   400,
			body:     `{"datas":"Audit name already exists"}`,
			expected: `HTTP 400: "Audit name already exists"`,
		},
		{
			name:     "message field",
			status:   403,
			body:     `{"message":"Insufficient privileges"}`,
			expected: "HTTP 403: Insufficient privileges",
		},
		{
			name:     "raw body when not JSON",
			status:   500,
			body:     "internal error",
			expected: "HTTP 500: internal error",
		},
		{
			name:     "empty body",
			status:   500,
			body:     "",
			expected: "HTTP 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errorDetail(tt.status, []byte(tt.body)))
		})
	}
}

func TestDo_GenericAPIErrorCarriesDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Invalid audit type"}`))
	}))
	defer server.Close()

	e, _ := newTestExecutor(server.URL, auth.Options{Token: "T"}, nil)

	_, err := e.Do(context.Background(), http.MethodPost, "/audits", map[string]string{})
	require.Error(t, err)

	var apiErr *types.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, types.CodeAPIError, apiErr.Code)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "Invalid audit type")
}

func TestDo_RateLimiterIsBestEffort(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	limiter := ratelimit.New(1, time.Minute)
	e, sleeps := newTestExecutor(server.URL, auth.Options{Token: "T"}, limiter)

	_, err := e.Do(context.Background(), http.MethodGet, "/audits", nil)
	require.NoError(t, err)
	assert.Empty(t, *sleeps)

	// window is full: the executor waits once, then proceeds anyway
	_, err = e.Do(context.Background(), http.MethodGet, "/audits", nil)
	require.NoError(t, err)
	require.Len(t, *sleeps, 1)
	assert.Greater(t, (*sleeps)[0], time.Duration(0))
	assert.LessOrEqual(t, (*sleeps)[0], time.Minute)
	assert.Equal(t, 2, hits, "throttling is advisory, the request still goes out")
}

func TestRaw_DownloadsBinaryPayload(t *testing.T) {
	payload := []byte{0x50, 0x4b, 0x03, 0x04, 0x00} // docx magic
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/audits/a1/generate", r.URL.Path)
		assert.Equal(t, "JWT T", r.Header.Get("Authorization"))
		w.Write(payload)
	}))
	defer server.Close()

	e, _ := newTestExecutor(server.URL, auth.Options{Token: "T"}, nil)

	data, err := e.Raw(context.Background(), http.MethodGet, "/audits/a1/generate")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestRaw_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	e, _ := newTestExecutor(server.URL, auth.Options{Token: "T"}, nil)

	_, err := e.Raw(context.Background(), http.MethodGet, "/templates/download/missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotFound)
}
