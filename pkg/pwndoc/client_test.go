package pwndoc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer runs a minimal PwnDoc instance: login issues token T1 and the
// remaining endpoints require it.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Username != "alice" || creds.Password != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"datas":{"token":"T1"}}`))
	})
	mux.HandleFunc("/api/users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "JWT T1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"datas":{"_id":"u1","username":"alice","role":"admin"}}`))
	})
	mux.HandleFunc("/api/audits", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "JWT T1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"datas":[{"_id":"a1","name":"Q3 External"},{"_id":"a2","name":"Q3 Internal"}]}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()

	cfg := DefaultConfig()
	cfg.URL = server.URL
	cfg.Username = "alice"
	cfg.Password = "s3cret"
	cfg.Timeout = 5 * time.Second

	client, err := NewClient(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestNewClient_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()

	_, err := NewClient(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "PWNDOC_URL is required")
}

func TestNewClient_NilConfig(t *testing.T) {
	_, err := NewClient(nil, nil)
	require.Error(t, err)
}

func TestClient_LoginThenRequest(t *testing.T) {
	server := newTestServer(t)
	client := newTestClient(t, server)

	audits, err := client.Audits.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, audits, 2)
	assert.Equal(t, "a1", audits[0].ID)
	assert.Equal(t, "Q3 External", audits[0].Name)

	session := client.Session()
	assert.Equal(t, "T1", session.Token)
}

func TestClient_TestConnection(t *testing.T) {
	server := newTestServer(t)
	client := newTestClient(t, server)

	status := client.TestConnection(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "alice", status.User)
	assert.Equal(t, server.URL, status.URL)
	assert.Empty(t, status.Error)
}

func TestClient_TestConnection_BadCredentials(t *testing.T) {
	server := newTestServer(t)

	cfg := DefaultConfig()
	cfg.URL = server.URL
	cfg.Username = "alice"
	cfg.Password = "wrong"
	cfg.Timeout = 5 * time.Second

	client, err := NewClient(cfg, nil)
	require.NoError(t, err)
	defer client.Close()

	status := client.TestConnection(context.Background())
	assert.Equal(t, "error", status.Status)
	assert.Contains(t, status.Error, "invalid username or password")
	assert.Empty(t, status.User)
}

func TestClient_Statistics_PartialAccess(t *testing.T) {
	trans := &mockTransport{}
	client := newMockedClient(trans)
	ctx := context.Background()

	trans.On("Do", ctx, http.MethodGet, "/audits", nil).
		Return(datas(`[{"_id":"a1","name":"A"},{"_id":"a2","name":"B"}]`), nil)
	trans.On("Do", ctx, http.MethodGet, "/clients", nil).
		Return(datas(`[{"_id":"c1","email":"x@y.z"}]`), nil)
	trans.On("Do", ctx, http.MethodGet, "/companies", nil).
		Return(datas(`[{"_id":"co1","name":"Acme"}]`), nil)
	trans.On("Do", ctx, http.MethodGet, "/vulnerabilities", nil).
		Return(datas(`[{"_id":"v1"},{"_id":"v2"},{"_id":"v3"}]`), nil)
	// non-admin callers cannot list users
	trans.On("Do", ctx, http.MethodGet, "/users", nil).
		Return(nil, ErrAuthentication)

	stats, err := client.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Audits)
	assert.Equal(t, 1, stats.Clients)
	assert.Equal(t, 1, stats.Companies)
	assert.Equal(t, 3, stats.VulnerabilityTemplates)
	assert.Equal(t, 0, stats.Users, "inaccessible collections count as zero")
}

func TestErrorHelpers(t *testing.T) {
	assert.True(t, IsAuthenticationError(ErrAuthentication))
	assert.True(t, IsNotFound(ErrNotFound))
	assert.True(t, IsRateLimited(ErrRateLimited))
	assert.False(t, IsNotFound(ErrAuthentication))
}
