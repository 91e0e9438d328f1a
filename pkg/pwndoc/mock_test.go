package pwndoc

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"
)

// mockTransport replaces the request executor in service tests
type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) Do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	args := m.Called(ctx, method, path, body)
	if raw := args.Get(0); raw != nil {
		return raw.(json.RawMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTransport) Raw(ctx context.Context, method, path string) ([]byte, error) {
	args := m.Called(ctx, method, path)
	if content := args.Get(0); content != nil {
		return content.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

// newMockedClient builds a client whose transport is the given mock
func newMockedClient(trans Transport) *Client {
	cfg := DefaultConfig()
	cfg.URL = "https://pwndoc.example.com"
	cfg.Token = "test-token"
	cfg.Timeout = 5 * time.Second

	client, err := NewClient(cfg, &ClientOptions{Transport: trans})
	if err != nil {
		panic(err)
	}
	return client
}

// datas wraps a JSON literal in the API response envelope
func datas(literal string) json.RawMessage {
	return json.RawMessage(`{"datas":` + literal + `}`)
}
