package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vincentbai/usageanalytics/internal/models"
)

type capturedRequest struct {
	method        string
	path          string
	contentType   string
	authorization string
	body          map[string]any
}

func setupTestServer(t *testing.T, status int, reply string) (*httptest.Server, *capturedRequest, *int32) {
	t.Helper()

	captured := &capturedRequest{}
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.contentType = r.Header.Get("Content-Type")
		captured.authorization = r.Header.Get("Authorization")
		if r.Body != nil {
			data, _ := io.ReadAll(r.Body)
			if len(data) > 0 {
				_ = json.Unmarshal(data, &captured.body)
			}
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)

	return server, captured, &calls
}

func TestSendPostsJSON(t *testing.T) {
	server, captured, _ := setupTestServer(t, http.StatusOK, `{"visitId":"visit-id"}`)
	transport := NewHTTPTransport(Options{Endpoint: server.URL + "/", Token: "secret"})

	resp, err := transport.Send(context.Background(), "search", models.EventRequest{"queryText": "q"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"visitId":"visit-id"}`, string(resp.Body))
	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "/analytics/search", captured.path)
	assert.Equal(t, "application/json", captured.contentType)
	assert.Equal(t, "Bearer secret", captured.authorization)
	assert.Equal(t, map[string]any{"queryText": "q"}, captured.body)
}

func TestSendWithoutToken(t *testing.T) {
	server, captured, _ := setupTestServer(t, http.StatusOK, `{}`)
	transport := NewHTTPTransport(Options{Endpoint: server.URL})

	_, err := transport.Send(context.Background(), "view", models.EventRequest{})
	require.NoError(t, err)

	assert.Empty(t, captured.authorization)
}

func TestFetch(t *testing.T) {
	tests := []struct {
		path     string
		wantPath string
	}{
		{path: "visit", wantPath: "/analytics/visit"},
		{path: "/monitoring/health", wantPath: "/analytics/monitoring/health"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			server, captured, _ := setupTestServer(t, http.StatusOK, `{"status":"online"}`)
			transport := NewHTTPTransport(Options{Endpoint: server.URL})

			resp, err := transport.Fetch(context.Background(), tt.path)
			require.NoError(t, err)

			assert.Equal(t, http.MethodGet, captured.method)
			assert.Equal(t, tt.wantPath, captured.path)
			assert.Nil(t, captured.body)
			assert.JSONEq(t, `{"status":"online"}`, string(resp.Body))
		})
	}
}

func TestSendNonSuccessStatusIsNotRetried(t *testing.T) {
	server, _, calls := setupTestServer(t, http.StatusServiceUnavailable, "try later")
	transport := NewHTTPTransport(Options{Endpoint: server.URL})

	_, err := transport.Send(context.Background(), "click", models.EventRequest{})
	require.Error(t, err)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.StatusServiceUnavailable, transportErr.StatusCode)
	assert.Equal(t, "try later", transportErr.Body)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestSendNetworkFailure(t *testing.T) {
	server, _, _ := setupTestServer(t, http.StatusOK, `{}`)
	endpoint := server.URL
	server.Close()

	transport := NewHTTPTransport(Options{Endpoint: endpoint})
	_, err := transport.Send(context.Background(), "custom", models.EventRequest{})
	require.Error(t, err)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Zero(t, transportErr.StatusCode)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestSendTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	transport := NewHTTPTransport(Options{Endpoint: server.URL, Timeout: 20 * time.Millisecond})
	_, err := transport.Send(context.Background(), "search", models.EventRequest{})
	assert.ErrorIs(t, err, ErrTransport)
}

func TestSendUnmarshalableBody(t *testing.T) {
	transport := NewHTTPTransport(Options{Endpoint: "http://127.0.0.1:1"})

	_, err := transport.Send(context.Background(), "search", models.EventRequest{"bad": make(chan int)})
	assert.ErrorIs(t, err, ErrTransport)
}
