package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &client{http: srv.Client(), apiURL: srv.URL, apiKey: "k"}
}

func TestClientDo_StatusErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"api error", http.StatusUnauthorized,
			`{"success": false, "error": {"code": "UNAUTHORIZED", "message": "invalid API key"}}`,
			"GET /test_data: HTTP 401: UNAUTHORIZED: invalid API key"},
		{"rate limited", http.StatusTooManyRequests,
			`{"error": {"code": "RATE_LIMITED", "message": "slow down"}}`,
			"HTTP 429: RATE_LIMITED: slow down"},
		{"plain text", http.StatusBadGateway, "upstream down\n", "GET /test_data: HTTP 502: upstream down"},
		{"empty", http.StatusInternalServerError, "", "GET /test_data: HTTP 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "k", r.Header.Get("X-API-Key"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			body, err := c.do(context.Background(), http.MethodGet, "/test_data", nil)
			require.Error(t, err)
			assert.Nil(t, body)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestClientDo_OK(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"success": true}`))
	})

	body, err := c.do(context.Background(), http.MethodPost, "/api/v1/test-data", map[string]any{"id": "1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success": true}`, string(body))
}

func TestScrape_ErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
		_, _ = w.Write([]byte(`{"success": false, "error": {"code": "SCRAPE_TIMEOUT", "message": "page fetch timed out"}}`))
	})

	_, err := c.scrape(context.Background(), "https://acme.test/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCRAPE_TIMEOUT")
}

func TestGetTestData_NotFoundIsToolError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success": false, "error": {"code": "NOT_FOUND", "message": "test data file not found"}}`))
	})

	res, err := c.handleGetTestData(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestGetTestData_OK(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"type": "keyword"}]`))
	})

	res, err := c.handleGetTestData(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.False(t, res.IsError)
}
