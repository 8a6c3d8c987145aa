package agentrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&config.Config{
		AgentRouterBaseURL: baseURL,
		AgentRouterAPIKey:  "token",
	})
}

func TestCreateAgent(t *testing.T) {
	var got createAgentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/agents", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	err := c.CreateAgent(context.Background(), "sess-1", "room_service")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", got.IdentifierID)
	assert.Equal(t, "room_service", got.Category)
}

func TestCreateAgentFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "router down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	err := c.CreateAgent(context.Background(), "sess-1", "room_service")
	assert.ErrorContains(t, err, "status 502")
}

func TestSendChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/chat", r.URL.Path)
		var got chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "sess-1", got.IdentifierID)
		assert.Equal(t, "towels please", got.Message)
		_ = json.NewEncoder(w).Encode(chatResponse{Reply: "On the way."})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	reply, err := c.SendChat(context.Background(), "sess-1", "towels please")
	require.NoError(t, err)
	assert.Equal(t, "On the way.", reply)
}

func TestSendChatEmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"reply": ""})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	reply, err := c.SendChat(context.Background(), "sess-1", "hi")
	require.NoError(t, err)
	assert.Empty(t, reply)
}

func TestAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.True(t, newTestClient(srv.URL).Available(context.Background()))
	srv.Close()
	assert.False(t, newTestClient(srv.URL).Available(context.Background()))
}
