// Package agentrouter is a client for the H2H agent router, the upstream
// service that provisions and runs the conversational agents.
package agentrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/config"
)

// Client talks to the agent router over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient builds an agent router client from config. The HTTP client
// carries no timeout of its own; callers bound each call through ctx, since
// chat relays are allowed to run much longer than provisioning calls.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.AgentRouterBaseURL,
		apiKey:  cfg.AgentRouterAPIKey,
		client:  &http.Client{},
	}
}

type createAgentRequest struct {
	IdentifierID string `json:"identifier_id"`
	Category     string `json:"category"`
}

type chatRequest struct {
	IdentifierID string `json:"identifier_id"`
	Message      string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// CreateAgent provisions an agent for a session under the given category.
// The session ID is the agent's identifier on the router side.
func (c *Client) CreateAgent(ctx context.Context, sessionID, category string) error {
	body := createAgentRequest{IdentifierID: sessionID, Category: category}
	if err := c.post(ctx, "/api/v1/agents", body, nil); err != nil {
		return fmt.Errorf("create agent: %w", err)
	}
	return nil
}

// SendChat relays a guest message to the session's agent and returns the
// agent's reply text. An empty reply means the agent had nothing to say.
func (c *Client) SendChat(ctx context.Context, sessionID, message string) (string, error) {
	body := chatRequest{IdentifierID: sessionID, Message: message}
	var out chatResponse
	if err := c.post(ctx, "/api/v1/chat", body, &out); err != nil {
		return "", fmt.Errorf("send chat: %w", err)
	}
	return out.Reply, nil
}

// Available reports whether the router answers its health endpoint.
func (c *Client) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, detail)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
