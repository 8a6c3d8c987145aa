// Package waha is a client for the WAHA WhatsApp HTTP gateway.
package waha

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/config"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/phone"
	"github.com/Voldemort-Project/mta-sga-cs-service/pkg/logger"
	"github.com/Voldemort-Project/mta-sga-cs-service/pkg/metrics"
)

// Client sends WhatsApp messages through a WAHA instance.
type Client struct {
	baseURL  string
	sendPath string
	session  string
	apiKey   string
	client   *http.Client
	log      *logger.Logger
}

// NewClient builds a WAHA client from config.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		baseURL:  cfg.WahaBaseURL,
		sendPath: cfg.WahaAPIPath,
		session:  cfg.WahaSession,
		apiKey:   cfg.WahaAPIKey,
		client:   &http.Client{Timeout: cfg.WahaTimeout},
		log:      log,
	}
}

type sendTextRequest struct {
	ChatID      string `json:"chatId"`
	Text        string `json:"text"`
	LinkPreview bool   `json:"linkPreview"`
	Session     string `json:"session"`
}

type startTypingRequest struct {
	ChatID  string `json:"chatId"`
	Session string `json:"session"`
}

// SendText delivers a text message to the guest's WhatsApp number. The phone
// may be in local or international format.
func (c *Client) SendText(ctx context.Context, phoneNumber, text string) error {
	body := sendTextRequest{
		ChatID:      phone.ChatID(phoneNumber),
		Text:        text,
		LinkPreview: false,
		Session:     c.session,
	}

	err := c.post(ctx, c.sendPath, body)
	metrics.RecordGatewaySend(err)
	if err != nil {
		return fmt.Errorf("waha send text: %w", err)
	}
	return nil
}

// StartTyping shows the typing indicator to the guest while a reply is being
// prepared. Failures are logged, not returned, since the indicator is
// cosmetic.
func (c *Client) StartTyping(ctx context.Context, phoneNumber string) {
	body := startTypingRequest{
		ChatID:  phone.ChatID(phoneNumber),
		Session: c.session,
	}
	if err := c.post(ctx, "/api/startTyping", body); err != nil {
		c.log.Warn("waha start typing failed", zap.Error(err))
	}
}

func (c *Client) post(ctx context.Context, path string, body any) error {
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
		req.Header.Set("X-Api-Key", c.apiKey)
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
	return nil
}
