package model

import "github.com/google/uuid"

// WebhookPayload is the message body inside a WAHA webhook event. Only the
// fields the service consumes are modeled; the gateway sends many more.
type WebhookPayload struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	From      string `json:"from"`
	To        string `json:"to,omitempty"`
	FromMe    bool   `json:"fromMe"`
	Body      string `json:"body"`
	HasMedia  bool   `json:"hasMedia"`
}

// WebhookRequest is an inbound event from the WAHA gateway.
type WebhookRequest struct {
	ID        string         `json:"id"`
	Timestamp int64          `json:"timestamp"`
	Session   string         `json:"session"`
	Event     string         `json:"event"`
	Payload   WebhookPayload `json:"payload"`
}

// WebhookResponse acknowledges a processed webhook.
type WebhookResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// OrderItemRequest is one line item in an order webhook.
type OrderItemRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Qty         *int     `json:"qty,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Note        *string  `json:"note,omitempty"`
}

// OrderRequest is one order inside a (bulk) order webhook.
type OrderRequest struct {
	Category       string             `json:"category"`
	Items          []OrderItemRequest `json:"items"`
	Note           *string            `json:"note,omitempty"`
	AdditionalNote *string            `json:"additional_note,omitempty"`
}

// OrderWebhookRequest creates one or more orders bound to a session.
type OrderWebhookRequest struct {
	SessionID uuid.UUID      `json:"session_id"`
	Orders    []OrderRequest `json:"orders"`
}

// OrderWebhookResponse reports the created order numbers.
type OrderWebhookResponse struct {
	Status       string   `json:"status"`
	Message      string   `json:"message"`
	OrderNumbers []string `json:"order_numbers"`
}

// SendMessageRequest is the operator-initiated relay request.
type SendMessageRequest struct {
	SessionID uuid.UUID `json:"session_id"`
	Message   string    `json:"message"`
}
