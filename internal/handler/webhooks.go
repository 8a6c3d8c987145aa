package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/apierr"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/middleware"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/model"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/service"
	"github.com/Voldemort-Project/mta-sga-cs-service/pkg/logger"
)

// WebhookHandler handles the inbound webhook endpoints.
type WebhookHandler struct {
	conversations *service.ConversationService
	orders        *service.OrderService
	relay         *service.RelayService
	logger        *logger.Logger
	debug         bool
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(conv *service.ConversationService, orders *service.OrderService, relay *service.RelayService, log *logger.Logger, debug bool) *WebhookHandler {
	return &WebhookHandler{
		conversations: conv,
		orders:        orders,
		relay:         relay,
		logger:        log,
		debug:         debug,
	}
}

// Waha handles POST /api/v1/webhook/waha.
//
// The gateway retries on non-2xx, so processing failures for a single
// message are logged and acknowledged rather than surfaced.
func (h *WebhookHandler) Waha(w http.ResponseWriter, r *http.Request) {
	var req model.WebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.WebhookResponse{
			Status:  "error",
			Message: "invalid request body",
		})
		return
	}

	if req.Event != "message" {
		writeJSON(w, http.StatusOK, model.WebhookResponse{
			Status:  "ignored",
			Message: "unsupported event type",
		})
		return
	}

	if err := h.conversations.HandleWebhook(r.Context(), &req); err != nil {
		h.logger.Error("webhook processing failed",
			zap.String("message_id", req.Payload.ID), zap.Error(err))
	}

	writeJSON(w, http.StatusOK, model.WebhookResponse{
		Status:  "success",
		Message: "message processed",
	})
}

// Orders handles POST /api/v1/webhook/orders.
func (h *WebhookHandler) Orders(w http.ResponseWriter, r *http.Request) {
	var req model.OrderWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.OrderWebhookResponse{
			Status:  "error",
			Message: "invalid request body",
		})
		return
	}

	resp, err := h.orders.CreateFromWebhook(r.Context(), &req)
	if err != nil {
		writeAPIError(w, err, h.debug)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Messages handles POST /api/v1/webhook/messages, the operator/agent
// initiated message relay.
func (h *WebhookHandler) Messages(w http.ResponseWriter, r *http.Request) {
	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, apierr.BadRequest("Invalid request body."), h.debug)
		return
	}

	if err := middleware.ValidateMessageContent(req.Message); err != nil {
		writeAPIError(w, apierr.Validation(err.Error()), h.debug)
		return
	}

	if err := h.relay.Send(r.Context(), req.SessionID, req.Message); err != nil {
		writeAPIError(w, err, h.debug)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "message sent",
	})
}
