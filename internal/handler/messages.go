package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/apierr"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/service"
	"github.com/Voldemort-Project/mta-sga-cs-service/pkg/logger"
)

// MessageHandler handles conversation history endpoints.
type MessageHandler struct {
	messages *service.MessageService
	logger   *logger.Logger
	debug    bool
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(messages *service.MessageService, log *logger.Logger, debug bool) *MessageHandler {
	return &MessageHandler{messages: messages, logger: log, debug: debug}
}

// List handles GET /api/v1/messages?session_id=...
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.URL.Query().Get("session_id"))
	if err != nil {
		writeAPIError(w, apierr.Validation("session_id must be a valid UUID."), h.debug)
		return
	}

	params := parsePagination(r)

	items, meta, err := h.messages.History(r.Context(), sessionID, params)
	if err != nil {
		writeAPIError(w, err, h.debug)
		return
	}

	writeJSON(w, http.StatusOK, listEnvelope{Data: items, Meta: meta})
}
