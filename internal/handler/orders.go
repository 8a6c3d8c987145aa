package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/apierr"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/middleware"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/model"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/service"
	"github.com/Voldemort-Project/mta-sga-cs-service/pkg/logger"
)

// OrderHandler handles order listing and assignment endpoints.
type OrderHandler struct {
	orders *service.OrderService
	logger *logger.Logger
	debug  bool
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orders *service.OrderService, log *logger.Logger, debug bool) *OrderHandler {
	return &OrderHandler{orders: orders, logger: log, debug: debug}
}

// List handles GET /api/v1/orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	params := parsePagination(r)
	status := r.URL.Query().Get("status")
	category := r.URL.Query().Get("category")
	org := middleware.GetOrg(r.Context())

	orders, meta, err := h.orders.List(r.Context(), org, status, category, params)
	if err != nil {
		writeAPIError(w, err, h.debug)
		return
	}

	writeJSON(w, http.StatusOK, listEnvelope{Data: orders, Meta: meta})
}

// Assign handles POST /api/v1/orders/{orderNumber}/assign.
func (h *OrderHandler) Assign(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")
	if orderNumber == "" {
		writeAPIError(w, apierr.Validation("orderNumber is required."), h.debug)
		return
	}

	var req model.AssignOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, apierr.BadRequest("Invalid request body."), h.debug)
		return
	}
	if req.WorkerID == uuid.Nil {
		writeAPIError(w, apierr.Validation("worker_id is required."), h.debug)
		return
	}

	resp, err := h.orders.Assign(r.Context(), orderNumber, req.WorkerID)
	if err != nil {
		writeAPIError(w, err, h.debug)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}
