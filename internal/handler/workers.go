package handler

import (
	"net/http"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/middleware"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/service"
	"github.com/Voldemort-Project/mta-sga-cs-service/pkg/logger"
)

// WorkerHandler handles worker listing endpoints.
type WorkerHandler struct {
	workers *service.WorkerService
	logger  *logger.Logger
	debug   bool
}

// NewWorkerHandler creates a new worker handler.
func NewWorkerHandler(workers *service.WorkerService, log *logger.Logger, debug bool) *WorkerHandler {
	return &WorkerHandler{workers: workers, logger: log, debug: debug}
}

// List handles GET /api/v1/workers.
func (h *WorkerHandler) List(w http.ResponseWriter, r *http.Request) {
	params := parsePagination(r)
	org := middleware.GetOrg(r.Context())

	items, meta, err := h.workers.List(r.Context(), org, params)
	if err != nil {
		writeAPIError(w, err, h.debug)
		return
	}

	writeJSON(w, http.StatusOK, listEnvelope{Data: items, Meta: meta})
}
