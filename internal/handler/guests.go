package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/apierr"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/middleware"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/model"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/service"
	"github.com/Voldemort-Project/mta-sga-cs-service/pkg/logger"
)

// GuestHandler handles guest registration endpoints.
type GuestHandler struct {
	guests *service.GuestService
	logger *logger.Logger
	debug  bool
}

// NewGuestHandler creates a new guest handler.
func NewGuestHandler(guests *service.GuestService, log *logger.Logger, debug bool) *GuestHandler {
	return &GuestHandler{guests: guests, logger: log, debug: debug}
}

// Register handles POST /api/v1/guests/register.
func (h *GuestHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, apierr.BadRequest("Invalid request body."), h.debug)
		return
	}

	if err := middleware.ValidateName(req.FullName); err != nil {
		writeAPIError(w, apierr.Validation(err.Error()), h.debug)
		return
	}
	if err := middleware.ValidateRoomNumber(req.RoomNumber); err != nil {
		writeAPIError(w, apierr.Validation(err.Error()), h.debug)
		return
	}
	if err := middleware.ValidatePhone(req.PhoneNumber); err != nil {
		writeAPIError(w, apierr.Validation(err.Error()), h.debug)
		return
	}

	resp, err := h.guests.Register(r.Context(), &req)
	if err != nil {
		writeAPIError(w, err, h.debug)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}
