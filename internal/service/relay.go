package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/apierr"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/model"
	"github.com/Voldemort-Project/mta-sga-cs-service/pkg/logger"
	"github.com/Voldemort-Project/mta-sga-cs-service/pkg/metrics"
)

// RelayService delivers operator- and agent-initiated messages to guests.
type RelayService struct {
	store Store
	waha  WhatsAppGateway
	log   *logger.Logger
}

// NewRelayService builds the relay service.
func NewRelayService(st Store, waha WhatsAppGateway, log *logger.Logger) *RelayService {
	return &RelayService{store: st, waha: waha, log: log}
}

// Send delivers a message to the guest behind a session.
//
// A terminated session is a silent no-op. The message is recorded with the
// System role only when the session runs in agent mode, and the record
// commits only if gateway delivery succeeds.
func (s *RelayService) Send(ctx context.Context, sessionID uuid.UUID, message string) error {
	session, err := s.store.SessionWithGuest(ctx, sessionID)
	if err != nil {
		return apierr.Internal("Failed to load session.", err)
	}
	if session == nil {
		return apierr.NotFound("Session not found.")
	}
	if session.Guest == nil {
		return apierr.NotFound("Guest not found for session.")
	}

	if session.Status == model.SessionTerminated {
		s.log.Info("session terminated, skipping message send",
			zap.String("session_id", sessionID.String()))
		return nil
	}

	if session.Guest.MobilePhone == "" {
		return apierr.BadRequest("Guest has no mobile phone number.")
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		if session.Mode == model.ModeAgent {
			if _, err := tx.AppendMessage(ctx, session.ID, model.RoleSystem, message); err != nil {
				return err
			}
		} else {
			s.log.Info("session not in agent mode, skipping message record",
				zap.String("session_id", sessionID.String()),
				zap.String("mode", string(session.Mode)))
		}
		return s.waha.SendText(ctx, session.Guest.MobilePhone, message)
	})
	if err != nil {
		return apierr.Internal("Failed to send message.", err)
	}

	if session.Mode == model.ModeAgent {
		metrics.MessagesTotal.WithLabelValues(string(model.RoleSystem)).Inc()
	}
	s.log.Info("message sent",
		zap.String("session_id", sessionID.String()),
		zap.String("phone", session.Guest.MobilePhone))
	return nil
}
