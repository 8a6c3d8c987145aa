package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/apierr"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/model"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/pagination"
	"github.com/Voldemort-Project/mta-sga-cs-service/pkg/logger"
)

// MessageService serves conversation history.
type MessageService struct {
	store Store
	log   *logger.Logger
}

// NewMessageService builds the message service.
func NewMessageService(st Store, log *logger.Logger) *MessageService {
	return &MessageService{store: st, log: log}
}

// History returns one page of a session's messages, oldest first by default.
func (s *MessageService) History(ctx context.Context, sessionID uuid.UUID, params pagination.Params) ([]model.MessageItem, pagination.Meta, error) {
	session, err := s.store.SessionWithGuest(ctx, sessionID)
	if err != nil {
		return nil, pagination.Meta{}, apierr.Internal("Failed to load session.", err)
	}
	if session == nil {
		return nil, pagination.Meta{}, apierr.NotFound("Session not found.")
	}

	messages, meta, err := s.store.ListMessages(ctx, sessionID, params)
	if err != nil {
		return nil, pagination.Meta{}, apierr.Internal("Failed to list messages.", err)
	}

	items := make([]model.MessageItem, 0, len(messages))
	for _, m := range messages {
		items = append(items, model.MessageItem{
			ID:      m.ID,
			Seq:     m.Seq,
			Role:    m.Role,
			Message: m.Text,
		})
	}
	return items, meta, nil
}
