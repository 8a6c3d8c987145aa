package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/model"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/pagination"
)

// GuestByPhone looks up a user by mobile phone in local format. Returns
// (nil, nil) when no user matches.
func (s *Store) GuestByPhone(ctx context.Context, localPhone string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Where("mobile_phone = ?", localPhone).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// OpenSessionForGuest returns the guest's open session, or (nil, nil).
func (s *Store) OpenSessionForGuest(ctx context.Context, guestID uuid.UUID) (*model.Session, error) {
	var session model.Session
	err := s.db.WithContext(ctx).
		Where("guest_id = ? AND status = ?", guestID, model.SessionOpen).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ActiveCheckinForGuest returns the guest's active room-stay, or (nil, nil).
func (s *Store) ActiveCheckinForGuest(ctx context.Context, guestID uuid.UUID) (*model.CheckinRoom, error) {
	var checkin model.CheckinRoom
	err := s.db.WithContext(ctx).
		Where("guest_id = ? AND status = ?", guestID, model.CheckinStatusActive).
		Order("checkin_time DESC").
		First(&checkin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &checkin, nil
}

// CreateSession inserts a new open session. If a concurrent webhook delivery
// won the race on the one-open-session-per-guest index, the winner's row is
// returned instead of an error.
func (s *Store) CreateSession(ctx context.Context, session *model.Session) (*model.Session, error) {
	err := s.db.WithContext(ctx).Create(session).Error
	if err == nil {
		return session, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		winner, lookupErr := s.OpenSessionForGuest(ctx, session.GuestID)
		if lookupErr != nil {
			return nil, lookupErr
		}
		if winner != nil {
			return winner, nil
		}
	}
	return nil, fmt.Errorf("create session: %w", err)
}

// SessionWithGuest loads a session and its guest. Returns (nil, nil) when
// the session does not exist.
func (s *Store) SessionWithGuest(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	var session model.Session
	err := s.db.WithContext(ctx).
		Preload("Guest").
		First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// TerminateSession closes an open session, setting end and duration
// (whole seconds since start) together. Terminating an already terminated
// session is a no-op.
func (s *Store) TerminateSession(ctx context.Context, id uuid.UUID, end time.Time) error {
	var session model.Session
	err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if err != nil {
		return err
	}
	if session.Status == model.SessionTerminated {
		return nil
	}

	duration := int64(end.Sub(session.Start).Seconds())
	return s.db.WithContext(ctx).
		Model(&model.Session{}).
		Where("id = ? AND status = ?", id, model.SessionOpen).
		Updates(map[string]any{
			"status":   model.SessionTerminated,
			"end":      end,
			"duration": duration,
		}).Error
}

// MarkAgentCreated records that the backing agent was provisioned for a
// session with the chosen category. The flag transitions false to true at
// most once; repeated calls do not overwrite the original category.
func (s *Store) MarkAgentCreated(ctx context.Context, id uuid.UUID, category string) error {
	return s.db.WithContext(ctx).
		Model(&model.Session{}).
		Where("id = ? AND agent_created = ?", id, false).
		Updates(map[string]any{
			"agent_created": true,
			"category":      category,
		}).Error
}

// AppendMessage inserts a message with the next per-session sequence number
// and bumps the session's last-activity timestamp, all in one transaction.
func (s *Store) AppendMessage(ctx context.Context, sessionID uuid.UUID, role model.MessageRole, text string) (*model.Message, error) {
	var msg *model.Message
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session model.Session
		if err := tx.Clauses(forUpdate()).First(&session, "id = ?", sessionID).Error; err != nil {
			return err
		}

		seq := session.LastSeq + 1
		if err := tx.Model(&model.Session{}).
			Where("id = ?", sessionID).
			Updates(map[string]any{
				"last_seq":   seq,
				"updated_at": now(),
			}).Error; err != nil {
			return err
		}

		msg = &model.Message{
			SessionID: sessionID,
			Seq:       seq,
			Role:      role,
			Text:      text,
		}
		return tx.Create(msg).Error
	})
	if err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}
	return msg, nil
}

// ListMessages returns one page of a session's messages. Default order is
// seq ascending (oldest first); the keyword searches message text.
func (s *Store) ListMessages(ctx context.Context, sessionID uuid.UUID, params pagination.Params) ([]model.Message, pagination.Meta, error) {
	if params.Order == "" {
		params.Order = "seq:asc"
	}

	q := s.db.Model(&model.Message{}).Where("session_id = ?", sessionID)

	var messages []model.Message
	meta, err := pagination.Find(ctx, q, params,
		[]string{"text"},
		map[string]string{
			"seq":        "seq",
			"created_at": "created_at",
		},
		&messages,
	)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return messages, meta, nil
}
