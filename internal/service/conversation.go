package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/config"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/events"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/model"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/phone"
	"github.com/Voldemort-Project/mta-sga-cs-service/pkg/logger"
	"github.com/Voldemort-Project/mta-sga-cs-service/pkg/metrics"
)

// endCommand terminates a session when it is the exact trimmed message body.
const endCommand = "/end"

// WhatsAppGateway sends messages to guests over WhatsApp.
type WhatsAppGateway interface {
	SendText(ctx context.Context, phoneNumber, text string) error
	StartTyping(ctx context.Context, phoneNumber string)
}

// AgentGateway provisions and converses with the upstream agents.
type AgentGateway interface {
	CreateAgent(ctx context.Context, sessionID, category string) error
	SendChat(ctx context.Context, sessionID, message string) (string, error)
	Available(ctx context.Context) bool
}

// ConversationService drives the WhatsApp session lifecycle: session
// creation and expiry, category selection, agent provisioning, message
// persistence and relaying guest messages to the agent.
type ConversationService struct {
	store  Store
	waha   WhatsAppGateway
	agent  AgentGateway
	events events.Publisher
	cfg    *config.Config
	log    *logger.Logger

	// now is a seam for tests.
	now func() time.Time
	// background relays in flight; Wait lets tests and shutdown drain them.
	wg sync.WaitGroup
}

// NewConversationService builds the conversation service.
func NewConversationService(st Store, waha WhatsAppGateway, agent AgentGateway, pub events.Publisher, cfg *config.Config, log *logger.Logger) *ConversationService {
	return &ConversationService{
		store:  st,
		waha:   waha,
		agent:  agent,
		events: pub,
		cfg:    cfg,
		log:    log,
		now:    time.Now,
	}
}

// Wait blocks until all background agent relays have finished.
func (s *ConversationService) Wait() {
	s.wg.Wait()
}

// HandleWebhook processes one inbound WAHA message event. The webhook is
// always acknowledged; messages that cannot be processed are dropped with a
// warn log and a counter rather than surfaced as gateway errors.
func (s *ConversationService) HandleWebhook(ctx context.Context, req *model.WebhookRequest) error {
	payload := req.Payload

	if payload.FromMe {
		s.log.Debug("ignoring own message", zap.String("message_id", payload.ID))
		return nil
	}

	localPhone := phone.Local(phone.FromChatID(payload.From))

	guest, err := s.store.GuestByPhone(ctx, localPhone)
	if err != nil {
		return err
	}
	if guest == nil {
		s.log.Warn("inbound message from unknown phone", zap.String("phone", localPhone))
		metrics.WebhookDroppedTotal.WithLabelValues("unknown_phone").Inc()
		return nil
	}

	log := s.log.With(zap.String("guest_id", guest.ID.String()))

	session, err := s.store.OpenSessionForGuest(ctx, guest.ID)
	if err != nil {
		return err
	}

	// Expiry is evaluated before anything else: an idle session is closed
	// and the message is treated as the start of a new conversation.
	if session != nil && session.Expired(s.now(), s.cfg.SessionIdleTimeout) {
		if err := s.terminate(ctx, session, "expired"); err != nil {
			return err
		}
		log.Info("idle session expired",
			zap.String("session_id", session.ID.String()),
			zap.Time("last_activity", session.UpdatedAt))
		session = nil
	}

	if session == nil {
		return s.startSession(ctx, guest, payload.Body, localPhone, log)
	}

	log = log.With(zap.String("session_id", session.ID.String()))
	body := strings.TrimSpace(payload.Body)

	if body == endCommand {
		if _, err := s.append(ctx, session.ID, model.RoleUser, body); err != nil {
			return err
		}
		if err := s.terminate(ctx, session, "guest"); err != nil {
			return err
		}
		log.Info("session terminated by guest")
		s.sendBestEffort(ctx, localPhone, goodbyeText, log)
		return nil
	}

	if _, err := s.append(ctx, session.ID, model.RoleUser, payload.Body); err != nil {
		return err
	}

	if !session.AgentCreated {
		return s.handleCategorySelection(ctx, session, body, localPhone, log)
	}

	s.relayToAgent(session, guest, payload.Body, localPhone, log)
	return nil
}

// startSession creates a session for the guest and sends the welcome menu.
// The triggering message is persisted but deliberately not processed; the
// guest answers the menu with their next message.
func (s *ConversationService) startSession(ctx context.Context, guest *model.User, body, localPhone string, log *logger.Logger) error {
	checkin, err := s.store.ActiveCheckinForGuest(ctx, guest.ID)
	if err != nil {
		return err
	}
	if checkin == nil {
		log.Warn("no active check-in, dropping inbound message")
		metrics.WebhookDroppedTotal.WithLabelValues("no_active_checkin").Inc()
		return nil
	}

	session, err := s.store.CreateSession(ctx, &model.Session{
		GuestID:       guest.ID,
		CheckinRoomID: &checkin.ID,
		Status:        model.SessionOpen,
		Mode:          model.ModeAgent,
		Start:         s.now(),
	})
	if err != nil {
		return err
	}

	log = log.With(zap.String("session_id", session.ID.String()))
	log.Info("session started")
	metrics.SessionsStartedTotal.Inc()
	s.events.Publish(ctx, events.SubjectSessionStarted, events.SessionEvent{
		SessionID: session.ID,
		GuestID:   guest.ID,
		At:        s.now(),
	})

	welcome := welcomeText(guest.Name)
	if _, err := s.append(ctx, session.ID, model.RoleSystem, welcome); err != nil {
		return err
	}
	s.sendBestEffort(ctx, localPhone, welcome, log)

	if _, err := s.append(ctx, session.ID, model.RoleUser, body); err != nil {
		return err
	}
	return nil
}

// handleCategorySelection reacts to a message on a session whose agent has
// not been provisioned yet.
func (s *ConversationService) handleCategorySelection(ctx context.Context, session *model.Session, body, localPhone string, log *logger.Logger) error {
	category := parseCategory(body)
	if category == "" {
		s.sendBestEffort(ctx, localPhone, reminderText, log)
		return nil
	}

	if err := s.agent.CreateAgent(ctx, session.ID.String(), category); err != nil {
		log.Error("agent provisioning failed",
			zap.String("category", category), zap.Error(err))
		s.sendBestEffort(ctx, localPhone, agentErrorText, log)
		return nil
	}

	if err := s.store.MarkAgentCreated(ctx, session.ID, category); err != nil {
		return err
	}
	log.Info("agent provisioned", zap.String("category", category))

	confirmation := confirmationText(category)
	if _, err := s.append(ctx, session.ID, model.RoleSystem, confirmation); err != nil {
		return err
	}
	s.sendBestEffort(ctx, localPhone, confirmation, log)
	return nil
}

// relayToAgent forwards a guest message to the session's agent in the
// background and delivers the reply. When the agent router is down the guest
// gets a wait message instead.
func (s *ConversationService) relayToAgent(session *model.Session, guest *model.User, body, localPhone string, log *logger.Logger) {
	sessionID := session.ID

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.AgentRelayTimeout)
		defer cancel()

		if !s.agent.Available(ctx) {
			log.Warn("agent router unavailable, sending wait message")
			if _, err := s.append(ctx, sessionID, model.RoleSystem, waitText); err != nil {
				log.Error("failed to persist wait message", zap.Error(err))
				return
			}
			s.sendBestEffort(ctx, localPhone, waitText, log)
			return
		}

		s.waha.StartTyping(ctx, localPhone)

		start := s.now()
		reply, err := s.agent.SendChat(ctx, sessionID.String(), body)
		if err != nil {
			metrics.AgentRelayDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
			log.Error("agent relay failed", zap.Error(err))
			return
		}
		metrics.AgentRelayDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

		if reply == "" {
			log.Debug("agent returned empty reply")
			return
		}

		if _, err := s.append(ctx, sessionID, model.RoleSystem, reply); err != nil {
			log.Error("failed to persist agent reply", zap.Error(err))
			return
		}
		s.sendBestEffort(ctx, localPhone, reply, log)
	}()
}

// terminate closes a session and records the reason.
func (s *ConversationService) terminate(ctx context.Context, session *model.Session, reason string) error {
	if err := s.store.TerminateSession(ctx, session.ID, s.now()); err != nil {
		return err
	}
	metrics.SessionsTerminatedTotal.WithLabelValues(reason).Inc()

	subject := events.SubjectSessionTerminated
	if reason == "expired" {
		subject = events.SubjectSessionExpired
	}
	s.events.Publish(ctx, subject, events.SessionEvent{
		SessionID: session.ID,
		GuestID:   session.GuestID,
		Reason:    reason,
		At:        s.now(),
	})
	return nil
}

// append persists a message and emits the message metrics and event.
func (s *ConversationService) append(ctx context.Context, sessionID uuid.UUID, role model.MessageRole, text string) (*model.Message, error) {
	msg, err := s.store.AppendMessage(ctx, sessionID, role, text)
	if err != nil {
		return nil, err
	}
	metrics.MessagesTotal.WithLabelValues(string(role)).Inc()
	s.events.Publish(ctx, events.SubjectMessageCreated, events.MessageEvent{
		SessionID: sessionID,
		MessageID: msg.ID,
		Seq:       msg.Seq,
		Role:      string(role),
		At:        s.now(),
	})
	return msg, nil
}

// sendBestEffort delivers text to the guest, logging failures instead of
// propagating them. Conversation state is already committed by the time
// anything is sent.
func (s *ConversationService) sendBestEffort(ctx context.Context, localPhone, text string, log *logger.Logger) {
	if err := s.waha.SendText(ctx, localPhone, text); err != nil {
		log.Error("failed to send whatsapp message", zap.Error(err))
	}
}

// parseCategory maps a menu answer to its conversation category. Anything
// other than an exact "1", "2" or "3" is not a selection.
func parseCategory(body string) string {
	switch strings.TrimSpace(body) {
	case "1":
		return model.CategoryGeneralInformation
	case "2":
		return model.CategoryRoomService
	case "3":
		return model.CategoryCustomerService
	}
	return ""
}
