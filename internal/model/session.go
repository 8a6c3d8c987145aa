package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionStatus is the lifecycle status of a conversation session.
type SessionStatus string

const (
	SessionOpen       SessionStatus = "open"
	SessionTerminated SessionStatus = "terminated"
)

// SessionMode controls whether outbound system messages are recorded.
type SessionMode string

const (
	ModeAgent  SessionMode = "agent"
	ModeManual SessionMode = "manual"
)

// Conversation categories a guest can select.
const (
	CategoryGeneralInformation = "general_information"
	CategoryRoomService        = "room_service"
	CategoryCustomerService    = "customer_service"
)

// Session is one bounded guest-interaction window over WhatsApp.
//
// At most one open session may exist per guest; the store enforces this with
// a partial unique index on (guest_id) where status = 'open'. UpdatedAt is the
// last-activity timestamp used for idle expiry. End and Duration are set
// together, exactly once, at termination. LastSeq backs the per-session
// monotonic message sequence.
type Session struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	GuestID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"guest_id"`
	CheckinRoomID *uuid.UUID     `gorm:"type:uuid" json:"checkin_room_id,omitempty"`
	Status        SessionStatus  `gorm:"type:text;not null;default:open" json:"status"`
	Mode          SessionMode    `gorm:"type:text;not null;default:agent" json:"mode"`
	Start         time.Time      `gorm:"not null" json:"start"`
	End           *time.Time     `json:"end,omitempty"`
	Duration      *int64         `json:"duration,omitempty"`
	AgentCreated  bool           `gorm:"not null;default:false" json:"agent_created"`
	Category      *string        `json:"category,omitempty"`
	LastSeq       int64          `gorm:"not null;default:0" json:"-"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Guest       *User        `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
	CheckinRoom *CheckinRoom `gorm:"foreignKey:CheckinRoomID" json:"checkin_room,omitempty"`
}

// BeforeCreate assigns a UUIDv7 primary key when none is set.
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.Must(uuid.NewV7())
	}
	return nil
}

// Expired reports whether the session has been idle longer than the timeout.
func (s *Session) Expired(now time.Time, idleTimeout time.Duration) bool {
	return now.Sub(s.UpdatedAt) > idleTimeout
}
