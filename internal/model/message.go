package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageRole tags who produced a message line.
type MessageRole string

const (
	RoleSystem MessageRole = "System"
	RoleUser   MessageRole = "User"
)

// Message is one append-only line of conversation text. Seq is a monotonic
// per-session sequence assigned inside the insert transaction; ordering by
// Seq is well defined even when timestamps collide.
type Message struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_messages_session_seq,priority:1" json:"session_id"`
	Seq       int64          `gorm:"not null;uniqueIndex:idx_messages_session_seq,priority:2" json:"seq"`
	Role      MessageRole    `gorm:"type:text;not null" json:"role"`
	Text      string         `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Session *Session `gorm:"foreignKey:SessionID" json:"-"`
}

// BeforeCreate assigns a UUIDv7 primary key when none is set.
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.Must(uuid.NewV7())
	}
	return nil
}
