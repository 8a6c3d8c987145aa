package events

import (
	"time"

	"github.com/google/uuid"
)

// SessionEvent is published on session lifecycle subjects.
type SessionEvent struct {
	SessionID uuid.UUID `json:"session_id"`
	GuestID   uuid.UUID `json:"guest_id"`
	Category  string    `json:"category,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	At        time.Time `json:"at"`
}

// MessageEvent is published when a conversation message is persisted.
type MessageEvent struct {
	SessionID uuid.UUID `json:"session_id"`
	MessageID uuid.UUID `json:"message_id"`
	Seq       int64     `json:"seq"`
	Role      string    `json:"role"`
	At        time.Time `json:"at"`
}

// OrderEvent is published when an order is created or assigned.
type OrderEvent struct {
	OrderID     uuid.UUID  `json:"order_id"`
	OrderNumber string     `json:"order_number"`
	Category    string     `json:"category,omitempty"`
	WorkerID    *uuid.UUID `json:"worker_id,omitempty"`
	At          time.Time  `json:"at"`
}
