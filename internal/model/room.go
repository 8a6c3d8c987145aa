package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Room statuses.
const (
	RoomStatusAvailable = "available"
	RoomStatusOccupied  = "occupied"
)

// Check-in statuses.
const (
	CheckinStatusActive    = "active"
	CheckinStatusCompleted = "completed"
	CheckinStatusCancelled = "cancelled"
)

// Room is a physical hotel room.
type Room struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OrgID      *uuid.UUID     `gorm:"type:uuid;index" json:"org_id,omitempty"`
	Label      string         `json:"label"`
	RoomNumber string         `gorm:"index;not null" json:"room_number"`
	Type       string         `json:"type"`
	Status     string         `gorm:"not null;default:available" json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// CheckinRoom links a guest to a room for one stay.
type CheckinRoom struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OrgID        *uuid.UUID     `gorm:"type:uuid;index" json:"org_id,omitempty"`
	RoomID       uuid.UUID      `gorm:"type:uuid;not null" json:"room_id"`
	GuestID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"guest_id"`
	CheckinTime  time.Time      `gorm:"not null" json:"checkin_time"`
	CheckoutTime *time.Time     `json:"checkout_time,omitempty"`
	Status       string         `gorm:"not null" json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Room  *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Guest *User `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
}

// BeforeCreate assigns a UUIDv7 primary key when none is set.
func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.Must(uuid.NewV7())
	}
	return nil
}

// BeforeCreate assigns a UUIDv7 primary key when none is set.
func (c *CheckinRoom) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.Must(uuid.NewV7())
	}
	return nil
}
