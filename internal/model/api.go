package model

import (
	"time"

	"github.com/google/uuid"
)

// RegisterGuestRequest registers a guest and checks them in.
type RegisterGuestRequest struct {
	FullName    string `json:"full_name"`
	RoomNumber  string `json:"room_number"`
	CheckinDate string `json:"checkin_date"` // YYYY-MM-DD
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// RegisterGuestResponse is the result of a successful registration.
type RegisterGuestResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	CheckinID   uuid.UUID `json:"checkin_id"`
	FullName    string    `json:"full_name"`
	RoomNumber  string    `json:"room_number"`
	CheckinDate string    `json:"checkin_date"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Status      string    `json:"status"`
}

// MessageItem is one message line in a history listing.
type MessageItem struct {
	ID      uuid.UUID   `json:"id"`
	Seq     int64       `json:"seq"`
	Role    MessageRole `json:"role"`
	Message string      `json:"message"`
}

// WorkerItem is one worker in a worker listing.
type WorkerItem struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	MobilePhone string     `json:"mobile_phone"`
	RoleID      uuid.UUID  `json:"role_id"`
	RoleName    string     `json:"role_name,omitempty"`
	OrgID       *uuid.UUID `json:"org_id,omitempty"`
	DivisionID  *uuid.UUID `json:"division_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AssignOrderRequest assigns an order to a worker.
type AssignOrderRequest struct {
	WorkerID uuid.UUID `json:"worker_id"`
}

// AssignOrderResponse reports a created assignment.
type AssignOrderResponse struct {
	ID          uuid.UUID        `json:"id"`
	OrderID     uuid.UUID        `json:"order_id"`
	OrderNumber string           `json:"order_number"`
	WorkerID    uuid.UUID        `json:"worker_id"`
	Status      AssignmentStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
}
