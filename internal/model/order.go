package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus is the lifecycle status of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderAssigned   OrderStatus = "assigned"
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
	OrderRejected   OrderStatus = "rejected"
)

// AssignmentStatus is the lifecycle status of a worker assignment.
type AssignmentStatus string

const (
	AssignmentAssigned   AssignmentStatus = "assigned"
	AssignmentPickUp     AssignmentStatus = "pick_up"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentCompleted  AssignmentStatus = "completed"
	AssignmentRejected   AssignmentStatus = "rejected"
)

// Order categories accepted from the order webhook.
const (
	OrderCategoryHousekeeping = "housekeeping"
	OrderCategoryRoomService  = "room_service"
	OrderCategoryMaintenance  = "maintenance"
	OrderCategoryConcierge    = "concierge"
	OrderCategoryRestaurant   = "restaurant"
)

// Order is a guest service request (housekeeping, room service, ...), created
// from the order webhook and bound to the check-in active when the session
// was created.
type Order struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber     string         `gorm:"uniqueIndex;not null" json:"order_number"`
	CheckinRoomID   *uuid.UUID     `gorm:"type:uuid;index" json:"checkin_room_id,omitempty"`
	OrgID           *uuid.UUID     `gorm:"type:uuid;index" json:"org_id,omitempty"`
	Category        string         `gorm:"not null" json:"category"`
	Title           string         `gorm:"not null" json:"title"`
	Description     *string        `gorm:"type:text" json:"description,omitempty"`
	Notes           *string        `gorm:"type:text" json:"notes,omitempty"`
	AdditionalNotes *string        `gorm:"type:text" json:"additional_notes,omitempty"`
	Status          OrderStatus    `gorm:"type:text;not null;default:pending" json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	CheckinRoom *CheckinRoom `gorm:"foreignKey:CheckinRoomID" json:"checkin_room,omitempty"`
	Items       []OrderItem  `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem is one line inside an order.
type OrderItem struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"order_id"`
	Title       string         `gorm:"not null" json:"title"`
	Description *string        `gorm:"type:text" json:"description,omitempty"`
	Qty         *int           `json:"qty,omitempty"`
	Price       float64        `gorm:"not null;default:0" json:"price"`
	Note        *string        `gorm:"type:text" json:"note,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// OrderAssigner links an order to the worker handling it.
type OrderAssigner struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"order_id"`
	WorkerID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"worker_id"`
	Status    AssignmentStatus `gorm:"type:text;not null;default:assigned" json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`

	Order  *Order `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Worker *User  `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
}

// OrderCounter backs the monthly order-number sequence. Period is the month
// in YYYYMM form; Counter is the last issued number within that month.
type OrderCounter struct {
	Period    string    `gorm:"primaryKey" json:"period"`
	Counter   int64     `gorm:"not null;default:0" json:"counter"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidOrderCategory reports whether c is one of the accepted categories.
func ValidOrderCategory(c string) bool {
	switch c {
	case OrderCategoryHousekeeping, OrderCategoryRoomService,
		OrderCategoryMaintenance, OrderCategoryConcierge, OrderCategoryRestaurant:
		return true
	}
	return false
}

// BeforeCreate assigns a UUIDv7 primary key when none is set.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.Must(uuid.NewV7())
	}
	return nil
}

// BeforeCreate assigns a UUIDv7 primary key when none is set.
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.Must(uuid.NewV7())
	}
	return nil
}

// BeforeCreate assigns a UUIDv7 primary key when none is set.
func (a *OrderAssigner) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.Must(uuid.NewV7())
	}
	return nil
}
