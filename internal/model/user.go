// Package model defines the persisted data structures for the service.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role codes that are excluded from worker listings.
const (
	RoleCodeGuest         = "guest"
	RoleCodeAdministrator = "administrator"
	RoleCodeKeycloakAdmin = "keycloak_administrator"
)

// Organization is a hotel property (tenant) owning rooms, staff and orders.
type Organization struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Division groups workers inside an organization (housekeeping, kitchen, ...).
type Division struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OrgID     *uuid.UUID     `gorm:"type:uuid;index" json:"org_id,omitempty"`
	Name      string         `gorm:"not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Role is an access role; Code is the stable machine identifier.
type Role struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Code      string         `gorm:"uniqueIndex;not null" json:"code"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// User is a guest or staff identity. MobilePhone is stored in local format
// (leading 0) and is the lookup key for inbound WhatsApp messages.
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OrgID       *uuid.UUID     `gorm:"type:uuid;index" json:"org_id,omitempty"`
	DivisionID  *uuid.UUID     `gorm:"type:uuid" json:"division_id,omitempty"`
	RoleID      uuid.UUID      `gorm:"type:uuid;not null" json:"role_id"`
	Name        string         `gorm:"not null" json:"name"`
	Email       string         `json:"email"`
	MobilePhone string         `gorm:"index" json:"mobile_phone"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Role     *Role         `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Division *Division     `gorm:"foreignKey:DivisionID" json:"division,omitempty"`
	Org      *Organization `gorm:"foreignKey:OrgID" json:"-"`
}

// BeforeCreate assigns a UUIDv7 primary key when none is set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.Must(uuid.NewV7())
	}
	return nil
}

// BeforeCreate assigns a UUIDv7 primary key when none is set.
func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.Must(uuid.NewV7())
	}
	return nil
}

// BeforeCreate assigns a UUIDv7 primary key when none is set.
func (d *Division) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.Must(uuid.NewV7())
	}
	return nil
}

// BeforeCreate assigns a UUIDv7 primary key when none is set.
func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.Must(uuid.NewV7())
	}
	return nil
}
