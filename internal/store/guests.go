package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/model"
)

// RoleByCode fetches a role by its stable code. Returns (nil, nil) when the
// role is not seeded.
func (s *Store) RoleByCode(ctx context.Context, code string) (*model.Role, error) {
	var role model.Role
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// RoomByNumber fetches a room by its display number, scoped to an
// organization when orgID is non-nil. Returns (nil, nil) when absent.
func (s *Store) RoomByNumber(ctx context.Context, orgID *uuid.UUID, roomNumber string) (*model.Room, error) {
	q := s.db.WithContext(ctx).Where("room_number = ?", roomNumber)
	if orgID != nil {
		q = q.Where("org_id = ?", *orgID)
	}

	var room model.Room
	err := q.First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// CreateUser inserts a user row.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// CreateCheckin inserts a check-in row.
func (s *Store) CreateCheckin(ctx context.Context, checkin *model.CheckinRoom) error {
	if err := s.db.WithContext(ctx).Create(checkin).Error; err != nil {
		return fmt.Errorf("create checkin: %w", err)
	}
	return nil
}

// UpdateRoomStatus sets the room's occupancy status.
func (s *Store) UpdateRoomStatus(ctx context.Context, roomID uuid.UUID, status string) error {
	return s.db.WithContext(ctx).
		Model(&model.Room{}).
		Where("id = ?", roomID).
		Update("status", status).Error
}

// OrganizationByName fetches an organization by name. Returns (nil, nil)
// when absent.
func (s *Store) OrganizationByName(ctx context.Context, name string) (*model.Organization, error) {
	var org model.Organization
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// CheckinByID loads a check-in with its room. Returns (nil, nil) when absent.
func (s *Store) CheckinByID(ctx context.Context, id uuid.UUID) (*model.CheckinRoom, error) {
	var checkin model.CheckinRoom
	err := s.db.WithContext(ctx).Preload("Room").First(&checkin, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &checkin, nil
}
