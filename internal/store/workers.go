package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/model"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/pagination"
)

// workerExcludedRoles are role codes that never appear in worker listings.
var workerExcludedRoles = []string{
	model.RoleCodeGuest,
	model.RoleCodeAdministrator,
	model.RoleCodeKeycloakAdmin,
}

// ListWorkers returns one page of staff users, excluding guests and
// administrative roles. The keyword searches name and email.
func (s *Store) ListWorkers(ctx context.Context, orgID *uuid.UUID, params pagination.Params) ([]model.User, pagination.Meta, error) {
	if params.Order == "" {
		params.Order = "name:asc"
	}

	q := s.db.Model(&model.User{}).
		Preload("Role").
		Preload("Division").
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.code NOT IN ?", workerExcludedRoles)
	if orgID != nil {
		q = q.Where("users.org_id = ?", *orgID)
	}

	var workers []model.User
	meta, err := pagination.Find(ctx, q, params,
		[]string{"users.name", "users.email"},
		map[string]string{
			"name":       "users.name",
			"email":      "users.email",
			"created_at": "users.created_at",
		},
		&workers,
	)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return workers, meta, nil
}

// WorkerByID loads a staff user with the role preloaded. Returns (nil, nil)
// when absent.
func (s *Store) WorkerByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var worker model.User
	err := s.db.WithContext(ctx).Preload("Role").First(&worker, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &worker, nil
}
