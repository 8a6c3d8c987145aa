package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/apierr"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/model"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/pagination"
	"github.com/Voldemort-Project/mta-sga-cs-service/pkg/logger"
)

// WorkerService lists the staff users that can take orders.
type WorkerService struct {
	store Store
	log   *logger.Logger
}

// NewWorkerService builds the worker service.
func NewWorkerService(st Store, log *logger.Logger) *WorkerService {
	return &WorkerService{store: st, log: log}
}

// List returns one page of workers scoped to the caller's organization.
func (s *WorkerService) List(ctx context.Context, orgName string, params pagination.Params) ([]model.WorkerItem, pagination.Meta, error) {
	var orgID *uuid.UUID
	if orgName != "" {
		org, err := s.store.OrganizationByName(ctx, orgName)
		if err != nil {
			return nil, pagination.Meta{}, apierr.Internal("Failed to resolve organization.", err)
		}
		if org != nil {
			orgID = &org.ID
		}
	}

	workers, meta, err := s.store.ListWorkers(ctx, orgID, params)
	if err != nil {
		return nil, pagination.Meta{}, apierr.Internal("Failed to list workers.", err)
	}

	items := make([]model.WorkerItem, 0, len(workers))
	for _, w := range workers {
		item := model.WorkerItem{
			ID:          w.ID,
			Name:        w.Name,
			Email:       w.Email,
			MobilePhone: w.MobilePhone,
			RoleID:      w.RoleID,
			OrgID:       w.OrgID,
			DivisionID:  w.DivisionID,
			CreatedAt:   w.CreatedAt,
			UpdatedAt:   w.UpdatedAt,
		}
		if w.Role != nil {
			item.RoleName = w.Role.Name
		}
		items = append(items, item)
	}
	return items, meta, nil
}
