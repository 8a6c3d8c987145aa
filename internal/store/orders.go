package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/model"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/pagination"
)

// activeAssignmentStatuses are the statuses that count against a worker's
// concurrent workload.
var activeAssignmentStatuses = []model.AssignmentStatus{
	model.AssignmentAssigned,
	model.AssignmentPickUp,
	model.AssignmentInProgress,
}

// NextOrderNumber issues the next order number for the month containing t,
// in the form ORD-YYYYMM-NNNN. The per-month counter is advanced with an
// atomic upsert so concurrent webhook deliveries never collide.
func (s *Store) NextOrderNumber(ctx context.Context, t time.Time) (string, error) {
	period := t.Format("200601")

	var counter int64
	err := s.db.WithContext(ctx).Raw(
		`INSERT INTO order_counters (period, counter, updated_at)
		 VALUES (?, 1, ?)
		 ON CONFLICT (period)
		 DO UPDATE SET counter = order_counters.counter + 1, updated_at = EXCLUDED.updated_at
		 RETURNING counter`,
		period, now(),
	).Scan(&counter).Error
	if err != nil {
		return "", fmt.Errorf("next order number: %w", err)
	}

	return fmt.Sprintf("ORD-%s-%04d", period, counter), nil
}

// CreateOrder inserts an order together with its items.
func (s *Store) CreateOrder(ctx context.Context, order *model.Order) error {
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// OrderByNumber loads an order by its public number, with items and check-in.
// Returns (nil, nil) when absent.
func (s *Store) OrderByNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("CheckinRoom").
		Preload("CheckinRoom.Room").
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns one page of orders, newest first by default. The keyword
// searches order number and title; status and category narrow the result when
// non-empty.
func (s *Store) ListOrders(ctx context.Context, orgID *uuid.UUID, status, category string, params pagination.Params) ([]model.Order, pagination.Meta, error) {
	if params.Order == "" {
		params.Order = "created_at:desc"
	}

	q := s.db.Model(&model.Order{}).
		Preload("Items").
		Preload("CheckinRoom").
		Preload("CheckinRoom.Room")
	if orgID != nil {
		q = q.Where("org_id = ?", *orgID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var orders []model.Order
	meta, err := pagination.Find(ctx, q, params,
		[]string{"order_number", "title"},
		map[string]string{
			"created_at":   "created_at",
			"order_number": "order_number",
			"status":       "status",
			"category":     "category",
		},
		&orders,
	)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return orders, meta, nil
}

// AssignmentByOrderAndWorker returns the existing non-rejected assignment
// linking the order and worker, or (nil, nil).
func (s *Store) AssignmentByOrderAndWorker(ctx context.Context, orderID, workerID uuid.UUID) (*model.OrderAssigner, error) {
	var assignment model.OrderAssigner
	err := s.db.WithContext(ctx).
		Where("order_id = ? AND worker_id = ? AND status <> ?", orderID, workerID, model.AssignmentRejected).
		First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// CountActiveAssignments counts the worker's assignments still in flight.
func (s *Store) CountActiveAssignments(ctx context.Context, workerID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.OrderAssigner{}).
		Where("worker_id = ? AND status IN ?", workerID, activeAssignmentStatuses).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CreateAssignment inserts an assignment row.
func (s *Store) CreateAssignment(ctx context.Context, assignment *model.OrderAssigner) error {
	if err := s.db.WithContext(ctx).Create(assignment).Error; err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// UpdateOrderStatus moves an order to a new lifecycle status.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) error {
	return s.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
}
