package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/apierr"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/events"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/model"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/pagination"
	"github.com/Voldemort-Project/mta-sga-cs-service/pkg/logger"
	"github.com/Voldemort-Project/mta-sga-cs-service/pkg/metrics"
)

// MaxActiveOrdersPerWorker caps a worker's concurrent assignments.
const MaxActiveOrdersPerWorker = 5

// OrderService creates orders from the webhook and manages assignments.
type OrderService struct {
	store  Store
	events events.Publisher
	log    *logger.Logger

	now func() time.Time
}

// NewOrderService builds the order service.
func NewOrderService(st Store, pub events.Publisher, log *logger.Logger) *OrderService {
	return &OrderService{store: st, events: pub, log: log, now: time.Now}
}

// CreateFromWebhook creates the orders of one webhook request, all bound to
// the session's check-in, in a single transaction.
func (s *OrderService) CreateFromWebhook(ctx context.Context, req *model.OrderWebhookRequest) (*model.OrderWebhookResponse, error) {
	if len(req.Orders) == 0 {
		return nil, apierr.Validation("At least one order is required.")
	}
	for i, o := range req.Orders {
		if !model.ValidOrderCategory(o.Category) {
			return nil, apierr.Validation(fmt.Sprintf("Order %d has an unknown category %q.", i+1, o.Category))
		}
		if len(o.Items) == 0 {
			return nil, apierr.Validation(fmt.Sprintf("Order %d has no items.", i+1))
		}
	}

	session, err := s.store.SessionWithGuest(ctx, req.SessionID)
	if err != nil {
		return nil, apierr.Internal("Failed to load session.", err)
	}
	if session == nil {
		return nil, apierr.NotFound("Session not found.")
	}

	var orgID *uuid.UUID
	if session.Guest != nil {
		orgID = session.Guest.OrgID
	}

	var created []*model.Order
	err = s.store.InTx(ctx, func(tx Store) error {
		created = created[:0]
		for _, o := range req.Orders {
			number, err := tx.NextOrderNumber(ctx, s.now())
			if err != nil {
				return err
			}

			order := &model.Order{
				OrderNumber:     number,
				CheckinRoomID:   session.CheckinRoomID,
				OrgID:           orgID,
				Category:        o.Category,
				Title:           orderTitle(o),
				Notes:           o.Note,
				AdditionalNotes: o.AdditionalNote,
				Status:          model.OrderPending,
			}
			for _, item := range o.Items {
				price := 0.0
				if item.Price != nil {
					price = *item.Price
				}
				order.Items = append(order.Items, model.OrderItem{
					Title:       item.Title,
					Description: item.Description,
					Qty:         item.Qty,
					Price:       price,
					Note:        item.Note,
				})
			}

			if err := tx.CreateOrder(ctx, order); err != nil {
				return err
			}
			created = append(created, order)
		}
		return nil
	})
	if err != nil {
		return nil, apierr.From(err)
	}

	numbers := make([]string, 0, len(created))
	for _, order := range created {
		numbers = append(numbers, order.OrderNumber)
		metrics.OrdersCreatedTotal.WithLabelValues(order.Category).Inc()
		s.events.Publish(ctx, events.SubjectOrderCreated, events.OrderEvent{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Category:    order.Category,
			At:          s.now(),
		})
	}

	s.log.Info("orders created",
		zap.String("session_id", req.SessionID.String()),
		zap.Strings("order_numbers", numbers))

	return &model.OrderWebhookResponse{
		Status:       "success",
		Message:      fmt.Sprintf("%d order(s) created.", len(numbers)),
		OrderNumbers: numbers,
	}, nil
}

// orderTitle derives a display title for an order from its first item.
func orderTitle(o model.OrderRequest) string {
	title := o.Items[0].Title
	if len(o.Items) > 1 {
		title = fmt.Sprintf("%s (+%d more)", title, len(o.Items)-1)
	}
	return title
}

// List returns one page of orders scoped to the caller's organization.
func (s *OrderService) List(ctx context.Context, orgName, status, category string, params pagination.Params) ([]model.Order, pagination.Meta, error) {
	orgID, err := s.resolveOrg(ctx, orgName)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	orders, meta, err := s.store.ListOrders(ctx, orgID, status, category, params)
	if err != nil {
		return nil, pagination.Meta{}, apierr.Internal("Failed to list orders.", err)
	}
	return orders, meta, nil
}

// Assign assigns an order to a worker, enforcing the duplicate-assignment
// and worker-capacity rules.
func (s *OrderService) Assign(ctx context.Context, orderNumber string, workerID uuid.UUID) (*model.AssignOrderResponse, error) {
	order, err := s.store.OrderByNumber(ctx, orderNumber)
	if err != nil {
		return nil, apierr.Internal("Failed to load order.", err)
	}
	if order == nil {
		return nil, apierr.NotFound("Order not found.")
	}

	worker, err := s.store.WorkerByID(ctx, workerID)
	if err != nil {
		return nil, apierr.Internal("Failed to load worker.", err)
	}
	if worker == nil {
		return nil, apierr.NotFound("Worker not found.")
	}

	existing, err := s.store.AssignmentByOrderAndWorker(ctx, order.ID, workerID)
	if err != nil {
		return nil, apierr.Internal("Failed to check assignment.", err)
	}
	if existing != nil {
		return nil, apierr.BadRequest("Order is already assigned to this worker.")
	}

	active, err := s.store.CountActiveAssignments(ctx, workerID)
	if err != nil {
		return nil, apierr.Internal("Failed to count assignments.", err)
	}
	if active >= MaxActiveOrdersPerWorker {
		return nil, apierr.BadRequest(
			fmt.Sprintf("Worker already has %d active orders.", MaxActiveOrdersPerWorker)).
			WithCode(apierr.CodeWorkerBusy)
	}

	assignment := &model.OrderAssigner{
		OrderID:  order.ID,
		WorkerID: workerID,
		Status:   model.AssignmentAssigned,
	}
	err = s.store.InTx(ctx, func(tx Store) error {
		if err := tx.CreateAssignment(ctx, assignment); err != nil {
			return err
		}
		return tx.UpdateOrderStatus(ctx, order.ID, model.OrderAssigned)
	})
	if err != nil {
		return nil, apierr.Internal("Failed to assign order.", err)
	}

	s.events.Publish(ctx, events.SubjectOrderAssigned, events.OrderEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Category:    order.Category,
		WorkerID:    &workerID,
		At:          s.now(),
	})
	s.log.Info("order assigned",
		zap.String("order_number", order.OrderNumber),
		zap.String("worker_id", workerID.String()))

	return &model.AssignOrderResponse{
		ID:          assignment.ID,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		WorkerID:    workerID,
		Status:      assignment.Status,
		CreatedAt:   assignment.CreatedAt,
	}, nil
}

// resolveOrg maps an organization claim name to its row. An empty or unknown
// name yields no scoping.
func (s *OrderService) resolveOrg(ctx context.Context, orgName string) (*uuid.UUID, error) {
	if orgName == "" {
		return nil, nil
	}
	org, err := s.store.OrganizationByName(ctx, orgName)
	if err != nil {
		return nil, apierr.Internal("Failed to resolve organization.", err)
	}
	if org == nil {
		return nil, nil
	}
	return &org.ID, nil
}
