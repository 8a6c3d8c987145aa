// Package service implements the application's business flows on top of the
// store and the outbound gateways.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/model"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/pagination"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/store"
)

// Store is the persistence surface the services consume. InTx runs fn
// against a transaction-scoped Store; callers use it where several writes
// (or a write plus an outbound send) must commit together.
type Store interface {
	GuestByPhone(ctx context.Context, localPhone string) (*model.User, error)
	OpenSessionForGuest(ctx context.Context, guestID uuid.UUID) (*model.Session, error)
	ActiveCheckinForGuest(ctx context.Context, guestID uuid.UUID) (*model.CheckinRoom, error)
	CreateSession(ctx context.Context, session *model.Session) (*model.Session, error)
	SessionWithGuest(ctx context.Context, id uuid.UUID) (*model.Session, error)
	TerminateSession(ctx context.Context, id uuid.UUID, end time.Time) error
	MarkAgentCreated(ctx context.Context, id uuid.UUID, category string) error
	AppendMessage(ctx context.Context, sessionID uuid.UUID, role model.MessageRole, text string) (*model.Message, error)
	ListMessages(ctx context.Context, sessionID uuid.UUID, params pagination.Params) ([]model.Message, pagination.Meta, error)

	RoleByCode(ctx context.Context, code string) (*model.Role, error)
	RoomByNumber(ctx context.Context, orgID *uuid.UUID, roomNumber string) (*model.Room, error)
	CreateUser(ctx context.Context, user *model.User) error
	CreateCheckin(ctx context.Context, checkin *model.CheckinRoom) error
	UpdateRoomStatus(ctx context.Context, roomID uuid.UUID, status string) error
	CheckinByID(ctx context.Context, id uuid.UUID) (*model.CheckinRoom, error)
	OrganizationByName(ctx context.Context, name string) (*model.Organization, error)

	NextOrderNumber(ctx context.Context, t time.Time) (string, error)
	CreateOrder(ctx context.Context, order *model.Order) error
	OrderByNumber(ctx context.Context, orderNumber string) (*model.Order, error)
	ListOrders(ctx context.Context, orgID *uuid.UUID, status, category string, params pagination.Params) ([]model.Order, pagination.Meta, error)
	AssignmentByOrderAndWorker(ctx context.Context, orderID, workerID uuid.UUID) (*model.OrderAssigner, error)
	CountActiveAssignments(ctx context.Context, workerID uuid.UUID) (int64, error)
	CreateAssignment(ctx context.Context, assignment *model.OrderAssigner) error
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) error

	ListWorkers(ctx context.Context, orgID *uuid.UUID, params pagination.Params) ([]model.User, pagination.Meta, error)
	WorkerByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	InTx(ctx context.Context, fn func(tx Store) error) error
}

// storeAdapter lifts *store.Store to the Store interface, rewrapping
// transaction-scoped handles so fn sees the same interface.
type storeAdapter struct {
	*store.Store
}

// NewStore adapts the concrete store for service consumption.
func NewStore(s *store.Store) Store {
	return storeAdapter{Store: s}
}

func (a storeAdapter) InTx(ctx context.Context, fn func(tx Store) error) error {
	return a.Store.InTx(ctx, func(tx *store.Store) error {
		return fn(storeAdapter{Store: tx})
	})
}
