package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/model"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/pagination"
)

// fakeStore is an in-memory Store for service tests. Only the behavior the
// services exercise is modeled.
type fakeStore struct {
	guestsByPhone map[string]*model.User
	sessions      map[uuid.UUID]*model.Session
	checkins      map[uuid.UUID]*model.CheckinRoom // keyed by guest ID
	roles         map[string]*model.Role
	rooms         map[string]*model.Room
	orgs          map[string]*model.Organization
	orders        map[string]*model.Order
	workers       map[uuid.UUID]*model.User

	messages      []model.Message
	terminated    []uuid.UUID
	agentMarked   map[uuid.UUID]string
	createdUsers  []*model.User
	checkinsMade  []*model.CheckinRoom
	roomStatuses  map[uuid.UUID]string
	createdOrders []*model.Order
	assignments   []*model.OrderAssigner
	orderStatuses map[uuid.UUID]model.OrderStatus
	activeCounts  map[uuid.UUID]int64

	orderSeq int64
	nextSeq  map[uuid.UUID]int64

	createSessionErr error
	appendErr        error
	sendInTxErr      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		guestsByPhone: make(map[string]*model.User),
		sessions:      make(map[uuid.UUID]*model.Session),
		checkins:      make(map[uuid.UUID]*model.CheckinRoom),
		roles:         make(map[string]*model.Role),
		rooms:         make(map[string]*model.Room),
		orgs:          make(map[string]*model.Organization),
		orders:        make(map[string]*model.Order),
		workers:       make(map[uuid.UUID]*model.User),
		agentMarked:   make(map[uuid.UUID]string),
		roomStatuses:  make(map[uuid.UUID]string),
		orderStatuses: make(map[uuid.UUID]model.OrderStatus),
		activeCounts:  make(map[uuid.UUID]int64),
		nextSeq:       make(map[uuid.UUID]int64),
	}
}

func (f *fakeStore) GuestByPhone(ctx context.Context, localPhone string) (*model.User, error) {
	return f.guestsByPhone[localPhone], nil
}

func (f *fakeStore) OpenSessionForGuest(ctx context.Context, guestID uuid.UUID) (*model.Session, error) {
	for _, s := range f.sessions {
		if s.GuestID == guestID && s.Status == model.SessionOpen {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ActiveCheckinForGuest(ctx context.Context, guestID uuid.UUID) (*model.CheckinRoom, error) {
	return f.checkins[guestID], nil
}

func (f *fakeStore) CreateSession(ctx context.Context, session *model.Session) (*model.Session, error) {
	if f.createSessionErr != nil {
		return nil, f.createSessionErr
	}
	if session.ID == uuid.Nil {
		session.ID = uuid.Must(uuid.NewV7())
	}
	session.UpdatedAt = time.Now()
	f.sessions[session.ID] = session
	return session, nil
}

func (f *fakeStore) SessionWithGuest(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	return f.sessions[id], nil
}

func (f *fakeStore) TerminateSession(ctx context.Context, id uuid.UUID, end time.Time) error {
	f.terminated = append(f.terminated, id)
	if s, ok := f.sessions[id]; ok {
		s.Status = model.SessionTerminated
		s.End = &end
	}
	return nil
}

func (f *fakeStore) MarkAgentCreated(ctx context.Context, id uuid.UUID, category string) error {
	f.agentMarked[id] = category
	if s, ok := f.sessions[id]; ok {
		s.AgentCreated = true
		s.Category = &category
	}
	return nil
}

func (f *fakeStore) AppendMessage(ctx context.Context, sessionID uuid.UUID, role model.MessageRole, text string) (*model.Message, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	f.nextSeq[sessionID]++
	msg := model.Message{
		ID:        uuid.Must(uuid.NewV7()),
		SessionID: sessionID,
		Seq:       f.nextSeq[sessionID],
		Role:      role,
		Text:      text,
	}
	f.messages = append(f.messages, msg)
	return &msg, nil
}

func (f *fakeStore) ListMessages(ctx context.Context, sessionID uuid.UUID, params pagination.Params) ([]model.Message, pagination.Meta, error) {
	var out []model.Message
	for _, m := range f.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, pagination.BuildMeta(params.Normalize(), len(out)), nil
}

func (f *fakeStore) RoleByCode(ctx context.Context, code string) (*model.Role, error) {
	return f.roles[code], nil
}

func (f *fakeStore) RoomByNumber(ctx context.Context, orgID *uuid.UUID, roomNumber string) (*model.Room, error) {
	return f.rooms[roomNumber], nil
}

func (f *fakeStore) CreateUser(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.Must(uuid.NewV7())
	}
	f.createdUsers = append(f.createdUsers, user)
	return nil
}

func (f *fakeStore) CreateCheckin(ctx context.Context, checkin *model.CheckinRoom) error {
	if checkin.ID == uuid.Nil {
		checkin.ID = uuid.Must(uuid.NewV7())
	}
	f.checkinsMade = append(f.checkinsMade, checkin)
	return nil
}

func (f *fakeStore) UpdateRoomStatus(ctx context.Context, roomID uuid.UUID, status string) error {
	f.roomStatuses[roomID] = status
	return nil
}

func (f *fakeStore) CheckinByID(ctx context.Context, id uuid.UUID) (*model.CheckinRoom, error) {
	for _, c := range f.checkins {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) OrganizationByName(ctx context.Context, name string) (*model.Organization, error) {
	return f.orgs[name], nil
}

func (f *fakeStore) NextOrderNumber(ctx context.Context, t time.Time) (string, error) {
	f.orderSeq++
	return fmt.Sprintf("ORD-%s-%04d", t.Format("200601"), f.orderSeq), nil
}

func (f *fakeStore) CreateOrder(ctx context.Context, order *model.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.Must(uuid.NewV7())
	}
	f.createdOrders = append(f.createdOrders, order)
	f.orders[order.OrderNumber] = order
	return nil
}

func (f *fakeStore) OrderByNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	return f.orders[orderNumber], nil
}

func (f *fakeStore) ListOrders(ctx context.Context, orgID *uuid.UUID, status, category string, params pagination.Params) ([]model.Order, pagination.Meta, error) {
	var out []model.Order
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, pagination.BuildMeta(params.Normalize(), len(out)), nil
}

func (f *fakeStore) AssignmentByOrderAndWorker(ctx context.Context, orderID, workerID uuid.UUID) (*model.OrderAssigner, error) {
	for _, a := range f.assignments {
		if a.OrderID == orderID && a.WorkerID == workerID && a.Status != model.AssignmentRejected {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CountActiveAssignments(ctx context.Context, workerID uuid.UUID) (int64, error) {
	return f.activeCounts[workerID], nil
}

func (f *fakeStore) CreateAssignment(ctx context.Context, assignment *model.OrderAssigner) error {
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.Must(uuid.NewV7())
	}
	f.assignments = append(f.assignments, assignment)
	return nil
}

func (f *fakeStore) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) error {
	f.orderStatuses[orderID] = status
	return nil
}

func (f *fakeStore) ListWorkers(ctx context.Context, orgID *uuid.UUID, params pagination.Params) ([]model.User, pagination.Meta, error) {
	var out []model.User
	for _, w := range f.workers {
		out = append(out, *w)
	}
	return out, pagination.BuildMeta(params.Normalize(), len(out)), nil
}

func (f *fakeStore) WorkerByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return f.workers[id], nil
}

func (f *fakeStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	if f.sendInTxErr != nil {
		return f.sendInTxErr
	}
	return fn(f)
}

// messagesByRole filters recorded messages.
func (f *fakeStore) messagesByRole(role model.MessageRole) []model.Message {
	var out []model.Message
	for _, m := range f.messages {
		if m.Role == role {
			out = append(out, m)
		}
	}
	return out
}

// fakeWaha records outbound WhatsApp sends.
type fakeWaha struct {
	sent    []sentText
	typing  []string
	sendErr error
}

type sentText struct {
	Phone string
	Text  string
}

func (f *fakeWaha) SendText(ctx context.Context, phoneNumber, text string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentText{Phone: phoneNumber, Text: text})
	return nil
}

func (f *fakeWaha) StartTyping(ctx context.Context, phoneNumber string) {
	f.typing = append(f.typing, phoneNumber)
}

// fakeAgent fakes the agent router.
type fakeAgent struct {
	createErr   error
	created     []string // categories in creation order
	reply       string
	replyErr    error
	chats       []string
	unavailable bool
}

func (f *fakeAgent) CreateAgent(ctx context.Context, sessionID, category string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, category)
	return nil
}

func (f *fakeAgent) SendChat(ctx context.Context, sessionID, message string) (string, error) {
	f.chats = append(f.chats, message)
	if f.replyErr != nil {
		return "", f.replyErr
	}
	return f.reply, nil
}

func (f *fakeAgent) Available(ctx context.Context) bool {
	return !f.unavailable
}

// fakePublisher records published events.
type fakePublisher struct {
	subjects []string
}

func (f *fakePublisher) Publish(ctx context.Context, subject string, payload any) {
	f.subjects = append(f.subjects, subject)
}

func (f *fakePublisher) Close() {}

var errBoom = errors.New("boom")
