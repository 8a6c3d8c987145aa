package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/config"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/model"
	"github.com/Voldemort-Project/mta-sga-cs-service/pkg/logger"
)

const guestPhone = "081234567890"

type convFixture struct {
	svc   *ConversationService
	store *fakeStore
	waha  *fakeWaha
	agent *fakeAgent
	pub   *fakePublisher
	guest *model.User
}

func newConvFixture(t *testing.T) *convFixture {
	t.Helper()

	st := newFakeStore()
	waha := &fakeWaha{}
	agent := &fakeAgent{reply: "Tentu, segera kami bantu."}
	pub := &fakePublisher{}

	guest := &model.User{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        "Budi",
		MobilePhone: guestPhone,
	}
	st.guestsByPhone[guestPhone] = guest
	st.checkins[guest.ID] = &model.CheckinRoom{
		ID:      uuid.Must(uuid.NewV7()),
		GuestID: guest.ID,
		Status:  model.CheckinStatusActive,
	}

	cfg := &config.Config{
		SessionIdleTimeout: 30 * time.Minute,
		AgentRelayTimeout:  5 * time.Second,
	}

	return &convFixture{
		svc:   NewConversationService(st, waha, agent, pub, cfg, logger.NewNop()),
		store: st,
		waha:  waha,
		agent: agent,
		pub:   pub,
		guest: guest,
	}
}

func inbound(body string) *model.WebhookRequest {
	return &model.WebhookRequest{
		Event: "message",
		Payload: model.WebhookPayload{
			ID:   "msg-1",
			From: "6281234567890@c.us",
			Body: body,
		},
	}
}

func (f *convFixture) openSession(t *testing.T) *model.Session {
	t.Helper()
	session, err := f.store.OpenSessionForGuest(context.Background(), f.guest.ID)
	require.NoError(t, err)
	require.NotNil(t, session)
	return session
}

func TestWebhookIgnoresOwnMessages(t *testing.T) {
	f := newConvFixture(t)

	req := inbound("hi")
	req.Payload.FromMe = true
	require.NoError(t, f.svc.HandleWebhook(context.Background(), req))

	assert.Empty(t, f.store.messages)
	assert.Empty(t, f.waha.sent)
}

func TestWebhookUnknownPhoneDropped(t *testing.T) {
	f := newConvFixture(t)

	req := inbound("hi")
	req.Payload.From = "6289999999999@c.us"
	require.NoError(t, f.svc.HandleWebhook(context.Background(), req))

	assert.Empty(t, f.store.messages)
	assert.Empty(t, f.waha.sent)
}

func TestWebhookNoActiveCheckinDropped(t *testing.T) {
	f := newConvFixture(t)
	delete(f.store.checkins, f.guest.ID)

	require.NoError(t, f.svc.HandleWebhook(context.Background(), inbound("hi")))

	assert.Empty(t, f.store.sessions)
	assert.Empty(t, f.store.messages)
	assert.Empty(t, f.waha.sent)
}

func TestWebhookFirstMessageStartsSession(t *testing.T) {
	f := newConvFixture(t)

	require.NoError(t, f.svc.HandleWebhook(context.Background(), inbound("halo")))

	session := f.openSession(t)
	assert.Equal(t, model.ModeAgent, session.Mode)
	assert.False(t, session.AgentCreated)

	// Welcome goes out, the triggering message is stored but not answered.
	require.Len(t, f.waha.sent, 1)
	assert.Contains(t, f.waha.sent[0].Text, "Pilih Salah 1 Kategori")

	require.Len(t, f.store.messages, 2)
	assert.Equal(t, model.RoleSystem, f.store.messages[0].Role)
	assert.Equal(t, model.RoleUser, f.store.messages[1].Role)
	assert.Equal(t, "halo", f.store.messages[1].Text)

	// No agent interaction on the triggering message.
	assert.Empty(t, f.agent.created)
	assert.Empty(t, f.agent.chats)
}

func TestWebhookCategorySelectionProvisionsAgent(t *testing.T) {
	tests := []struct {
		input    string
		category string
	}{
		{"1", model.CategoryGeneralInformation},
		{"2", model.CategoryRoomService},
		{"3", model.CategoryCustomerService},
		{"  2  ", model.CategoryRoomService},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f := newConvFixture(t)
			require.NoError(t, f.svc.HandleWebhook(context.Background(), inbound("halo")))

			require.NoError(t, f.svc.HandleWebhook(context.Background(), inbound(tt.input)))

			session := f.openSession(t)
			assert.True(t, session.AgentCreated)
			require.NotNil(t, session.Category)
			assert.Equal(t, tt.category, *session.Category)
			assert.Equal(t, []string{tt.category}, f.agent.created)

			last := f.waha.sent[len(f.waha.sent)-1]
			assert.Contains(t, last.Text, "Anda telah memilih kategori")
		})
	}
}

func TestWebhookInvalidCategoryReminds(t *testing.T) {
	f := newConvFixture(t)
	require.NoError(t, f.svc.HandleWebhook(context.Background(), inbound("halo")))

	require.NoError(t, f.svc.HandleWebhook(context.Background(), inbound("pizza")))

	session := f.openSession(t)
	assert.False(t, session.AgentCreated)
	assert.Empty(t, f.agent.created)

	last := f.waha.sent[len(f.waha.sent)-1]
	assert.Contains(t, last.Text, "Silakan kirim 1, 2, atau 3")
	// Reminders are not part of the recorded conversation.
	assert.Len(t, f.store.messagesByRole(model.RoleSystem), 1)
}

func TestWebhookAgentProvisioningFailure(t *testing.T) {
	f := newConvFixture(t)
	require.NoError(t, f.svc.HandleWebhook(context.Background(), inbound("halo")))

	f.agent.createErr = errBoom
	require.NoError(t, f.svc.HandleWebhook(context.Background(), inbound("2")))

	session := f.openSession(t)
	assert.False(t, session.AgentCreated)
	assert.Nil(t, session.Category)

	last := f.waha.sent[len(f.waha.sent)-1]
	assert.Contains(t, last.Text, "terjadi kesalahan")
}

func TestWebhookEndCommandTerminates(t *testing.T) {
	f := newConvFixture(t)
	require.NoError(t, f.svc.HandleWebhook(context.Background(), inbound("halo")))
	session := f.openSession(t)

	require.NoError(t, f.svc.HandleWebhook(context.Background(), inbound("  /end  ")))

	assert.Equal(t, []uuid.UUID{session.ID}, f.store.terminated)
	last := f.waha.sent[len(f.waha.sent)-1]
	assert.Contains(t, last.Text, "Sesi percakapan telah berakhir")

	userMessages := f.store.messagesByRole(model.RoleUser)
	assert.Equal(t, "/end", userMessages[len(userMessages)-1].Text)
}

func TestWebhookEndNotExactMatchIsOrdinary(t *testing.T) {
	f := newConvFixture(t)
	require.NoError(t, f.svc.HandleWebhook(context.Background(), inbound("halo")))

	require.NoError(t, f.svc.HandleWebhook(context.Background(), inbound("please /end now")))

	assert.Empty(t, f.store.terminated)
}

func TestWebhookExpiredSessionRestarts(t *testing.T) {
	f := newConvFixture(t)
	require.NoError(t, f.svc.HandleWebhook(context.Background(), inbound("halo")))
	old := f.openSession(t)

	// Push last activity past the idle timeout.
	f.svc.now = func() time.Time { return time.Now().Add(31 * time.Minute) }

	require.NoError(t, f.svc.HandleWebhook(context.Background(), inbound("masih ada?")))

	assert.Contains(t, f.store.terminated, old.ID)
	fresh := f.openSession(t)
	assert.NotEqual(t, old.ID, fresh.ID)

	// The new session got its own welcome.
	last := f.waha.sent[len(f.waha.sent)-1]
	assert.Contains(t, last.Text, "Pilih Salah 1 Kategori")
}

func TestWebhookActiveSessionRelaysToAgent(t *testing.T) {
	f := newConvFixture(t)
	require.NoError(t, f.svc.HandleWebhook(context.Background(), inbound("halo")))
	require.NoError(t, f.svc.HandleWebhook(context.Background(), inbound("2")))

	require.NoError(t, f.svc.HandleWebhook(context.Background(), inbound("tolong handuk tambahan")))
	f.svc.Wait()

	assert.Equal(t, []string{"tolong handuk tambahan"}, f.agent.chats)
	assert.Equal(t, []string{guestPhone}, f.waha.typing)

	last := f.waha.sent[len(f.waha.sent)-1]
	assert.Equal(t, "Tentu, segera kami bantu.", last.Text)

	system := f.store.messagesByRole(model.RoleSystem)
	assert.Equal(t, "Tentu, segera kami bantu.", system[len(system)-1].Text)
}

func TestWebhookAgentUnavailableSendsWaitMessage(t *testing.T) {
	f := newConvFixture(t)
	require.NoError(t, f.svc.HandleWebhook(context.Background(), inbound("halo")))
	require.NoError(t, f.svc.HandleWebhook(context.Background(), inbound("2")))

	f.agent.unavailable = true
	require.NoError(t, f.svc.HandleWebhook(context.Background(), inbound("ada orang?")))
	f.svc.Wait()

	assert.Empty(t, f.agent.chats)
	last := f.waha.sent[len(f.waha.sent)-1]
	assert.Contains(t, last.Text, "Mohon menunggu sebentar")
}

func TestWebhookAgentEmptyReplyNotSent(t *testing.T) {
	f := newConvFixture(t)
	require.NoError(t, f.svc.HandleWebhook(context.Background(), inbound("halo")))
	require.NoError(t, f.svc.HandleWebhook(context.Background(), inbound("2")))

	f.agent.reply = ""
	sentBefore := len(f.waha.sent)
	require.NoError(t, f.svc.HandleWebhook(context.Background(), inbound("hmm")))
	f.svc.Wait()

	assert.Len(t, f.waha.sent, sentBefore)
}

func TestWebhookGatewayFailureDoesNotFail(t *testing.T) {
	f := newConvFixture(t)
	f.waha.sendErr = errBoom

	require.NoError(t, f.svc.HandleWebhook(context.Background(), inbound("halo")))

	// Session and messages are committed even though delivery failed.
	f.openSession(t)
	assert.Len(t, f.store.messages, 2)
}

func TestParseCategory(t *testing.T) {
	assert.Equal(t, model.CategoryGeneralInformation, parseCategory("1"))
	assert.Equal(t, model.CategoryRoomService, parseCategory(" 2 "))
	assert.Equal(t, model.CategoryCustomerService, parseCategory("3"))
	assert.Empty(t, parseCategory("4"))
	assert.Empty(t, parseCategory("1 please"))
	assert.Empty(t, parseCategory(""))
}
