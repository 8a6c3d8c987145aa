package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/apierr"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/model"
	"github.com/Voldemort-Project/mta-sga-cs-service/pkg/logger"
)

func relayFixture(mode model.SessionMode, status model.SessionStatus) (*RelayService, *fakeStore, *fakeWaha, uuid.UUID) {
	st := newFakeStore()
	waha := &fakeWaha{}

	sessionID := uuid.Must(uuid.NewV7())
	st.sessions[sessionID] = &model.Session{
		ID:     sessionID,
		Status: status,
		Mode:   mode,
		Guest: &model.User{
			ID:          uuid.Must(uuid.NewV7()),
			MobilePhone: "081234567890",
		},
	}

	return NewRelayService(st, waha, logger.NewNop()), st, waha, sessionID
}

func TestRelaySendAgentMode(t *testing.T) {
	svc, st, waha, sessionID := relayFixture(model.ModeAgent, model.SessionOpen)

	require.NoError(t, svc.Send(context.Background(), sessionID, "Pesanan Anda sedang diproses."))

	require.Len(t, waha.sent, 1)
	assert.Equal(t, "081234567890", waha.sent[0].Phone)

	system := st.messagesByRole(model.RoleSystem)
	require.Len(t, system, 1)
	assert.Equal(t, "Pesanan Anda sedang diproses.", system[0].Text)
}

func TestRelaySendManualModeSkipsRecord(t *testing.T) {
	svc, st, waha, sessionID := relayFixture(model.ModeManual, model.SessionOpen)

	require.NoError(t, svc.Send(context.Background(), sessionID, "halo"))

	assert.Len(t, waha.sent, 1)
	assert.Empty(t, st.messages)
}

func TestRelaySendTerminatedSessionNoop(t *testing.T) {
	svc, st, waha, sessionID := relayFixture(model.ModeAgent, model.SessionTerminated)

	require.NoError(t, svc.Send(context.Background(), sessionID, "halo"))

	assert.Empty(t, waha.sent)
	assert.Empty(t, st.messages)
}

func TestRelaySendUnknownSession(t *testing.T) {
	svc, _, _, _ := relayFixture(model.ModeAgent, model.SessionOpen)

	err := svc.Send(context.Background(), uuid.Must(uuid.NewV7()), "halo")
	require.Error(t, err)
	assert.Equal(t, apierr.CodeNotFound, apierr.From(err).Code)
}

func TestRelaySendNoPhone(t *testing.T) {
	svc, st, _, sessionID := relayFixture(model.ModeAgent, model.SessionOpen)
	st.sessions[sessionID].Guest.MobilePhone = ""

	err := svc.Send(context.Background(), sessionID, "halo")
	require.Error(t, err)
	assert.Equal(t, apierr.CodeBadRequest, apierr.From(err).Code)
}

func TestRelaySendGatewayFailureSurfaces(t *testing.T) {
	svc, _, waha, sessionID := relayFixture(model.ModeAgent, model.SessionOpen)
	waha.sendErr = errBoom

	err := svc.Send(context.Background(), sessionID, "halo")
	require.Error(t, err)
	assert.Equal(t, apierr.CodeInternal, apierr.From(err).Code)
}
