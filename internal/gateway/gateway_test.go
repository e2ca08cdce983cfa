package gateway

import (
	"context"
	"fmt"
	"testing"
	"time"

	"zapgate/internal/errors"
	"zapgate/internal/models"
	watypes "zapgate/pkg/waclient/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockWAClient struct {
	mock.Mock
	events chan watypes.Event
}

func newMockWAClient() *mockWAClient {
	return &mockWAClient{events: make(chan watypes.Event, 8)}
}

func (m *mockWAClient) Connect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockWAClient) Disconnect() {
	m.Called()
}

func (m *mockWAClient) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockWAClient) SendText(ctx context.Context, chatID, message string) (*watypes.SendAck, error) {
	args := m.Called(ctx, chatID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*watypes.SendAck), args.Error(1)
}

func (m *mockWAClient) LookupRecipient(ctx context.Context, digits string) (*watypes.Recipient, error) {
	args := m.Called(ctx, digits)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*watypes.Recipient), args.Error(1)
}

func (m *mockWAClient) Events() <-chan watypes.Event {
	return m.events
}

func (m *mockWAClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func testConfig() *models.Config {
	return &models.Config{
		Resolver: models.ResolverConfig{
			DefaultCountryCode: "55",
			LookupTimeoutSec:   1,
			CacheTTLMinutes:    1,
			BreakerMaxFailures: 3,
			BreakerCooldownSec: 60,
		},
		Reconnect: models.ReconnectConfig{
			InitialBackoffMs: 1,
			MaxBackoffMs:     5,
		},
	}
}

func TestGateway_StatusBeforeReady(t *testing.T) {
	gw := NewGateway(newMockWAClient(), testConfig(), testLogger())

	status := gw.Status()
	assert.False(t, status.Ready)
	assert.Equal(t, "OFFLINE", status.Info)
	assert.Equal(t, StateInitializing, gw.State())
}

func TestGateway_SendTextNotReady(t *testing.T) {
	gw := NewGateway(newMockWAClient(), testConfig(), testLogger())

	_, err := gw.SendText(context.Background(), models.SendRequest{
		Number:  "31999999999",
		Message: "hello",
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNotReady, errors.GetCode(err))
}

func TestGateway_SendTextInvalidInput(t *testing.T) {
	gw := NewGateway(newMockWAClient(), testConfig(), testLogger())

	_, err := gw.SendText(context.Background(), models.SendRequest{Number: "31999999999"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))

	_, err = gw.SendText(context.Background(), models.SendRequest{Message: "hello"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))
}

func TestGateway_SendTextSuccess(t *testing.T) {
	client := newMockWAClient()
	gw := NewGateway(client, testConfig(), testLogger())
	gw.handleEvent(context.Background(), watypes.ReadyEvent{ID: "self@s.whatsapp.net"})

	client.On("LookupRecipient", mock.Anything, "5531999999999").
		Return(&watypes.Recipient{JID: "5531999999999@s.whatsapp.net", IsRegistered: true}, nil)
	client.On("SendText", mock.Anything, "5531999999999@s.whatsapp.net", "hello").
		Return(&watypes.SendAck{ID: "MSG1", Timestamp: time.Now()}, nil)

	resp, err := gw.SendText(context.Background(), models.SendRequest{
		Number:  "31999999999",
		Message: "hello",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "5531999999999@s.whatsapp.net", resp.TargetID)
	require.NotNil(t, resp.Response)
	assert.Equal(t, "MSG1", resp.Response.ID)
	client.AssertExpectations(t)
}

func TestGateway_SendTextBlindSendOnLookupFailure(t *testing.T) {
	client := newMockWAClient()
	gw := NewGateway(client, testConfig(), testLogger())
	gw.handleEvent(context.Background(), watypes.ReadyEvent{})

	client.On("LookupRecipient", mock.Anything, "5531999999999").
		Return(nil, fmt.Errorf("directory unavailable"))
	client.On("SendText", mock.Anything, "5531999999999@s.whatsapp.net", "hello").
		Return(&watypes.SendAck{ID: "MSG2", Timestamp: time.Now()}, nil)

	resp, err := gw.SendText(context.Background(), models.SendRequest{
		Number:  "31999999999",
		Message: "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "5531999999999@s.whatsapp.net", resp.TargetID)
	client.AssertExpectations(t)
}

func TestGateway_SendTextRelayFailure(t *testing.T) {
	client := newMockWAClient()
	gw := NewGateway(client, testConfig(), testLogger())
	gw.handleEvent(context.Background(), watypes.ReadyEvent{})

	client.On("LookupRecipient", mock.Anything, mock.Anything).
		Return(&watypes.Recipient{JID: "5531999999999@s.whatsapp.net", IsRegistered: true}, nil)
	client.On("SendText", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("stream closed"))

	_, err := gw.SendText(context.Background(), models.SendRequest{
		Number:  "31999999999",
		Message: "hello",
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeRelayFailed, errors.GetCode(err))
	assert.Equal(t, "stream closed", errors.CauseMessage(err))
}

func TestGateway_EventTransitions(t *testing.T) {
	client := newMockWAClient()
	gw := NewGateway(client, testConfig(), testLogger())
	ctx := context.Background()

	gw.handleEvent(ctx, watypes.PairingCodeEvent{Code: "qr-payload"})
	assert.Equal(t, StateAwaitingPairing, gw.State())
	assert.Equal(t, "qr-payload", gw.PairingCode())

	gw.handleEvent(ctx, watypes.ReadyEvent{ID: "self@s.whatsapp.net"})
	assert.Equal(t, StateReady, gw.State())
	assert.Empty(t, gw.PairingCode())
	assert.Equal(t, "ONLINE", gw.Status().Info)
}

func TestGateway_DisconnectTriggersReconnect(t *testing.T) {
	client := newMockWAClient()
	gw := NewGateway(client, testConfig(), testLogger())
	ctx := context.Background()

	reconnected := make(chan struct{})
	client.On("Connect", mock.Anything).Run(func(args mock.Arguments) {
		close(reconnected)
	}).Return(nil).Once()

	gw.handleEvent(ctx, watypes.ReadyEvent{})
	gw.handleEvent(ctx, watypes.DisconnectedEvent{Reason: "connection closed"})
	assert.Equal(t, StateDisconnected, gw.State())
	assert.Equal(t, "OFFLINE", gw.Status().Info)

	select {
	case <-reconnected:
	case <-time.After(time.Second):
		t.Fatal("expected a reconnect attempt")
	}
}

func TestGateway_LogoutRestartsPairingFlow(t *testing.T) {
	client := newMockWAClient()
	gw := NewGateway(client, testConfig(), testLogger())
	ctx := context.Background()

	reconnected := make(chan struct{})
	client.On("Connect", mock.Anything).Run(func(args mock.Arguments) {
		close(reconnected)
	}).Return(nil).Once()

	gw.handleEvent(ctx, watypes.ReadyEvent{ID: "self@s.whatsapp.net"})
	gw.handleEvent(ctx, watypes.LoggedOutEvent{Reason: "device removed"})

	assert.Equal(t, StateInitializing, gw.State())
	select {
	case <-reconnected:
	case <-time.After(time.Second):
		t.Fatal("expected a restart attempt")
	}
}

func TestGateway_RunConsumesEventsUntilCancelled(t *testing.T) {
	client := newMockWAClient()
	gw := NewGateway(client, testConfig(), testLogger())

	client.On("Connect", mock.Anything).Return(nil)
	client.On("Disconnect").Return()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gw.Run(ctx) }()

	client.events <- watypes.PairingCodeEvent{Code: "qr"}
	client.events <- watypes.ReadyEvent{ID: "self@s.whatsapp.net"}

	require.Eventually(t, func() bool {
		return gw.State() == StateReady
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancel")
	}
	client.AssertCalled(t, "Disconnect")
}

func TestGateway_RunFailsWhenInitialConnectExhausted(t *testing.T) {
	client := newMockWAClient()
	cfg := testConfig()
	gw := NewGateway(client, cfg, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client.On("Connect", mock.Anything).Return(fmt.Errorf("no network"))

	err := gw.Run(ctx)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInternalError, errors.GetCode(err))
}
