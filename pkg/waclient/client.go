package waclient

import (
	"context"
	"errors"
	"fmt"

	"zapgate/internal/constants"
	"zapgate/pkg/waclient/types"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"go.mau.fi/whatsmeow"
	waE2E "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	waTypes "go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"
)

// Client is the whatsmeow-backed implementation of types.WAClient. It owns
// the sqlite credential store and translates whatsmeow events into the
// gateway's lifecycle events.
type Client struct {
	wm        *whatsmeow.Client
	container *sqlstore.Container
	logger    *logrus.Logger
	events    chan types.Event
}

var _ types.WAClient = (*Client)(nil)

// NewClient opens the credential store at cfg.StorePath and prepares a
// client for the first stored device, creating a fresh one when the store
// is empty.
func NewClient(ctx context.Context, cfg types.ClientConfig, logger *logrus.Logger) (*Client, error) {
	if cfg.StorePath == "" {
		cfg.StorePath = constants.DefaultStorePath
	}
	if cfg.DeviceName == "" {
		cfg.DeviceName = constants.DefaultDeviceName
	}

	store.DeviceProps.Os = proto.String(cfg.DeviceName)

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", cfg.StorePath)
	container, err := sqlstore.New(ctx, "sqlite3", dsn, waLog.Noop)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		_ = container.Close()
		return nil, fmt.Errorf("failed to load device from store: %w", err)
	}

	c := &Client{
		wm:        whatsmeow.NewClient(device, waLog.Noop),
		container: container,
		logger:    logger,
		events:    make(chan types.Event, constants.EventChannelSize),
	}
	c.wm.AddEventHandler(c.handleEvent)

	return c, nil
}

// Connect establishes the link. With no stored credentials it starts a
// pairing flow: QR payloads arrive on Events() until one is scanned.
func (c *Client) Connect(ctx context.Context) error {
	if c.wm.Store.ID == nil {
		qrChan, err := c.wm.GetQRChannel(ctx)
		if err != nil && !errors.Is(err, whatsmeow.ErrQRStoreContainsID) {
			return fmt.Errorf("failed to open QR channel: %w", err)
		}
		if err == nil {
			go c.forwardQR(qrChan)
		}
	}

	if err := c.wm.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	return nil
}

// Disconnect tears down the link without touching stored credentials.
func (c *Client) Disconnect() {
	c.wm.Disconnect()
}

// Logout revokes the pairing and clears stored credentials.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.wm.Logout(ctx); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// SendText delivers a text message to a canonical recipient address.
func (c *Client) SendText(ctx context.Context, chatID, message string) (*types.SendAck, error) {
	jid, err := waTypes.ParseJID(chatID)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient address %q: %w", chatID, err)
	}

	resp, err := c.wm.SendMessage(ctx, jid, &waE2E.Message{
		Conversation: proto.String(message),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	return &types.SendAck{
		ID:        resp.ID,
		Timestamp: resp.Timestamp,
	}, nil
}

// LookupRecipient asks the directory whether a phone number is registered.
func (c *Client) LookupRecipient(ctx context.Context, digits string) (*types.Recipient, error) {
	resp, err := c.wm.IsOnWhatsApp(ctx, []string{"+" + digits})
	if err != nil {
		return nil, fmt.Errorf("directory lookup failed: %w", err)
	}
	if len(resp) == 0 {
		return nil, fmt.Errorf("directory lookup returned no result for query")
	}

	r := resp[0]
	recipient := &types.Recipient{IsRegistered: r.IsIn}
	if r.IsIn && r.JID.User != "" {
		recipient.JID = r.JID.String()
	}
	return recipient, nil
}

// Events returns the lifecycle event stream.
func (c *Client) Events() <-chan types.Event {
	return c.events
}

// Close releases the credential store.
func (c *Client) Close() error {
	c.wm.Disconnect()
	return c.container.Close()
}

// IsConnected reports whether the websocket is currently up.
func (c *Client) IsConnected() bool {
	return c.wm.IsConnected()
}

func (c *Client) forwardQR(qrChan <-chan whatsmeow.QRChannelItem) {
	for item := range qrChan {
		switch item.Event {
		case "code":
			c.emit(types.PairingCodeEvent{Code: item.Code})
		case "success":
			// ReadyEvent follows from events.Connected
		default:
			c.logger.WithField("event", item.Event).Debug("Pairing channel event")
		}
	}
}

func (c *Client) handleEvent(evt interface{}) {
	switch e := evt.(type) {
	case *events.Connected:
		id := ""
		if c.wm.Store.ID != nil {
			id = c.wm.Store.ID.String()
		}
		c.emit(types.ReadyEvent{ID: id})
	case *events.Disconnected:
		c.emit(types.DisconnectedEvent{Reason: "connection closed"})
	case *events.StreamReplaced:
		c.emit(types.DisconnectedEvent{Reason: "stream replaced by another device"})
	case *events.LoggedOut:
		c.emit(types.LoggedOutEvent{Reason: e.Reason.String()})
	}
}

// emit never blocks the whatsmeow event loop. A full channel means the
// consumer stalled; dropping is safe because every event type is either
// superseded by the next one or re-derivable from client state.
func (c *Client) emit(event types.Event) {
	select {
	case c.events <- event:
	default:
		c.logger.WithField("event", fmt.Sprintf("%T", event)).Warn("Event channel full, dropping event")
	}
}
