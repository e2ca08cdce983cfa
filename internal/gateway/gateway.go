package gateway

import (
	"context"
	"os"
	"sync/atomic"
	"time"

	"zapgate/internal/errors"
	"zapgate/internal/metrics"
	"zapgate/internal/models"
	"zapgate/internal/privacy"
	"zapgate/internal/retry"
	"zapgate/internal/tracing"
	watypes "zapgate/pkg/waclient/types"

	"github.com/mdp/qrterminal/v3"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// Gateway ties the WhatsApp client, the session state machine and the
// recipient resolver together. Run drives the lifecycle; SendText and
// Status serve the HTTP facade.
type Gateway struct {
	client       watypes.WAClient
	session      *SessionTracker
	resolver     *Resolver
	reconnect    retry.BackoffConfig
	qrToTerminal bool
	reconnecting atomic.Bool
	logger       *logrus.Logger
}

// NewGateway wires a gateway from its parts.
func NewGateway(client watypes.WAClient, cfg *models.Config, logger *logrus.Logger) *Gateway {
	return &Gateway{
		client:   client,
		session:  NewSessionTracker(logger),
		resolver: NewResolver(client, cfg.Resolver, logger),
		reconnect: retry.BackoffConfig{
			InitialBackoffMs: cfg.Reconnect.InitialBackoffMs,
			MaxBackoffMs:     cfg.Reconnect.MaxBackoffMs,
		},
		qrToTerminal: cfg.QRToTerminal,
		logger:       logger,
	}
}

// Run connects the client and consumes lifecycle events until the context
// is cancelled. It owns all session state transitions.
func (g *Gateway) Run(ctx context.Context) error {
	g.logger.Info("Starting WhatsApp session")

	if err := retry.WithBackoff(ctx, g.reconnect, func() error {
		return g.client.Connect(ctx)
	}); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "initial connect failed")
	}

	for {
		select {
		case <-ctx.Done():
			g.logger.Info("Stopping WhatsApp session")
			g.client.Disconnect()
			return nil
		case event, ok := <-g.client.Events():
			if !ok {
				return nil
			}
			g.handleEvent(ctx, event)
		}
	}
}

func (g *Gateway) handleEvent(ctx context.Context, event watypes.Event) {
	switch e := event.(type) {
	case watypes.PairingCodeEvent:
		g.session.SetPairingCode(e.Code)
		g.logger.Info("Pairing code received, scan it with the WhatsApp app")
		if g.qrToTerminal {
			qrterminal.GenerateHalfBlock(e.Code, qrterminal.L, os.Stdout)
		}
	case watypes.ReadyEvent:
		g.session.SetReady(e.ID)
		g.logger.WithField("self", privacy.MaskChatID(e.ID)).Info("Session ready")
	case watypes.DisconnectedEvent:
		g.session.SetDisconnected(e.Reason)
		g.restart(ctx)
	case watypes.LoggedOutEvent:
		// Credentials are gone; the restart runs the pairing flow again.
		g.logger.WithField("reason", e.Reason).Warn("Session logged out, restarting pairing flow")
		g.session.SetInitializing()
		g.restart(ctx)
	}
}

// restart reconnects with backoff in the background. At most one restart
// runs at a time; the event consumer keeps draining meanwhile.
func (g *Gateway) restart(ctx context.Context) {
	if !g.reconnecting.CompareAndSwap(false, true) {
		return
	}

	go func() {
		defer g.reconnecting.Store(false)
		metrics.IncrementCounter("session_restarts_total")

		err := retry.WithBackoff(ctx, g.reconnect, func() error {
			return g.client.Connect(ctx)
		})
		if err != nil && ctx.Err() == nil {
			g.logger.WithError(err).Error("Reconnect failed")
		}
	}()
}

// SendText resolves the recipient and delivers the message. It fails fast
// with a NOT_READY error while the session cannot send.
func (g *Gateway) SendText(ctx context.Context, req models.SendRequest) (*models.SendResponse, error) {
	start := time.Now()
	spanCtx, span := tracing.StartSpan(ctx, "gateway.send_text")
	defer span.End()

	if req.Number == "" || req.Message == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "number and message are required")
	}

	if !g.session.IsReady() {
		metrics.IncrementCounter("send_rejected_not_ready_total")
		return nil, errors.New(errors.ErrCodeNotReady, "session is not ready")
	}

	addr, err := g.resolver.Resolve(spanCtx, req.Number)
	if err != nil {
		return nil, err
	}

	tracing.AddSpanAttributes(spanCtx,
		attribute.Bool("recipient.confirmed", addr.Confirmed),
	)

	ack, err := g.client.SendText(spanCtx, addr.CanonicalID, req.Message)
	if err != nil {
		metrics.IncrementCounter("send_failures_total")
		g.logger.WithFields(logrus.Fields{
			LogFieldTarget: privacy.MaskChatID(addr.CanonicalID),
			LogFieldError:  err.Error(),
		}).Error("Message relay failed")
		return nil, errors.Wrap(err, errors.ErrCodeRelayFailed, "failed to relay message")
	}

	metrics.IncrementCounter("send_success_total")
	metrics.RecordTimer("send_duration", time.Since(start))
	g.logger.WithFields(logrus.Fields{
		LogFieldTarget: privacy.MaskChatID(addr.CanonicalID),
		"confirmed":    addr.Confirmed,
		"message_id":   ack.ID,
	}).Info("Message sent")

	return &models.SendResponse{
		Success:  true,
		TargetID: addr.CanonicalID,
		Response: ack,
	}, nil
}

// Status reports whether the gateway can send right now.
func (g *Gateway) Status() models.GatewayStatus {
	ready := g.session.IsReady()
	info := "OFFLINE"
	if ready {
		info = "ONLINE"
	}
	return models.GatewayStatus{Ready: ready, Info: info}
}

// PairingCode returns the pending QR payload, empty when none is waiting.
func (g *Gateway) PairingCode() string {
	return g.session.PairingCode()
}

// State exposes the session state for health reporting.
func (g *Gateway) State() SessionState {
	return g.session.State()
}
