package gateway

import (
	"sync"

	"zapgate/internal/metrics"

	"github.com/sirupsen/logrus"
)

// SessionState is the lifecycle state of the WhatsApp session.
type SessionState string

const (
	// StateInitializing covers startup and every restart attempt before the
	// link is established.
	StateInitializing SessionState = "INITIALIZING"
	// StateAwaitingPairing means no stored credentials exist and a QR code
	// is waiting to be scanned.
	StateAwaitingPairing SessionState = "AWAITING_PAIRING"
	// StateReady means the session is authenticated and can send.
	StateReady SessionState = "READY"
	// StateDisconnected means the link dropped; a reconnect is in progress.
	StateDisconnected SessionState = "DISCONNECTED"
)

// SessionTracker holds the session state machine. All writes go through the
// event consumer goroutine; reads come from HTTP handlers.
type SessionTracker struct {
	mu               sync.RWMutex
	state            SessionState
	selfID           string
	pairingCode      string
	disconnectReason string
	logger           *logrus.Logger
}

// NewSessionTracker creates a tracker in the INITIALIZING state.
func NewSessionTracker(logger *logrus.Logger) *SessionTracker {
	return &SessionTracker{
		state:  StateInitializing,
		logger: logger,
	}
}

// State returns the current session state.
func (t *SessionTracker) State() SessionState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// IsReady reports whether sends are currently allowed.
func (t *SessionTracker) IsReady() bool {
	return t.State() == StateReady
}

// SelfID returns the device's own canonical address, empty before the first
// successful connection.
func (t *SessionTracker) SelfID() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.selfID
}

// PairingCode returns the latest QR payload, empty unless pairing is
// pending.
func (t *SessionTracker) PairingCode() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pairingCode
}

// SetPairingCode stores a fresh QR payload and moves to AWAITING_PAIRING.
// Codes rotate until one is scanned; each call replaces the previous code.
func (t *SessionTracker) SetPairingCode(code string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.transitionLocked(StateAwaitingPairing)
	t.pairingCode = code
}

// SetReady records a successful connection and clears any pending QR.
func (t *SessionTracker) SetReady(selfID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.transitionLocked(StateReady)
	t.pairingCode = ""
	if selfID != "" {
		t.selfID = selfID
	}
}

// SetDisconnected records a dropped link and keeps the reason for
// diagnostics.
func (t *SessionTracker) SetDisconnected(reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateDisconnected {
		return
	}
	t.disconnectReason = reason
	t.logger.WithFields(logrus.Fields{
		LogFieldState: StateDisconnected,
		"reason":      reason,
	}).Warn("Session disconnected")
	t.transitionLocked(StateDisconnected)
}

// DisconnectReason returns the reason of the most recent disconnect, empty
// if the session never dropped.
func (t *SessionTracker) DisconnectReason() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.disconnectReason
}

// SetInitializing resets the machine for a restart. Used after a logout,
// when stored credentials are gone and the whole flow begins again.
func (t *SessionTracker) SetInitializing() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.transitionLocked(StateInitializing)
	t.pairingCode = ""
	t.selfID = ""
}

func (t *SessionTracker) transitionLocked(next SessionState) {
	if t.state == next {
		return
	}
	t.logger.WithFields(logrus.Fields{
		"from":        t.state,
		LogFieldState: next,
	}).Info("Session state changed")
	t.state = next
	metrics.IncrementCounter("session_transitions_total")
	if next == StateReady {
		metrics.SetGauge("session_ready", 1)
	} else {
		metrics.SetGauge("session_ready", 0)
	}
}
