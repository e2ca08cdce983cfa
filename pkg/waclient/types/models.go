package types

import "time"

// SendAck is the provider acknowledgment for a delivered message. It is
// returned verbatim in the /send response body.
type SendAck struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// Recipient is the result of a directory lookup for a phone number.
type Recipient struct {
	// JID is the canonical address confirmed by the directory, empty when
	// the number is not registered.
	JID          string `json:"jid"`
	IsRegistered bool   `json:"isRegistered"`
}

// ClientConfig configures the underlying WhatsApp client.
type ClientConfig struct {
	StorePath  string
	DeviceName string
}

// Event is a lifecycle notification emitted by the client. Exactly one
// consumer drains the event channel.
type Event interface {
	isEvent()
}

// PairingCodeEvent carries a fresh QR payload to display to the operator.
// Codes rotate until one is scanned, each new event replaces the previous.
type PairingCodeEvent struct {
	Code string
}

// ReadyEvent means the session is authenticated and connected.
type ReadyEvent struct {
	// ID is the device's own canonical address.
	ID string
}

// DisconnectedEvent means the link dropped but credentials are still valid.
type DisconnectedEvent struct {
	Reason string
}

// LoggedOutEvent means the pairing was revoked and stored credentials are
// no longer usable.
type LoggedOutEvent struct {
	Reason string
}

func (PairingCodeEvent) isEvent()  {}
func (ReadyEvent) isEvent()        {}
func (DisconnectedEvent) isEvent() {}
func (LoggedOutEvent) isEvent()    {}
