package types

import "context"

// WAClient is the transport-level WhatsApp client. Implementations own the
// credential store and the network connection; session state tracking lives
// with the consumer of Events().
type WAClient interface {
	// Connect establishes the link. When no stored credentials exist it
	// starts a pairing flow and emits PairingCodeEvents.
	Connect(ctx context.Context) error

	// Disconnect tears down the link without touching stored credentials.
	Disconnect()

	// Logout revokes the pairing and clears stored credentials.
	Logout(ctx context.Context) error

	// SendText delivers a text message to a canonical recipient address.
	SendText(ctx context.Context, chatID, message string) (*SendAck, error)

	// LookupRecipient asks the directory whether a phone number (digits
	// only, with country code) is registered.
	LookupRecipient(ctx context.Context, digits string) (*Recipient, error)

	// Events returns the lifecycle event stream.
	Events() <-chan Event

	// Close releases the credential store. The client is unusable after.
	Close() error
}
