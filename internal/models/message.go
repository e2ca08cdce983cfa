package models

import "zapgate/pkg/waclient/types"

// SendRequest is the body of POST /send.
type SendRequest struct {
	Number  string `json:"number"`
	Message string `json:"message"`
}

// SendResponse is the success payload of POST /send. Response carries the
// provider's raw acknowledgment untouched.
type SendResponse struct {
	Success  bool           `json:"success"`
	TargetID string         `json:"targetId"`
	Response *types.SendAck `json:"response"`
}

// RecipientAddress is the resolved form of a caller-supplied phone number.
// It is derived per request and never stored.
type RecipientAddress struct {
	NormalizedDigits      string
	ExplicitInternational bool
	CanonicalID           string
	// Confirmed is true when the canonical id came from a successful
	// directory lookup rather than the blind-send fallback.
	Confirmed bool
}

// GatewayStatus is the payload of GET /status.
type GatewayStatus struct {
	Ready bool   `json:"ready"`
	Info  string `json:"info"`
}
