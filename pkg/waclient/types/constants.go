package types

const (
	// CanonicalSuffix is the server part of an individual user address.
	CanonicalSuffix = "@s.whatsapp.net"
)
