package constants

// Default server configuration values
const (
	DefaultServerPort            = 3001
	DefaultServerReadTimeoutSec  = 15
	DefaultServerWriteTimeoutSec = 15
	DefaultServerIdleTimeoutSec  = 60
	DefaultGracefulShutdownSec   = 30
	DefaultMaxSendBodyBytes      = 64 * 1024
	ServerErrorChannelSize       = 1
)

// Default session store configuration
const (
	DefaultStorePath          = "zapgate.db"
	DefaultDeviceName         = "zapgate"
	DefaultStoreRetryAttempts = 3
)

// Recipient resolution defaults. The domestic country code is a deployment
// policy, not a validation rule: bare 10-11 digit numbers are assumed to be
// local subscribers with an area code and no country code.
const (
	DefaultCountryCode        = "55"
	MinDomesticDigits         = 10
	MaxDomesticDigits         = 11
	DefaultLookupTimeoutSec   = 10
	DefaultLookupCacheTTLMin  = 60
	DefaultBreakerMaxFailures = 5
	DefaultBreakerCooldownSec = 60
)

// Reconnect backoff defaults
const (
	DefaultReconnectInitialBackoffMs = 500
	DefaultReconnectMaxBackoffMs     = 60000
	DefaultBackoffMultiplier         = 2.0
)

// Lifecycle event plumbing
const (
	EventChannelSize = 32
)

// QR rendering
const (
	DefaultQRImageSizePx = 256
)
