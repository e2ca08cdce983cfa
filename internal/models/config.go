package models

// Config is the top-level gateway configuration, loaded from a JSON file
// with environment overrides applied afterwards.
type Config struct {
	Server    ServerConfig    `json:"server"`
	Store     StoreConfig     `json:"store"`
	Resolver  ResolverConfig  `json:"resolver"`
	Reconnect ReconnectConfig `json:"reconnect"`
	Tracing   TracingConfig   `json:"tracing"`
	LogLevel  string          `json:"logLevel"`
	// QRToTerminal additionally renders every pairing code on stdout so an
	// operator with shell access doesn't need to open the /qr page.
	QRToTerminal bool `json:"qrToTerminal"`
}

// ServerConfig controls the HTTP facade.
type ServerConfig struct {
	Port             int   `json:"port"`
	ReadTimeoutSec   int   `json:"readTimeoutSec"`
	WriteTimeoutSec  int   `json:"writeTimeoutSec"`
	IdleTimeoutSec   int   `json:"idleTimeoutSec"`
	MaxSendBodyBytes int64 `json:"maxSendBodyBytes"`
	// APIKey guards POST /send when non-empty. Set via ZAPGATE_API_KEY,
	// never via the config file.
	APIKey string `json:"-"`
}

// StoreConfig locates the sqlite credential store of the underlying client.
type StoreConfig struct {
	Path       string `json:"path"`
	DeviceName string `json:"deviceName"`
}

// ResolverConfig controls recipient address resolution.
type ResolverConfig struct {
	DefaultCountryCode string `json:"defaultCountryCode"`
	LookupTimeoutSec   int    `json:"lookupTimeoutSec"`
	CacheTTLMinutes    int    `json:"cacheTTLMinutes"`
	BreakerMaxFailures uint32 `json:"breakerMaxFailures"`
	BreakerCooldownSec int    `json:"breakerCooldownSec"`
}

// ReconnectConfig bounds the backoff between reconnection attempts after a
// dropped session.
type ReconnectConfig struct {
	InitialBackoffMs int `json:"initialBackoffMs"`
	MaxBackoffMs     int `json:"maxBackoffMs"`
}

// TracingConfig contains the OpenTelemetry settings.
type TracingConfig struct {
	Enabled        bool    `json:"enabled"`
	ServiceName    string  `json:"serviceName"`
	ServiceVersion string  `json:"serviceVersion"`
	Environment    string  `json:"environment"`
	OTLPEndpoint   string  `json:"otlpEndpoint"`
	SampleRate     float64 `json:"sampleRate"`
	UseStdout      bool    `json:"useStdout"`
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return e.Message
}
