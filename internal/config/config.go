package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"zapgate/internal/constants"
	"zapgate/internal/models"
	"zapgate/internal/security"
)

// LoadConfig reads the gateway configuration from a JSON file, fills in
// defaults, and applies environment overrides on top.
func LoadConfig(path string) (*models.Config, error) {
	if err := security.ValidateFilePath(path); err != nil {
		return nil, fmt.Errorf("invalid config file path: %w", err)
	}

	data, err := os.ReadFile(path) // #nosec G304 - path validated above
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg models.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvironmentOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *models.Config) error {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = constants.DefaultServerPort
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return &models.ConfigError{Message: fmt.Sprintf("server port out of range: %d", cfg.Server.Port)}
	}
	if cfg.Server.ReadTimeoutSec <= 0 {
		cfg.Server.ReadTimeoutSec = constants.DefaultServerReadTimeoutSec
	}
	if cfg.Server.WriteTimeoutSec <= 0 {
		cfg.Server.WriteTimeoutSec = constants.DefaultServerWriteTimeoutSec
	}
	if cfg.Server.IdleTimeoutSec <= 0 {
		cfg.Server.IdleTimeoutSec = constants.DefaultServerIdleTimeoutSec
	}
	if cfg.Server.MaxSendBodyBytes <= 0 {
		cfg.Server.MaxSendBodyBytes = constants.DefaultMaxSendBodyBytes
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = constants.DefaultStorePath
	}
	if err := security.ValidateFilePath(cfg.Store.Path); err != nil {
		return &models.ConfigError{Message: fmt.Sprintf("invalid store path: %v", err)}
	}
	if cfg.Store.DeviceName == "" {
		cfg.Store.DeviceName = constants.DefaultDeviceName
	}

	if cfg.Resolver.DefaultCountryCode == "" {
		cfg.Resolver.DefaultCountryCode = constants.DefaultCountryCode
	}
	for _, c := range cfg.Resolver.DefaultCountryCode {
		if c < '0' || c > '9' {
			return &models.ConfigError{Message: fmt.Sprintf("country code must be digits only: %q", cfg.Resolver.DefaultCountryCode)}
		}
	}
	if cfg.Resolver.LookupTimeoutSec <= 0 {
		cfg.Resolver.LookupTimeoutSec = constants.DefaultLookupTimeoutSec
	}
	if cfg.Resolver.CacheTTLMinutes <= 0 {
		cfg.Resolver.CacheTTLMinutes = constants.DefaultLookupCacheTTLMin
	}
	if cfg.Resolver.BreakerMaxFailures == 0 {
		cfg.Resolver.BreakerMaxFailures = constants.DefaultBreakerMaxFailures
	}
	if cfg.Resolver.BreakerCooldownSec <= 0 {
		cfg.Resolver.BreakerCooldownSec = constants.DefaultBreakerCooldownSec
	}

	if cfg.Reconnect.InitialBackoffMs <= 0 {
		cfg.Reconnect.InitialBackoffMs = constants.DefaultReconnectInitialBackoffMs
	}
	if cfg.Reconnect.MaxBackoffMs <= 0 {
		cfg.Reconnect.MaxBackoffMs = constants.DefaultReconnectMaxBackoffMs
	}
	if cfg.Reconnect.MaxBackoffMs < cfg.Reconnect.InitialBackoffMs {
		return &models.ConfigError{Message: "reconnect maxBackoffMs must be >= initialBackoffMs"}
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return nil
}

func applyEnvironmentOverrides(cfg *models.Config) {
	if port := os.Getenv("ZAPGATE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if storePath := os.Getenv("ZAPGATE_STORE_PATH"); storePath != "" {
		cfg.Store.Path = storePath
	}
	if cc := os.Getenv("ZAPGATE_COUNTRY_CODE"); cc != "" {
		cfg.Resolver.DefaultCountryCode = cc
	}
	if key := os.Getenv("ZAPGATE_API_KEY"); key != "" {
		cfg.Server.APIKey = key
	}
	if level := os.Getenv("ZAPGATE_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
}
