package retry

import (
	"context"
	"time"

	"zapgate/internal/constants"
)

// BackoffConfig holds configuration for exponential backoff retry logic.
type BackoffConfig struct {
	InitialBackoffMs int
	MaxBackoffMs     int
	// MaxAttempts <= 0 retries until the context is cancelled. The reconnect
	// loop runs in this mode.
	MaxAttempts int
	Multiplier  float64
}

// DefaultReconnectConfig returns the backoff used between reconnection
// attempts after a dropped session.
func DefaultReconnectConfig() BackoffConfig {
	return BackoffConfig{
		InitialBackoffMs: constants.DefaultReconnectInitialBackoffMs,
		MaxBackoffMs:     constants.DefaultReconnectMaxBackoffMs,
		MaxAttempts:      0,
		Multiplier:       constants.DefaultBackoffMultiplier,
	}
}

// WithBackoff executes fn, retrying with exponential backoff on failure.
// It stops on success, on context cancellation, or after MaxAttempts when
// that is positive.
func WithBackoff(ctx context.Context, config BackoffConfig, fn func() error) error {
	multiplier := config.Multiplier
	if multiplier <= 1 {
		multiplier = constants.DefaultBackoffMultiplier
	}

	backoffMs := config.InitialBackoffMs
	var lastErr error

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if config.MaxAttempts > 0 && attempt >= config.MaxAttempts {
			return lastErr
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(backoffMs) * time.Millisecond):
		}

		backoffMs = int(float64(backoffMs) * multiplier)
		if backoffMs > config.MaxBackoffMs {
			backoffMs = config.MaxBackoffMs
		}
	}
}
