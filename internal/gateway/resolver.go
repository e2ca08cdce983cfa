package gateway

import (
	"context"
	"strings"
	"time"

	"zapgate/internal/constants"
	"zapgate/internal/errors"
	"zapgate/internal/metrics"
	"zapgate/internal/models"
	"zapgate/internal/privacy"
	"zapgate/pkg/circuitbreaker"
	watypes "zapgate/pkg/waclient/types"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

type directoryLookup interface {
	LookupRecipient(ctx context.Context, digits string) (*watypes.Recipient, error)
}

// Resolver turns caller-supplied phone numbers into canonical recipient
// addresses. A directory lookup confirms the address when possible; when
// the lookup fails or the number is unregistered the resolver degrades to a
// blind-send address built from the digits, so a flaky directory never
// blocks outbound traffic.
type Resolver struct {
	lookup      directoryLookup
	cache       *gocache.Cache
	breaker     *circuitbreaker.CircuitBreaker
	countryCode string
	timeout     time.Duration
	logger      *logrus.Logger
}

// NewResolver creates a resolver from the given config.
func NewResolver(lookup directoryLookup, cfg models.ResolverConfig, logger *logrus.Logger) *Resolver {
	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	return &Resolver{
		lookup:      lookup,
		cache:       gocache.New(ttl, 2*ttl),
		breaker:     circuitbreaker.NewWithLogger("directory-lookup", cfg.BreakerMaxFailures, time.Duration(cfg.BreakerCooldownSec)*time.Second, logger),
		countryCode: cfg.DefaultCountryCode,
		timeout:     time.Duration(cfg.LookupTimeoutSec) * time.Second,
		logger:      logger,
	}
}

// Normalize reduces a raw phone number to dialable digits. Bare numbers of
// 10-11 digits are treated as domestic subscribers (area code, no country
// code) and get the configured country code prepended. A leading "+" marks
// the number as explicitly international and disables that assumption.
func (r *Resolver) Normalize(raw string) (*models.RecipientAddress, error) {
	trimmed := strings.TrimSpace(raw)
	explicit := strings.HasPrefix(trimmed, "+")

	var b strings.Builder
	for _, c := range trimmed {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	digits := b.String()
	if digits == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "phone number contains no digits")
	}

	if !explicit && len(digits) >= constants.MinDomesticDigits && len(digits) <= constants.MaxDomesticDigits {
		digits = r.countryCode + digits
	}

	return &models.RecipientAddress{
		NormalizedDigits:      digits,
		ExplicitInternational: explicit,
	}, nil
}

// Resolve normalizes a raw number and fills in the canonical address,
// consulting the directory through the cache and circuit breaker. Lookup
// failures are absorbed here: the returned address is always usable.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*models.RecipientAddress, error) {
	addr, err := r.Normalize(raw)
	if err != nil {
		return nil, err
	}

	if cached, found := r.cache.Get(addr.NormalizedDigits); found {
		addr.CanonicalID = cached.(string)
		addr.Confirmed = true
		metrics.IncrementCounter("resolver_cache_hits_total")
		return addr, nil
	}

	var recipient *watypes.Recipient
	err = r.breaker.Execute(ctx, func(ctx context.Context) error {
		lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		var lookupErr error
		recipient, lookupErr = r.lookup.LookupRecipient(lookupCtx, addr.NormalizedDigits)
		return lookupErr
	})

	if err == nil && recipient.IsRegistered && recipient.JID != "" {
		addr.CanonicalID = recipient.JID
		addr.Confirmed = true
		r.cache.SetDefault(addr.NormalizedDigits, recipient.JID)
		metrics.IncrementCounter("resolver_confirmed_total")
		return addr, nil
	}

	// Blind-send fallback. Unregistered numbers and lookup failures both
	// land here: the send may still succeed, and the provider's own error
	// is more useful to the caller than a resolution failure.
	addr.CanonicalID = addr.NormalizedDigits + watypes.CanonicalSuffix
	addr.Confirmed = false
	metrics.IncrementCounter("resolver_fallback_total")

	if err != nil {
		r.logger.WithFields(logrus.Fields{
			LogFieldNumber: privacy.MaskPhoneNumber(addr.NormalizedDigits),
			LogFieldError:  err.Error(),
		}).Warn("Directory lookup failed, using blind-send address")
	} else {
		r.logger.WithField(LogFieldNumber, privacy.MaskPhoneNumber(addr.NormalizedDigits)).
			Debug("Number not registered in directory, using blind-send address")
	}

	return addr, nil
}
