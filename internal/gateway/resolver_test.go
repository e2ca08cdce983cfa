package gateway

import (
	"context"
	"fmt"
	"testing"

	"zapgate/internal/errors"
	"zapgate/internal/models"
	watypes "zapgate/pkg/waclient/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLookup struct {
	calls  int
	result *watypes.Recipient
	err    error
}

func (s *stubLookup) LookupRecipient(ctx context.Context, digits string) (*watypes.Recipient, error) {
	s.calls++
	return s.result, s.err
}

func testResolverConfig() models.ResolverConfig {
	return models.ResolverConfig{
		DefaultCountryCode: "55",
		LookupTimeoutSec:   1,
		CacheTTLMinutes:    1,
		BreakerMaxFailures: 3,
		BreakerCooldownSec: 60,
	}
}

func TestNormalize(t *testing.T) {
	r := NewResolver(&stubLookup{}, testResolverConfig(), testLogger())

	tests := []struct {
		name           string
		input          string
		expectedDigits string
		explicit       bool
		wantErr        bool
	}{
		{"domestic 11 digits gets country code", "31999999999", "5531999999999", false, false},
		{"domestic 10 digits gets country code", "3199999999", "553199999999", false, false},
		{"formatted domestic number", "(31) 99999-9999", "5531999999999", false, false},
		{"full number untouched", "5531999999999", "5531999999999", false, false},
		{"explicit international skips prefix", "+13115552368", "13115552368", true, false},
		{"explicit international with 11 digits", "+4930123456789", "4930123456789", true, false},
		{"short number untouched", "190", "190", false, false},
		{"empty", "", "", false, true},
		{"no digits at all", "abc-def", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := r.Normalize(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedDigits, addr.NormalizedDigits)
			assert.Equal(t, tt.explicit, addr.ExplicitInternational)
		})
	}
}

func TestResolve_ConfirmedByDirectory(t *testing.T) {
	lookup := &stubLookup{result: &watypes.Recipient{
		JID:          "5531999999999@s.whatsapp.net",
		IsRegistered: true,
	}}
	r := NewResolver(lookup, testResolverConfig(), testLogger())

	addr, err := r.Resolve(context.Background(), "31999999999")
	require.NoError(t, err)
	assert.Equal(t, "5531999999999@s.whatsapp.net", addr.CanonicalID)
	assert.True(t, addr.Confirmed)
	assert.Equal(t, 1, lookup.calls)
}

func TestResolve_CachesConfirmedAddresses(t *testing.T) {
	lookup := &stubLookup{result: &watypes.Recipient{
		JID:          "5531999999999@s.whatsapp.net",
		IsRegistered: true,
	}}
	r := NewResolver(lookup, testResolverConfig(), testLogger())

	for i := 0; i < 3; i++ {
		addr, err := r.Resolve(context.Background(), "31999999999")
		require.NoError(t, err)
		assert.True(t, addr.Confirmed)
	}
	assert.Equal(t, 1, lookup.calls, "subsequent resolutions must hit the cache")
}

func TestResolve_UnregisteredFallsBack(t *testing.T) {
	lookup := &stubLookup{result: &watypes.Recipient{IsRegistered: false}}
	r := NewResolver(lookup, testResolverConfig(), testLogger())

	addr, err := r.Resolve(context.Background(), "31999999999")
	require.NoError(t, err)
	assert.Equal(t, "5531999999999@s.whatsapp.net", addr.CanonicalID)
	assert.False(t, addr.Confirmed)
}

func TestResolve_LookupErrorFallsBack(t *testing.T) {
	lookup := &stubLookup{err: fmt.Errorf("directory unavailable")}
	r := NewResolver(lookup, testResolverConfig(), testLogger())

	addr, err := r.Resolve(context.Background(), "+13115552368")
	require.NoError(t, err, "lookup failures must never surface to the caller")
	assert.Equal(t, "13115552368@s.whatsapp.net", addr.CanonicalID)
	assert.False(t, addr.Confirmed)
}

func TestResolve_BreakerOpenFallsBack(t *testing.T) {
	lookup := &stubLookup{err: fmt.Errorf("directory unavailable")}
	r := NewResolver(lookup, testResolverConfig(), testLogger())

	// trip the breaker
	for i := 0; i < 5; i++ {
		_, err := r.Resolve(context.Background(), "31999999999")
		require.NoError(t, err)
	}

	calls := lookup.calls
	assert.Equal(t, 3, calls, "breaker must stop forwarding after max failures")

	addr, err := r.Resolve(context.Background(), "31999999999")
	require.NoError(t, err)
	assert.False(t, addr.Confirmed)
	assert.Equal(t, calls, lookup.calls)
}

func TestResolve_InvalidInput(t *testing.T) {
	r := NewResolver(&stubLookup{}, testResolverConfig(), testLogger())
	_, err := r.Resolve(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))
}

// Fallback addresses are not cached: a later lookup may still confirm them.
func TestResolve_FallbackNotCached(t *testing.T) {
	lookup := &stubLookup{result: &watypes.Recipient{IsRegistered: false}}
	r := NewResolver(lookup, testResolverConfig(), testLogger())

	_, err := r.Resolve(context.Background(), "31999999999")
	require.NoError(t, err)

	lookup.result = &watypes.Recipient{JID: "5531999999999@s.whatsapp.net", IsRegistered: true}
	addr, err := r.Resolve(context.Background(), "31999999999")
	require.NoError(t, err)
	assert.True(t, addr.Confirmed)
	assert.Equal(t, 2, lookup.calls)
}
