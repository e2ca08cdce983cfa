package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := New(ErrCodeNotReady, "session is not ready")
	assert.Equal(t, "NOT_READY: session is not ready", err.Error())

	wrapped := Wrap(fmt.Errorf("socket closed"), ErrCodeRelayFailed, "failed to relay message")
	assert.Equal(t, "RELAY_FAILED: failed to relay message: socket closed", wrapped.Error())
	assert.EqualError(t, wrapped.Unwrap(), "socket closed")
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeInvalidInput, GetCode(New(ErrCodeInvalidInput, "bad")))
	assert.Equal(t, ErrCodeInternalError, GetCode(fmt.Errorf("plain error")))
}

func TestCauseMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "wrapped error exposes cause",
			err:      Wrap(fmt.Errorf("connection reset"), ErrCodeRelayFailed, "failed to relay"),
			expected: "connection reset",
		},
		{
			name:     "bare app error exposes message",
			err:      New(ErrCodeNotReady, "session is not ready"),
			expected: "session is not ready",
		},
		{
			name:     "plain error passes through",
			err:      fmt.Errorf("boom"),
			expected: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CauseMessage(tt.err))
		})
	}
}

func TestHTTPStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatusCode(New(ErrCodeNotReady, "")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatusCode(New(ErrCodeInvalidInput, "")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatusCode(New(ErrCodeInvalidConfig, "")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusCode(New(ErrCodeRelayFailed, "")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusCode(fmt.Errorf("plain")))
}
