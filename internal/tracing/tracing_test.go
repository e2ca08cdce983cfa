package tracing

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRequestID(t *testing.T) {
	id1 := GenerateRequestID()
	id2 := GenerateRequestID()

	assert.True(t, strings.HasPrefix(id1, "req_"))
	assert.NotEqual(t, id1, id2)
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req_abc")
	assert.Equal(t, "req_abc", GetRequestID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestDuration(t *testing.T) {
	assert.Equal(t, time.Duration(0), Duration(context.Background()))

	ctx := WithStartTime(context.Background(), time.Now().Add(-time.Second))
	assert.GreaterOrEqual(t, Duration(ctx), time.Second)
}

func TestGetRequestInfo(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req_abc")
	ctx = WithStartTime(ctx, time.Now())

	info := GetRequestInfo(ctx)
	assert.Equal(t, "req_abc", info.RequestID)
	assert.False(t, info.StartTime.IsZero())
	// no active span
	assert.Empty(t, info.TraceID)
	assert.Empty(t, info.SpanID)
}
