package gateway

// Structured log field names used across the gateway. Keeping them in one
// place makes the JSON output greppable.
const (
	LogFieldRequestID  = "request_id"
	LogFieldTraceID    = "trace_id"
	LogFieldMethod     = "method"
	LogFieldURL        = "url"
	LogFieldRemoteIP   = "remote_ip"
	LogFieldUserAgent  = "user_agent"
	LogFieldStatusCode = "status_code"
	LogFieldDuration   = "duration_ms"
	LogFieldSize       = "response_size"
	LogFieldState      = "state"
	LogFieldNumber     = "number"
	LogFieldTarget     = "target"
	LogFieldError      = "error"
)
