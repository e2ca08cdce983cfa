package metrics

import (
	"sync"
	"time"
)

// Counter represents a monotonically increasing counter.
type Counter struct {
	name  string
	value int64
	mu    sync.RWMutex
}

// NewCounter creates a new counter.
func NewCounter(name string) *Counter {
	return &Counter{name: name}
}

// Increment increases the counter by 1.
func (c *Counter) Increment() {
	c.Add(1)
}

// Add increases the counter by the given value.
func (c *Counter) Add(value int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value += value
}

// Get returns the current counter value.
func (c *Counter) Get() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Gauge represents a value that can go up and down.
type Gauge struct {
	name  string
	value float64
	mu    sync.RWMutex
}

// NewGauge creates a new gauge.
func NewGauge(name string) *Gauge {
	return &Gauge{name: name}
}

// Set sets the gauge value.
func (g *Gauge) Set(value float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.value = value
}

// Get returns the current gauge value.
func (g *Gauge) Get() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.value
}

// Timer tracks the count, total and extrema of recorded durations.
type Timer struct {
	name    string
	count   int64
	totalMs int64
	minMs   int64
	maxMs   int64
	mu      sync.RWMutex
}

// NewTimer creates a new timer.
func NewTimer(name string) *Timer {
	return &Timer{name: name, minMs: -1}
}

// Record adds a duration measurement.
func (t *Timer) Record(duration time.Duration) {
	ms := duration.Milliseconds()
	t.mu.Lock()
	defer t.mu.Unlock()

	t.count++
	t.totalMs += ms
	if t.minMs < 0 || ms < t.minMs {
		t.minMs = ms
	}
	if ms > t.maxMs {
		t.maxMs = ms
	}
}

// Stats returns the timer statistics as a map for the metrics endpoint.
func (t *Timer) Stats() map[string]interface{} {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := map[string]interface{}{
		"count": t.count,
	}
	if t.count > 0 {
		stats["avg_ms"] = t.totalMs / t.count
		stats["min_ms"] = t.minMs
		stats["max_ms"] = t.maxMs
	}
	return stats
}

// Registry holds all metrics for the gateway.
type Registry struct {
	counters map[string]*Counter
	gauges   map[string]*Gauge
	timers   map[string]*Timer
	mu       sync.RWMutex
}

// NewRegistry creates a new metrics registry.
func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[string]*Counter),
		gauges:   make(map[string]*Gauge),
		timers:   make(map[string]*Timer),
	}
}

// Counter returns the named counter, creating it if needed.
func (r *Registry) Counter(name string) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.counters[name]; ok {
		return c
	}
	c := NewCounter(name)
	r.counters[name] = c
	return c
}

// Gauge returns the named gauge, creating it if needed.
func (r *Registry) Gauge(name string) *Gauge {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok := r.gauges[name]; ok {
		return g
	}
	g := NewGauge(name)
	r.gauges[name] = g
	return g
}

// Timer returns the named timer, creating it if needed.
func (r *Registry) Timer(name string) *Timer {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.timers[name]; ok {
		return t
	}
	t := NewTimer(name)
	r.timers[name] = t
	return t
}

// GetAllMetrics returns a snapshot of every registered metric.
func (r *Registry) GetAllMetrics() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counters := make(map[string]int64, len(r.counters))
	for name, c := range r.counters {
		counters[name] = c.Get()
	}
	gauges := make(map[string]float64, len(r.gauges))
	for name, g := range r.gauges {
		gauges[name] = g.Get()
	}
	timers := make(map[string]interface{}, len(r.timers))
	for name, t := range r.timers {
		timers[name] = t.Stats()
	}

	return map[string]interface{}{
		"counters":  counters,
		"gauges":    gauges,
		"timers":    timers,
		"timestamp": time.Now().Unix(),
	}
}

var defaultRegistry = NewRegistry()

// GetDefaultRegistry returns the process-wide registry.
func GetDefaultRegistry() *Registry {
	return defaultRegistry
}

// IncrementCounter increments a counter in the default registry.
func IncrementCounter(name string) {
	defaultRegistry.Counter(name).Increment()
}

// AddToCounter adds to a counter in the default registry.
func AddToCounter(name string, value int64) {
	defaultRegistry.Counter(name).Add(value)
}

// SetGauge sets a gauge in the default registry.
func SetGauge(name string, value float64) {
	defaultRegistry.Gauge(name).Set(value)
}

// RecordTimer records a duration in the default registry.
func RecordTimer(name string, duration time.Duration) {
	defaultRegistry.Timer(name).Record(duration)
}

// GetAllMetrics returns all metrics from the default registry.
func GetAllMetrics() map[string]interface{} {
	return defaultRegistry.GetAllMetrics()
}
