package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Job metrics
	JobsActive    prometheus.Gauge
	JobsTotal     *prometheus.CounterVec
	JobsCoalesced prometheus.Counter
	JobDuration   prometheus.Histogram

	// Variant metrics
	VariantsTotal   *prometheus.CounterVec
	VariantDuration *prometheus.HistogramVec

	// Compliance metrics
	ViolationsTotal *prometheus.CounterVec

	// Template registry metrics
	TemplatesRegistered prometheus.Gauge

	// Event metrics
	EventsTotal *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot Snapshot

	mu sync.RWMutex
}

// Snapshot holds current metric values for the health/JSON API
type Snapshot struct {
	TotalRequests int64
	TotalErrors   int64
	ActiveJobs    int64
	TotalJobs     int64
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "engine_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		JobsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "engine_jobs_active",
				Help: "Number of jobs currently pending or running",
			},
		),
		JobsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_jobs_total",
				Help: "Total number of jobs by terminal status",
			},
			[]string{"status"},
		),
		JobsCoalesced: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "engine_jobs_coalesced_total",
				Help: "Total number of submissions coalesced into a live job",
			},
		),
		JobDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "engine_job_duration_seconds",
				Help:    "Job duration from submission to terminal status",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),

		VariantsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_variants_total",
				Help: "Total number of platform variants by terminal status",
			},
			[]string{"platform", "status"},
		),
		VariantDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "engine_variant_duration_seconds",
				Help:    "Expand+validate duration per platform unit",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"platform"},
		),

		ViolationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_violations_total",
				Help: "Total number of constraint violations recorded",
			},
			[]string{"rule", "severity"},
		),

		TemplatesRegistered: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "engine_templates_registered",
				Help: "Number of template definitions in the registry",
			},
		),

		EventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_progress_events_total",
				Help: "Total number of progress events emitted",
			},
			[]string{"phase"},
		),

		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "engine_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "engine_uptime_seconds",
				Help: "Engine uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordJobDone records a job reaching a terminal status
func (m *Metrics) RecordJobDone(status string, duration time.Duration) {
	m.JobsTotal.WithLabelValues(status).Inc()
	m.JobDuration.Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalJobs++
	m.mu.Unlock()
}

// RecordVariant records a platform variant reaching a terminal status
func (m *Metrics) RecordVariant(platform, status string, duration time.Duration) {
	m.VariantsTotal.WithLabelValues(platform, status).Inc()
	m.VariantDuration.WithLabelValues(platform).Observe(duration.Seconds())
}

// RecordViolation records a constraint violation
func (m *Metrics) RecordViolation(rule, severity string) {
	m.ViolationsTotal.WithLabelValues(rule, severity).Inc()
}

// RecordEvent records an emitted progress event
func (m *Metrics) RecordEvent(phase string) {
	m.EventsTotal.WithLabelValues(phase).Inc()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncJobsCoalesced increments the coalesced submissions counter
func (m *Metrics) IncJobsCoalesced() {
	m.JobsCoalesced.Inc()
}

// SetJobsActive sets the number of live jobs
func (m *Metrics) SetJobsActive(count int) {
	m.JobsActive.Set(float64(count))
	m.mu.Lock()
	m.snapshot.ActiveJobs = int64(count)
	m.mu.Unlock()
}

// SetTemplatesRegistered sets the template registry size
func (m *Metrics) SetTemplatesRegistered(count int) {
	m.TemplatesRegistered.Set(float64(count))
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}

// GetSnapshot returns current metric values for the health endpoint
func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
