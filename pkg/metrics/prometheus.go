// Package metrics provides Prometheus metrics for secret santa runs.
package metrics

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for a run.
type Manager struct {
	namespace      string
	subsystem      string
	attemptBuckets []float64
	customLabels   map[string]string
	registry       *prometheus.Registry

	// Draw
	participants       prometheus.Gauge
	assignmentAttempts prometheus.Histogram
	configErrors       *prometheus.CounterVec

	// Dispatch
	lettersRendered prometheus.Counter
	lettersSent     prometheus.Counter
	lettersFailed   prometheus.Counter
	runsTotal       *prometheus.CounterVec
	lastRunUnix     prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "secretsanta",
		subsystem:      "run",
		attemptBuckets: prometheus.ExponentialBuckets(1, 2, 12),
		customLabels:   make(map[string]string),
		registry:       prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.participants = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "participants",
		Help:        "Number of participants in the last draw",
		ConstLabels: labels,
	})

	m.assignmentAttempts = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "assignment_attempts",
		Help:        "Random orderings drawn before one satisfied every exclusion",
		Buckets:     m.attemptBuckets,
		ConstLabels: labels,
	})

	m.configErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "config_errors_total",
		Help:        "Configuration errors by kind",
		ConstLabels: labels,
	}, []string{"kind"})

	m.lettersRendered = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "letters_rendered_total",
		Help:        "Letters rendered into the record",
		ConstLabels: labels,
	})

	m.lettersSent = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "letters_sent_total",
		Help:        "Letters accepted by the mail transport",
		ConstLabels: labels,
	})

	m.lettersFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "letters_failed_total",
		Help:        "Letters the mail transport rejected",
		ConstLabels: labels,
	})

	m.runsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "runs_total",
		Help:        "Completed runs by mode (dry_run, official, test)",
		ConstLabels: labels,
	}, []string{"mode"})

	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_timestamp_seconds",
		Help:        "Unix time the last run finished",
		ConstLabels: labels,
	})
}

// Registry returns the registry the manager's metrics live on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes every metric in text exposition format, the layout the
// node_exporter textfile collector reads. A batch job has no scrape endpoint.
func (m *Manager) WriteTextfile(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrNoTextfile
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}

// UpdateParticipants sets the participant count.
func UpdateParticipants(count int) {
	globalManager.participants.Set(float64(count))
}

// ObserveAssignmentAttempts records how many orderings a draw needed.
func ObserveAssignmentAttempts(attempts int) {
	globalManager.assignmentAttempts.Observe(float64(attempts))
}

// RecordConfigError increments the configuration error counter for kind.
func RecordConfigError(kind string) {
	globalManager.configErrors.WithLabelValues(kind).Inc()
}

// RecordLetterRendered increments the rendered letters counter.
func RecordLetterRendered() {
	globalManager.lettersRendered.Inc()
}

// RecordLetterSent increments the sent letters counter.
func RecordLetterSent() {
	globalManager.lettersSent.Inc()
}

// RecordLetterFailed increments the failed letters counter.
func RecordLetterFailed() {
	globalManager.lettersFailed.Inc()
}

// RecordRun marks a finished run of the given mode at unixSeconds.
func RecordRun(mode string, unixSeconds int64) {
	globalManager.runsTotal.WithLabelValues(mode).Inc()
	globalManager.lastRunUnix.Set(float64(unixSeconds))
}

// WriteTextfile writes the global metrics to path.
func WriteTextfile(path string) error {
	return globalManager.WriteTextfile(path)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
