// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Event metrics
	EventsFolded  *prometheus.CounterVec
	EventsIgnored prometheus.Counter

	// Session metrics
	SessionsStarted prometheus.Counter
	SessionsStopped prometheus.Counter
	SessionsResumed prometheus.Counter
	StatsRebuilds   prometheus.Counter
	ActiveSession   prometheus.Gauge

	// Persistence metrics
	PersistWrites  prometheus.Counter
	PersistErrors  prometheus.Counter
	PersistLatency prometheus.Histogram

	// Stats metrics
	StatsRecomputes  prometheus.Counter
	StatsCacheHits   prometheus.Counter
	SnapshotsWritten prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "hunt_stats_lab"
	}

	return &Metrics{
		// Event metrics
		EventsFolded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "folded_total",
			Help:      "Total number of events folded into the running totals by kind",
		}, []string{"kind"}),
		EventsIgnored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "ignored_total",
			Help:      "Total number of events dropped with no active session",
		}),

		// Session metrics
		SessionsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "started_total",
			Help:      "Total number of sessions started",
		}),
		SessionsStopped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "stopped_total",
			Help:      "Total number of sessions stopped",
		}),
		SessionsResumed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "resumed_total",
			Help:      "Total number of historical sessions resumed",
		}),
		StatsRebuilds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "stats_rebuilds_total",
			Help:      "Total number of running-stats rebuilds from the event log",
		}),
		ActiveSession: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Whether a session is currently active (1) or not (0)",
		}),

		// Persistence metrics
		PersistWrites: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persistence",
			Name:      "writes_total",
			Help:      "Total number of session writes to the store",
		}),
		PersistErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persistence",
			Name:      "errors_total",
			Help:      "Total number of failed session writes",
		}),
		PersistLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "persistence",
			Name:      "write_latency_seconds",
			Help:      "Session write latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		// Stats metrics
		StatsRecomputes: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stats",
			Name:      "recomputes_total",
			Help:      "Total number of full stats recomputations",
		}),
		StatsCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stats",
			Name:      "cache_hits_total",
			Help:      "Total number of full stats requests served from the cached report",
		}),
		SnapshotsWritten: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stats",
			Name:      "snapshots_written_total",
			Help:      "Total number of stats snapshots written to the timeseries store",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordEventFolded increments the folded counter for the kind.
func RecordEventFolded(kind string) {
	DefaultMetrics.EventsFolded.WithLabelValues(kind).Inc()
}

// RecordEventIgnored increments the ignored events counter.
func RecordEventIgnored() {
	DefaultMetrics.EventsIgnored.Inc()
}

// RecordSessionStarted increments the sessions started counter and flips the
// active gauge.
func RecordSessionStarted() {
	DefaultMetrics.SessionsStarted.Inc()
	DefaultMetrics.ActiveSession.Set(1)
}

// RecordSessionStopped increments the sessions stopped counter and clears the
// active gauge.
func RecordSessionStopped() {
	DefaultMetrics.SessionsStopped.Inc()
	DefaultMetrics.ActiveSession.Set(0)
}

// RecordSessionResumed increments the sessions resumed counter and flips the
// active gauge.
func RecordSessionResumed() {
	DefaultMetrics.SessionsResumed.Inc()
	DefaultMetrics.ActiveSession.Set(1)
}

// RecordStatsRebuild increments the stats rebuild counter.
func RecordStatsRebuild() {
	DefaultMetrics.StatsRebuilds.Inc()
}

// RecordPersist records one session write.
func RecordPersist(seconds float64, err error) {
	DefaultMetrics.PersistWrites.Inc()
	DefaultMetrics.PersistLatency.Observe(seconds)
	if err != nil {
		DefaultMetrics.PersistErrors.Inc()
	}
}

// RecordStatsRecompute increments the full stats recompute counter.
func RecordStatsRecompute() {
	DefaultMetrics.StatsRecomputes.Inc()
}

// RecordStatsCacheHit increments the cached-report counter.
func RecordStatsCacheHit() {
	DefaultMetrics.StatsCacheHits.Inc()
}

// RecordSnapshotWritten increments the snapshots written counter.
func RecordSnapshotWritten() {
	DefaultMetrics.SnapshotsWritten.Inc()
}
