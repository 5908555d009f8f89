package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// outage processing cycle.
type Metrics struct {
	ReportsFetched *prometheus.CounterVec // labels: provider, style
	FetchFailures  *prometheus.CounterVec // labels: provider, style
	CycleRunning   prometheus.Gauge
	CycleDuration  prometheus.Histogram

	// Normalization metrics.
	CoercionFallbacks prometheus.Counter
	DroppedZipGroups  prometheus.Counter

	// Publish metrics.
	SyncFailures *prometheus.CounterVec // labels: target={realtime,archive,cloud}
	FeedDataAge  *prometheus.GaugeVec   // labels: provider, style
}

// NewMetrics creates and registers all cycle metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ReportsFetched,
		m.FetchFailures,
		m.CycleRunning,
		m.CycleDuration,
		m.CoercionFallbacks,
		m.DroppedZipGroups,
		m.SyncFailures,
		m.FeedDataAge,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ReportsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "outage_etl",
			Name:      "reports_fetched_total",
			Help:      "Raw feed reports parsed, by provider and style.",
		}, []string{"provider", "style"}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "outage_etl",
			Name:      "fetch_failures_total",
			Help:      "Feed fetches that yielded zero reports, by provider and style.",
		}, []string{"provider", "style"}),
		CycleRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "outage_etl",
			Name:      "cycle_running",
			Help:      "1 while a processing cycle is active.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "outage_etl",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a complete fetch-normalize-publish cycle.",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 60, 120, 300},
		}),
		CoercionFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "outage_etl",
			Name:      "coercion_fallbacks_total",
			Help:      "Count values that resolved to the unknown sentinel.",
		}),
		DroppedZipGroups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "outage_etl",
			Name:      "dropped_zip_groups_total",
			Help:      "Grouped zip records dropped because no member had geometry.",
		}),
		SyncFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "outage_etl",
			Name:      "sync_failures_total",
			Help:      "Store synchronization failures by target.",
		}, []string{"target"}),
		FeedDataAge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "outage_etl",
			Name:      "feed_data_age_minutes",
			Help:      "Reported age of each provider's data feed.",
		}, []string{"provider", "style"}),
	}
}
