package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dashboard"

// Metrics holds the Prometheus counters and histograms for the dashboard service.
type Metrics struct {
	Enrichment         *prometheus.CounterVec // labels: outcome={enriched,no_location,unresolved,failed,disabled,malformed}
	CalendarFetchError prometheus.Counter
	PublishErrors      prometheus.Counter

	// Batch metrics.
	BatchSize     prometheus.Histogram
	BatchDuration prometheus.Histogram

	// Geocoding metrics.
	GeocodeRequests *prometheus.CounterVec // labels: provider, outcome={success,error,empty}
	GeocodeCache    *prometheus.CounterVec // labels: result={hit,miss}

	// Weather metrics.
	WeatherRequests    *prometheus.CounterVec   // labels: kind={daily,hourly}, outcome={success,error}
	WeatherAPIDuration *prometheus.HistogramVec // labels: kind={daily,hourly}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.Enrichment,
		m.CalendarFetchError,
		m.PublishErrors,
		m.BatchSize,
		m.BatchDuration,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.WeatherRequests,
		m.WeatherAPIDuration,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as many
// as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Enrichment: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrichment_total",
			Help:      "Events enriched, by outcome.",
		}, []string{"outcome"}),
		CalendarFetchError: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calendar_fetch_errors_total",
			Help:      "Calendar provider failures surfaced to callers.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Enriched-event batches that failed to publish.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of calendar events per dashboard request.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Duration of a complete fetch-and-enrich cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_requests_total",
			Help:      "Forecast API requests by kind and outcome.",
		}, []string{"kind", "outcome"}),
		WeatherAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "weather_api_duration_seconds",
			Help:      "Forecast API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"kind"}),
	}
}
