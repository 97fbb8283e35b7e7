package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Graph metrics
	assetsTotal        *prometheus.GaugeVec
	relationshipsTotal prometheus.Gauge
	eventsTotal        prometheus.Counter
	buildsTotal        prometheus.Counter
	buildDuration      prometheus.Histogram
	snapshotsTotal     *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	// Graph metrics
	r.assetsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lattice_assets_total",
			Help: "Number of assets held in the graph",
		},
		[]string{"class"},
	)
	r.relationshipsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lattice_relationships_total",
			Help: "Number of directed relationship edges in the graph",
		},
	)
	r.eventsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lattice_regulatory_events_total",
			Help: "Total number of regulatory events added",
		},
	)
	r.buildsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lattice_relationship_builds_total",
			Help: "Total number of relationship inference runs",
		},
	)
	r.buildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lattice_relationship_build_duration_seconds",
			Help:    "Relationship inference run duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
	r.snapshotsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lattice_snapshots_total",
			Help: "Total number of snapshot operations",
		},
		[]string{"operation", "status"},
	)

	reg.MustRegister(r.assetsTotal)
	reg.MustRegister(r.relationshipsTotal)
	reg.MustRegister(r.eventsTotal)
	reg.MustRegister(r.buildsTotal)
	reg.MustRegister(r.buildDuration)
	reg.MustRegister(r.snapshotsTotal)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// SetAssets sets the asset gauge for one class.
func (r *Registry) SetAssets(class string, count int) {
	r.assetsTotal.WithLabelValues(class).Set(float64(count))
}

// SetRelationships sets the directed edge gauge.
func (r *Registry) SetRelationships(count int) {
	r.relationshipsTotal.Set(float64(count))
}

// RecordEvent records one added regulatory event.
func (r *Registry) RecordEvent() {
	r.eventsTotal.Inc()
}

// RecordBuild records a relationship inference run.
func (r *Registry) RecordBuild(duration float64) {
	r.buildsTotal.Inc()
	r.buildDuration.Observe(duration)
}

// RecordSnapshot records a snapshot save or load.
func (r *Registry) RecordSnapshot(operation, status string) {
	r.snapshotsTotal.WithLabelValues(operation, status).Inc()
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
