package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collector's prometheus instruments.
type Metrics struct {
	registry        *prometheus.Registry
	samplesRecorded prometheus.Counter
	cyclesSkipped   prometheus.Counter
	cycleFailures   *prometheus.CounterVec
	cycleDuration   prometheus.Histogram
	lastSampleUnix  prometheus.Gauge
}

// New builds and registers the instrument set on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		samplesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "occupancy_samples_recorded_total",
			Help: "Total samples appended to the occupancy log.",
		}),
		cyclesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "occupancy_cycles_skipped_total",
			Help: "Total cycles skipped because the facility was closed.",
		}),
		cycleFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "occupancy_cycle_failures_total",
			Help: "Total cycle failures by error kind.",
		}, []string{"kind"}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "occupancy_cycle_duration_seconds",
			Help:    "Histogram of collection cycle durations.",
			Buckets: prometheus.DefBuckets,
		}),
		lastSampleUnix: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "occupancy_last_sample_timestamp_seconds",
			Help: "Unix time of the most recently recorded sample.",
		}),
	}
	m.registry.MustRegister(
		m.samplesRecorded,
		m.cyclesSkipped,
		m.cycleFailures,
		m.cycleDuration,
		m.lastSampleUnix,
	)
	return m
}

// Handler exposes the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) SampleRecorded(unixSeconds float64) {
	m.samplesRecorded.Inc()
	m.lastSampleUnix.Set(unixSeconds)
}

func (m *Metrics) CycleSkipped() {
	m.cyclesSkipped.Inc()
}

func (m *Metrics) CycleFailed(kind string) {
	m.cycleFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveCycle(seconds float64) {
	m.cycleDuration.Observe(seconds)
}
