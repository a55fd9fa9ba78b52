package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "heating_monitor"

// Poll results used as label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Collector receives poll and fetch telemetry.
type Collector interface {
	ObservePoll(result string, d time.Duration)
	ObserveFetch(mode string, d time.Duration, err error)
	SetReading(variable string, value float64)
}

type noopCollector struct{}

// Noop returns a collector that discards everything.
func Noop() Collector { return noopCollector{} }

func (noopCollector) ObservePoll(string, time.Duration)        {}
func (noopCollector) ObserveFetch(string, time.Duration, error) {}
func (noopCollector) SetReading(string, float64)                {}

// PrometheusCollector exposes poll telemetry on its own registry.
type PrometheusCollector struct {
	registry      *prometheus.Registry
	polls         *prometheus.CounterVec
	pollDuration  prometheus.Histogram
	lastSuccess   prometheus.Gauge
	fetchDuration *prometheus.HistogramVec
	fetchErrors   *prometheus.CounterVec
	readings      *prometheus.GaugeVec
}

// NewPrometheusCollector creates and registers every metric on a fresh registry.
func NewPrometheusCollector() *PrometheusCollector {
	c := &PrometheusCollector{
		registry: prometheus.NewRegistry(),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_cycles_total",
			Help:      "Completed poll cycles by result.",
		}, []string{"result"}),
		pollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_cycle_duration_seconds",
			Help:      "Wall time of a poll cycle including all fetches.",
			Buckets:   prometheus.DefBuckets,
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful poll cycle.",
		}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of single variable fetches by mode.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		fetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Failed variable fetches by mode.",
		}, []string{"mode"}),
		readings: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reading_value",
			Help:      "Last successfully polled value per logical variable.",
		}, []string{"variable"}),
	}
	c.registry.MustRegister(
		c.polls,
		c.pollDuration,
		c.lastSuccess,
		c.fetchDuration,
		c.fetchErrors,
		c.readings,
		collectors.NewGoCollector(),
	)
	return c
}

func (c *PrometheusCollector) ObservePoll(result string, d time.Duration) {
	c.polls.WithLabelValues(result).Inc()
	c.pollDuration.Observe(d.Seconds())
	if result == ResultSuccess {
		c.lastSuccess.SetToCurrentTime()
	}
}

func (c *PrometheusCollector) ObserveFetch(mode string, d time.Duration, err error) {
	c.fetchDuration.WithLabelValues(mode).Observe(d.Seconds())
	if err != nil {
		c.fetchErrors.WithLabelValues(mode).Inc()
	}
}

func (c *PrometheusCollector) SetReading(variable string, value float64) {
	c.readings.WithLabelValues(variable).Set(value)
}

// Handler serves the registry in the Prometheus text format.
func (c *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
