// Package metrics holds the service's prometheus collectors on a private registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vietrans"

const (
	PipelineAudio = "audio"
	PipelineText  = "text"

	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics is safe to use as a nil pointer; every recorder is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal      *prometheus.CounterVec
	processingDuration *prometheus.HistogramVec
	inferenceDuration  *prometheus.HistogramVec
	uploadBytes        prometheus.Histogram
	cleanupFailures    prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of translation requests by pipeline and outcome",
			},
			[]string{"pipeline", "status"},
		),
		processingDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "processing_duration_seconds",
				Help:      "Model processing time per request in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"pipeline"},
		),
		inferenceDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "inference_duration_seconds",
				Help:      "Duration of a single backend inference call in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"op", "backend"},
		),
		uploadBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upload_bytes",
				Help:      "Size of stored audio uploads in bytes",
				Buckets:   prometheus.ExponentialBuckets(16*1024, 4, 6),
			},
		),
		cleanupFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "temp_cleanup_failures_total",
				Help:      "Temporary upload files that could not be removed",
			},
		),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.processingDuration,
		m.inferenceDuration,
		m.uploadBytes,
		m.cleanupFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the exposition format for the private registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *Metrics) ObserveRequest(pipeline, status string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(pipeline, status).Inc()
}

func (m *Metrics) ObserveProcessing(pipeline string, d time.Duration) {
	if m == nil {
		return
	}
	m.processingDuration.WithLabelValues(pipeline).Observe(d.Seconds())
}

func (m *Metrics) ObserveInference(op, backend string, d time.Duration) {
	if m == nil {
		return
	}
	m.inferenceDuration.WithLabelValues(op, backend).Observe(d.Seconds())
}

func (m *Metrics) ObserveUpload(size int64) {
	if m == nil {
		return
	}
	m.uploadBytes.Observe(float64(size))
}

func (m *Metrics) CleanupFailed() {
	if m == nil {
		return
	}
	m.cleanupFailures.Inc()
}
