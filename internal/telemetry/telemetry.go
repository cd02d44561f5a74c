// Package telemetry provides OpenTelemetry instrumentation for the vetting
// service. It exports Prometheus metrics and provides tracing capabilities.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "exoscout"

// Metrics holds all service Prometheus metrics
type Metrics struct {
	// Prediction metrics
	PredictionsTotal   *prometheus.CounterVec
	PredictionErrors   *prometheus.CounterVec
	PredictionDuration *prometheus.HistogramVec
	FeatureCoverage    *prometheus.HistogramVec

	// Archive metrics
	ArchiveQueries      *prometheus.CounterVec
	ArchiveQueryLatency prometheus.Histogram

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	// Model metrics
	ModelLoads *prometheus.CounterVec
}

// Provider wraps telemetry providers
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics
func NewProvider() *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(),
	}
}

// Handler returns the Prometheus HTTP handler for /metrics endpoint
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}
	initPredictionMetrics(m)
	initArchiveMetrics(m)
	initCacheMetrics(m)
	initModelMetrics(m)
	return m
}

func initPredictionMetrics(m *Metrics) {
	m.PredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exoscout_predictions_total",
		Help: "Total predictions served, by mission and classification",
	}, []string{"mission", "classification"})

	m.PredictionErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exoscout_prediction_errors_total",
		Help: "Total prediction requests that failed, by mission and error kind",
	}, []string{"mission", "kind"})

	m.PredictionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "exoscout_prediction_duration_seconds",
		Help:    "End to end time to serve a prediction",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
	}, []string{"mission"})

	m.FeatureCoverage = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "exoscout_feature_coverage_ratio",
		Help:    "Fraction of feature slots filled from catalog data per prediction",
		Buckets: []float64{0.0, 0.25, 0.5, 0.75, 0.9, 1.0},
	}, []string{"mission"})
}

func initArchiveMetrics(m *Metrics) {
	m.ArchiveQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exoscout_archive_queries_total",
		Help: "Total archive TAP queries issued, by outcome",
	}, []string{"outcome"})

	m.ArchiveQueryLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "exoscout_archive_query_duration_seconds",
		Help:    "Archive TAP query round trip time",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
	})
}

func initCacheMetrics(m *Metrics) {
	m.CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exoscout_cache_hits_total",
		Help: "Cache hits by key prefix",
	}, []string{"prefix"})

	m.CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exoscout_cache_misses_total",
		Help: "Cache misses by key prefix",
	}, []string{"prefix"})
}

func initModelMetrics(m *Metrics) {
	m.ModelLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exoscout_model_loads_total",
		Help: "Model artifact load attempts, by mission and outcome",
	}, []string{"mission", "outcome"})
}

// RecordPrediction records a served prediction with its latency and
// feature coverage.
func (p *Provider) RecordPrediction(ctx context.Context, mission, classification string, coverage float64, duration time.Duration) {
	p.Metrics.PredictionsTotal.WithLabelValues(mission, classification).Inc()
	p.Metrics.PredictionDuration.WithLabelValues(mission).Observe(duration.Seconds())
	p.Metrics.FeatureCoverage.WithLabelValues(mission).Observe(coverage)

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("prediction.mission", mission),
			attribute.String("prediction.classification", classification),
			attribute.Float64("prediction.feature_coverage", coverage),
		)
	}
}

// RecordPredictionError records a failed prediction request
func (p *Provider) RecordPredictionError(mission, kind string) {
	p.Metrics.PredictionErrors.WithLabelValues(mission, kind).Inc()
}

// RecordArchiveQuery records one archive round trip
func (p *Provider) RecordArchiveQuery(outcome string, duration time.Duration) {
	p.Metrics.ArchiveQueries.WithLabelValues(outcome).Inc()
	p.Metrics.ArchiveQueryLatency.Observe(duration.Seconds())
}

// RecordCache records a cache lookup result for a key prefix
func (p *Provider) RecordCache(prefix string, hit bool) {
	if hit {
		p.Metrics.CacheHits.WithLabelValues(prefix).Inc()
		return
	}
	p.Metrics.CacheMisses.WithLabelValues(prefix).Inc()
}

// RecordModelLoad records a model artifact load attempt
func (p *Provider) RecordModelLoad(mission, outcome string) {
	p.Metrics.ModelLoads.WithLabelValues(mission, outcome).Inc()
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, span
}
