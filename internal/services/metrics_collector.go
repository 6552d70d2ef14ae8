package services

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// MetricsCollector records recommendation engine metrics in Prometheus.
type MetricsCollector struct {
	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	resultSize     prometheus.Histogram
	cacheLookups   *prometheus.CounterVec
	catalogRecords prometheus.Gauge
	catalogReloads *prometheus.CounterVec
}

// NewMetricsCollector registers the engine metrics with reg. Collectors that
// are already registered are reused.
func NewMetricsCollector(reg prometheus.Registerer, logger *logrus.Logger) *MetricsCollector {
	mc := &MetricsCollector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nutrirec_requests_total",
			Help: "Engine operations by outcome",
		}, []string{"operation", "outcome"}),

		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nutrirec_operation_duration_seconds",
			Help:    "Engine operation latency",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"operation"}),

		resultSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nutrirec_recommendations_returned",
			Help:    "Number of recommendations returned per request",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50},
		}),

		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nutrirec_cache_lookups_total",
			Help: "Recommendation cache lookups by result",
		}, []string{"result"}),

		catalogRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nutrirec_catalog_records",
			Help: "Records in the active catalog snapshot",
		}),

		catalogReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nutrirec_catalog_reloads_total",
			Help: "Catalog reloads by outcome",
		}, []string{"outcome"}),
	}

	mc.requests = register(reg, logger, mc.requests)
	mc.latency = register(reg, logger, mc.latency)
	mc.resultSize = register(reg, logger, mc.resultSize)
	mc.cacheLookups = register(reg, logger, mc.cacheLookups)
	mc.catalogRecords = register(reg, logger, mc.catalogRecords)
	mc.catalogReloads = register(reg, logger, mc.catalogReloads)

	return mc
}

func register[C prometheus.Collector](reg prometheus.Registerer, logger *logrus.Logger, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		logger.WithError(err).Warn("Failed to register metric")
	}
	return c
}

func (mc *MetricsCollector) RecordOperation(operation string, started time.Time, err error) {
	if mc == nil {
		return
	}
	outcome := "ok"
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoCandidates):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	mc.requests.WithLabelValues(operation, outcome).Inc()
	mc.latency.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func (mc *MetricsCollector) RecordResultSize(n int) {
	if mc == nil {
		return
	}
	mc.resultSize.Observe(float64(n))
}

func (mc *MetricsCollector) RecordCacheLookup(hit bool) {
	if mc == nil {
		return
	}
	if hit {
		mc.cacheLookups.WithLabelValues("hit").Inc()
	} else {
		mc.cacheLookups.WithLabelValues("miss").Inc()
	}
}

func (mc *MetricsCollector) RecordCatalog(records int) {
	if mc == nil {
		return
	}
	mc.catalogRecords.Set(float64(records))
}

func (mc *MetricsCollector) RecordReload(err error) {
	if mc == nil {
		return
	}
	if err != nil {
		mc.catalogReloads.WithLabelValues("error").Inc()
		return
	}
	mc.catalogReloads.WithLabelValues("ok").Inc()
}
