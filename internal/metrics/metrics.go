// Package metrics holds Prometheus instruments that are used across the
// scraper.  All collectors are registered with the global registry, so
// importing this package is enough to expose them on the ops listener's
// /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ScrapesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrapes_total",
			Help: "Per-building scrape attempts by outcome (success, failed, skipped).",
		}, []string{"outcome"})

	RecordsRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "records_rejected_total",
			Help: "Raw unit records dropped by the normalizer.",
		})

	UnitsReplacedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "units_replaced_total",
			Help: "Canonical unit rows written by successful scrapes.",
		})

	GateWaitSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gate_wait_seconds",
			Help:    "Time spent waiting for a platform concurrency permit.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		})

	CycleDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cycle_duration_seconds",
			Help:    "Wall-clock duration of one full batch cycle.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		})

	BuildingsNeedingAttention = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "buildings_needing_attention",
			Help: "Buildings currently in the needs_attention state.",
		})
)

func init() {
	prometheus.MustRegister(
		ScrapesTotal,
		RecordsRejectedTotal,
		UnitsReplacedTotal,
		GateWaitSeconds,
		CycleDurationSeconds,
		BuildingsNeedingAttention,
	)
}
