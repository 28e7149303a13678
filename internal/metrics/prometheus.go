// Package metrics provides the Prometheus-backed wallet metrics collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusCollector implements wallet.MetricsCollector.
type PrometheusCollector struct {
	transactions *prometheus.CounterVec
	volume       *prometheus.CounterVec
	errors       *prometheus.CounterVec
	cacheHits    *prometheus.CounterVec
	cacheMisses  *prometheus.CounterVec
	balanceDelta prometheus.Histogram
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		transactions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_transactions_total",
			Help: "Number of wallet transactions by type.",
		}, []string{"type"}),
		volume: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_transaction_volume",
			Help: "Total transacted volume by type.",
		}, []string{"type"}),
		errors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_errors_total",
			Help: "Number of wallet operation errors.",
		}, []string{"operation", "error"}),
		cacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_cache_hits_total",
			Help: "Wallet cache hits.",
		}, []string{"key"}),
		cacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_cache_misses_total",
			Help: "Wallet cache misses.",
		}, []string{"key"}),
		balanceDelta: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "wallet_balance_change",
			Help:    "Absolute balance change per operation.",
			Buckets: prometheus.ExponentialBuckets(0.5, 4, 10),
		}),
	}
}

func (c *PrometheusCollector) RecordTransaction(txType string, amount float64) {
	c.transactions.WithLabelValues(txType).Inc()
	c.volume.WithLabelValues(txType).Add(amount)
}

func (c *PrometheusCollector) RecordBalanceChange(_ uint, oldBalance, newBalance float64) {
	delta := newBalance - oldBalance
	if delta < 0 {
		delta = -delta
	}
	c.balanceDelta.Observe(delta)
}

func (c *PrometheusCollector) RecordError(operation, errType string) {
	c.errors.WithLabelValues(operation, errType).Inc()
}

func (c *PrometheusCollector) RecordCacheHit(key string) {
	c.cacheHits.WithLabelValues(key).Inc()
}

func (c *PrometheusCollector) RecordCacheMiss(key string) {
	c.cacheMisses.WithLabelValues(key).Inc()
}
