package wallet

import "time"

// Default configuration values
const (
	DefaultCurrency = "USD"
	CacheTTL        = 24 * time.Hour
)

// MetricsCollector receives wallet operation metrics. A Prometheus-backed
// implementation lives in internal/metrics; tests use the no-op.
type MetricsCollector interface {
	RecordTransaction(txType string, amount float64)
	RecordBalanceChange(userID uint, oldBalance, newBalance float64)
	RecordError(operation, errType string)
	RecordCacheHit(key string)
	RecordCacheMiss(key string)
}
