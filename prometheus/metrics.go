package prometheus

import (
	"sync"
	"time"

	"backoffice-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthErrorsCounter   *prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Entity operations, labelled by entity and operation
	EntityOperationsCounter *prometheus.CounterVec

	// Sales metrics
	SalesAmountCounter *prometheus.CounterVec

	// Inventory metrics
	ProductStockGauge   *prometheus.GaugeVec
	StoreItemStockGauge *prometheus.GaugeVec

	// Report metrics
	ReportFailuresCounter *prometheus.CounterVec

	initOnce sync.Once
)

// InitMetrics registers the service metrics once, using the configured prefix
func InitMetrics(cfg *config.Config) {
	initOnce.Do(func() {
		prefix := cfg.Metrics.Prefix

		HttpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		)

		HttpRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		AuthAttemptsCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_auth_attempts_total",
				Help: "Total number of authentication attempts",
			},
		)

		AuthErrorsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_auth_errors_total",
				Help: "Total number of authentication errors",
			},
			[]string{"reason"},
		)

		DbOperationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation_type"},
		)

		EntityOperationsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_operations_total",
				Help: "Total number of entity operations",
			},
			[]string{"entity", "operation"},
		)

		SalesAmountCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_sales_amount_total",
				Help: "Accumulated amount of registered sales",
			},
			[]string{"status"},
		)

		ProductStockGauge = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: prefix + "_product_stock",
				Help: "Current stock level for products",
			},
			[]string{"product_code", "category"},
		)

		StoreItemStockGauge = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: prefix + "_store_item_stock",
				Help: "Current stock level for store items",
			},
			[]string{"item_code", "status"},
		)

		ReportFailuresCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_report_failures_total",
				Help: "Total number of failed report renders",
			},
			[]string{"report"},
		)
	})
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration == nil {
			return
		}
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordOperation increments the counter for an entity operation
func RecordOperation(entity, operation string) {
	if EntityOperationsCounter == nil {
		return
	}
	EntityOperationsCounter.WithLabelValues(entity, operation).Inc()
}

// RecordSaleAmount adds a sale total to the sales amount counter
func RecordSaleAmount(status string, amount float64) {
	if SalesAmountCounter == nil || amount <= 0 {
		return
	}
	SalesAmountCounter.WithLabelValues(status).Add(amount)
}

// UpdateProductStock updates the gauge for a product's stock
func UpdateProductStock(productCode, category string, stock int) {
	if ProductStockGauge == nil {
		return
	}
	ProductStockGauge.WithLabelValues(productCode, category).Set(float64(stock))
}

// UpdateStoreItemStock updates the gauge for a store item's stock
func UpdateStoreItemStock(itemCode, status string, stock int) {
	if StoreItemStockGauge == nil {
		return
	}
	StoreItemStockGauge.WithLabelValues(itemCode, status).Set(float64(stock))
}

// RecordAuthAttempt increments the login attempts counter
func RecordAuthAttempt() {
	if AuthAttemptsCounter == nil {
		return
	}
	AuthAttemptsCounter.Inc()
}

// RecordAuthError increments the authentication error counter
func RecordAuthError(reason string) {
	if AuthErrorsCounter == nil {
		return
	}
	AuthErrorsCounter.WithLabelValues(reason).Inc()
}

// RecordReportFailure increments the failed report counter
func RecordReportFailure(report string) {
	if ReportFailuresCounter == nil {
		return
	}
	ReportFailuresCounter.WithLabelValues(report).Inc()
}
