package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Cycle metrics
	cyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scanner_cycles_total",
			Help: "Total number of completed scan cycles",
		},
	)

	cycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scanner_cycle_duration_seconds",
			Help:    "Wall time of a full scan over the watch list",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120},
		},
	)

	// Market data metrics
	fetchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scanner_fetch_errors_total",
			Help: "Total number of failed kline fetches",
		},
		[]string{"category"},
	)

	lastClose = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "scanner_last_close",
			Help: "Close of the newest candle seen per symbol",
		},
		[]string{"symbol"},
	)

	// Signal metrics
	signalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scanner_signals_total",
			Help: "Total number of detected signals, including suppressed repeats",
		},
		[]string{"symbol", "direction"},
	)

	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scanner_notifications_total",
			Help: "Total number of alert deliveries by result",
		},
		[]string{"result"},
	)
)

func init() {
	// Register metrics
	prometheus.MustRegister(cyclesTotal)
	prometheus.MustRegister(cycleDuration)
	prometheus.MustRegister(fetchErrorsTotal)
	prometheus.MustRegister(lastClose)
	prometheus.MustRegister(signalsTotal)
	prometheus.MustRegister(notificationsTotal)
}

// MetricsHandler serves the Prometheus metrics endpoint
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// RecordCycle records a completed scan cycle
func RecordCycle(duration time.Duration) {
	cyclesTotal.Inc()
	cycleDuration.Observe(duration.Seconds())
}

// RecordFetchError records a failed fetch under its error category
func RecordFetchError(category string) {
	fetchErrorsTotal.WithLabelValues(category).Inc()
}

// UpdateLastClose updates the last close metric
func UpdateLastClose(symbol string, price float64) {
	lastClose.WithLabelValues(symbol).Set(price)
}

// RecordSignal records a detected signal
func RecordSignal(symbol, direction string) {
	signalsTotal.WithLabelValues(symbol, direction).Inc()
}

// RecordNotification records an alert delivery; result is sent or failed
func RecordNotification(result string) {
	notificationsTotal.WithLabelValues(result).Inc()
}
