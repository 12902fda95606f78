// Package metrics exposes prometheus collectors for the monitor loop.
//
//   - etfgrid_cycles_total{result}        cycles run (ok|skipped|failed)
//   - etfgrid_cycle_duration_seconds      wall time of one cycle
//   - etfgrid_price_errors_total{asset}   failed price fetches
//   - etfgrid_signals_total{kind,asset}   emitted signals
//   - etfgrid_notifications_total{channel,result}
//   - etfgrid_last_price{asset}
//   - etfgrid_grid_index{asset}
//
// Collectors register on the default registry and are served by
// promhttp at /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	cycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "etfgrid_cycles_total",
			Help: "Evaluation cycles by result",
		},
		[]string{"result"},
	)

	cycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "etfgrid_cycle_duration_seconds",
			Help:    "Wall time of one evaluation cycle",
			Buckets: prometheus.DefBuckets,
		},
	)

	priceErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "etfgrid_price_errors_total",
			Help: "Price fetches that failed, per asset",
		},
		[]string{"asset"},
	)

	signals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "etfgrid_signals_total",
			Help: "Signals emitted",
		},
		[]string{"kind", "asset"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "etfgrid_notifications_total",
			Help: "Notification attempts by channel and result (ok|failed)",
		},
		[]string{"channel", "result"},
	)

	lastPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "etfgrid_last_price",
			Help: "Last observed price",
		},
		[]string{"asset"},
	)

	gridIndex = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "etfgrid_grid_index",
			Help: "Grid line the last observed price sits on",
		},
		[]string{"asset"},
	)
)

const (
	CycleOK      = "ok"
	CycleSkipped = "skipped"
	CycleFailed  = "failed"
)

func init() {
	prometheus.MustRegister(cycles, cycleDuration)
	prometheus.MustRegister(priceErrors, signals, notifications)
	prometheus.MustRegister(lastPrice, gridIndex)
}

func ObserveCycle(result string, d time.Duration) {
	cycles.WithLabelValues(result).Inc()
	if result != CycleSkipped {
		cycleDuration.Observe(d.Seconds())
	}
}

func IncPriceError(asset string)           { priceErrors.WithLabelValues(asset).Inc() }
func IncSignal(kind, asset string)         { signals.WithLabelValues(kind, asset).Inc() }
func SetLastPrice(asset string, p float64) { lastPrice.WithLabelValues(asset).Set(p) }
func SetGridIndex(asset string, g int)     { gridIndex.WithLabelValues(asset).Set(float64(g)) }

func IncNotification(channel string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	notifications.WithLabelValues(channel, result).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
