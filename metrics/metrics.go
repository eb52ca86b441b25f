// Package metrics exposes Prometheus instrumentation for the auction server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OrdersSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "auction",
		Name:      "orders_submitted_total",
		Help:      "Orders accepted onto a book.",
	})
	OrdersRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "auction",
		Name:      "orders_rejected_total",
		Help:      "Order submissions rejected by validation.",
	})
	OrdersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "auction",
		Name:      "orders_cancelled_total",
		Help:      "Resting orders removed by cancel or cancel-all.",
	})
	TradesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "auction",
		Name:      "trades_total",
		Help:      "Trades produced by matching passes.",
	})
	TradedVolume = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "auction",
		Name:      "traded_volume_total",
		Help:      "Cumulative quantity traded.",
	})
)

// StartMetricsServer serves /metrics on its own listener.
func StartMetricsServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(addr, mux)
	}()
}
