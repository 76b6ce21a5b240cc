// FILE: metrics.go
// Package main – Prometheus metrics for observability.
//
// Exposes the metrics the bot updates during operation:
//   • bot_ticks_total               – Poll ticks executed
//   • bot_decisions_total{action}   – Engine verdicts (hold|place|replace)
//   • bot_orders_total{side,kind}   – Orders placed (kind: limit|oco)
//   • bot_cancels_total             – Orders canceled before replacement
//   • bot_fills_total{side}         – Fills observed
//   • bot_last_order_price{side}    – Price of the most recent placement
//
// Registered in init() and served at /metrics by the HTTP server started in
// main.go (Prometheus text exposition format).

package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

var (
	mtxTicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_ticks_total",
			Help: "Poll ticks executed",
		},
	)

	mtxDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_decisions_total",
			Help: "Decision engine verdicts",
		},
		[]string{"action"}, // hold|place|replace
	)

	mtxOrders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_orders_total",
			Help: "Orders placed",
		},
		[]string{"side", "kind"}, // kind: limit|oco
	)

	mtxCancels = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_cancels_total",
			Help: "Orders canceled before replacement",
		},
	)

	mtxFills = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_fills_total",
			Help: "Fills observed",
		},
		[]string{"side"},
	)

	lastOrderPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bot_last_order_price",
			Help: "Price of the most recent placement",
		},
		[]string{"side"},
	)
)

func init() {
	prometheus.MustRegister(mtxTicks, mtxDecisions, mtxOrders, mtxCancels, mtxFills, lastOrderPrice)
}

// priceGauge converts a decimal price for gauge exposition; precision loss
// here only affects dashboards, never trading math.
func priceGauge(p decimal.Decimal) float64 {
	f, _ := p.Float64()
	return f
}
