// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package metrics defines Prometheus collectors for the storage driver
// (spec.md §8/§9: "no metrics/health server is specified, but the
// driver should expose hooks for one"). Only collector construction is
// in scope here — registering and serving them over HTTP is an
// external collaborator's job, not this module's.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collectors holds the counters/histograms recorded around driver
// operations and the watch change feed.
type Collectors struct {
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	WatchReconnects   *prometheus.CounterVec
	WatchEventLag     *prometheus.HistogramVec
}

// New creates and registers crossgate's collectors against reg.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		OperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crossgate_operations_total",
				Help: "Total number of driver operations by table, operation, and outcome.",
			},
			[]string{"table", "operation", "outcome"},
		),
		OperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crossgate_operation_duration_seconds",
				Help:    "Driver operation latency in seconds, by table and operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"table", "operation"},
		),
		WatchReconnects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crossgate_watch_reconnects_total",
				Help: "Total number of watch-stream reconnect attempts by table.",
			},
			[]string{"table"},
		),
		WatchEventLag: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crossgate_watch_event_lag_seconds",
				Help:    "Seconds between a document change and its watch event being emitted, by table.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"table"},
		),
	}

	reg.MustRegister(c.OperationsTotal, c.OperationDuration, c.WatchReconnects, c.WatchEventLag)
	return c
}

// ObserveOperation records one driver operation's outcome and latency.
func (c *Collectors) ObserveOperation(table, operation, outcome string, seconds float64) {
	c.OperationsTotal.WithLabelValues(table, operation, outcome).Inc()
	c.OperationDuration.WithLabelValues(table, operation).Observe(seconds)
}

// ObserveReconnect records one watch-stream reconnect attempt.
func (c *Collectors) ObserveReconnect(table string) {
	c.WatchReconnects.WithLabelValues(table).Inc()
}

// ObserveEventLag records the delay between a change and its emission.
func (c *Collectors) ObserveEventLag(table string, seconds float64) {
	c.WatchEventLag.WithLabelValues(table).Observe(seconds)
}
