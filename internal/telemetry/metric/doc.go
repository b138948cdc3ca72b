// Package metric provides Prometheus metrics for the REPL front end.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Prometheus registry, recording helpers and HTTP handler
//   - collector.go: custom collector reporting live connection counts
//
// Metrics include:
//
//   - Session gauges and counters by kind (local, remote)
//   - Evaluation counters and latency histograms
//   - Output lock wait histograms
//   - Highlight restoration outcomes
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
