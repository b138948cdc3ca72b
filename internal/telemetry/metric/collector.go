// Package metric provides Prometheus metrics for the REPL front end.
package metric

import "github.com/prometheus/client_golang/prometheus"

// Collector reports the number of open socket connections at scrape time.
type Collector struct {
	connections func() int
	desc        *prometheus.Desc
}

// NewCollector creates a collector that calls connections on every scrape.
func NewCollector(connections func() int) *Collector {
	return &Collector{
		connections: connections,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "socket", "connections_open"),
			"Number of socket REPL connections currently open.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	n := 0
	if c.connections != nil {
		n = c.connections()
	}
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(n))
}
