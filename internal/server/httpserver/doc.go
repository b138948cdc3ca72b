// Package httpserver serves the replfront observability endpoint.
//
// Routes:
//
//   - GET /metrics: Prometheus exposition
//   - GET /healthz: JSON with build version and open session count
//
// Every request passes through Recover and RequestID. The endpoint is
// meant for a local scraper, so it has no authentication.
package httpserver
