package httpserver

import (
	"net/http"

	"github.com/yndnr/replfront/internal/server/httpserver/handler"
	"github.com/yndnr/replfront/internal/telemetry/logger"
	"github.com/yndnr/replfront/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Metrics serves /metrics. Defaults to the global registry.
	Metrics http.Handler

	// Sessions reports the number of open REPL sessions for /healthz.
	Sessions func() int

	// Logger for request logging.
	Logger logger.Logger
}

// NewRouter creates the HTTP router with its middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	if cfg == nil {
		cfg = &RouterConfig{}
	}
	l := cfg.Logger
	if l == nil {
		l = logger.Default()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = metric.Handler()
	}

	h := handler.New(cfg.Sessions, l)

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", h)
	mux.Handle("GET /metrics", metrics)

	return Chain(mux, Recover(l), RequestID())
}
