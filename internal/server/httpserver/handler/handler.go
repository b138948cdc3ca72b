package handler

import (
	"encoding/json"
	"net/http"

	"github.com/yndnr/replfront/internal/telemetry/logger"
)

// Handler routes observability requests.
type Handler struct {
	sessions func() int
	logger   logger.Logger
	mux      *http.ServeMux
}

// New creates a Handler. sessions may be nil, in which case zero
// sessions are reported.
func New(sessions func() int, l logger.Logger) *Handler {
	if l == nil {
		l = logger.Default()
	}
	h := &Handler{
		sessions: sessions,
		logger:   l,
		mux:      http.NewServeMux(),
	}
	h.mux.HandleFunc("GET /healthz", h.handleHealth)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := r.Header.Get("X-Request-ID")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(NewResponse(requestID, data)); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
