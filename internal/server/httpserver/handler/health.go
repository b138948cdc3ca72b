package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/replfront/internal/infra/buildinfo"
)

// handleHealth handles GET /healthz.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := buildinfo.Get()
	n := 0
	if h.sessions != nil {
		n = h.sessions()
	}
	h.writeJSON(w, r, http.StatusOK, HealthData{
		Status:   "ok",
		Version:  info.Version,
		Commit:   info.Commit,
		Sessions: n,
		Time:     time.Now().UTC().Format(time.RFC3339),
	})
}
