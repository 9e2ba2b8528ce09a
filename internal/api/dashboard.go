package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/sredstva/internal/service"
)

// DashboardHandler serves the overview counters.
type DashboardHandler struct {
	Dashboard *service.Dashboard
}

// Summary handles GET /api/dashboard.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.Dashboard.Summary(r.Context(), GetActor(r.Context()))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, sum)
}

// healthz handles GET /healthz.
func healthz(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			jsonError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
