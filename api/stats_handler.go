package api

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

type statsHandler struct {
	responder Responder
	stats     StatsStore
}

func newStatsHandler(stats StatsStore) statsHandler {
	logger := log.With().Str("handlerName", "statsHandler").Logger()
	return statsHandler{
		responder: NewResponder(logger),
		stats:     stats,
	}
}

// getDashboard returns the admin dashboard aggregates
// @Summary Dashboard stats
// @Tags Admin
// @Success 200 {object} models.DashboardStats
// @Failure 401 {object} errorResponse
// @Failure 500 {object} errorResponse "Failed to fetch stats"
// @Router /api/admin/stats [get]
func (h statsHandler) getDashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.stats.Dashboard(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, stats, "")
	}
}
