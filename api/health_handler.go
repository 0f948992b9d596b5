package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rpupo63/studio-site-backend/errs"
	"github.com/rs/zerolog/log"
)

type healthHandler struct {
	responder   Responder
	db          Pinger
	startupTime time.Time
}

func newHealthHandler(db Pinger, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()
	return healthHandler{
		responder:   NewResponder(logger),
		db:          db,
		startupTime: startupTime,
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

// health reports whether the database answers
// @Summary Health check
// @Tags Health
// @Success 200 {object} healthResponse
// @Failure 503 {object} errorResponse
// @Router /health [get]
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			log.Error().Err(err).Msg("health check failed")
			h.responder.WriteError(w, errs.NewApiErr(http.StatusServiceUnavailable, "Database unavailable"))
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, healthResponse{
			Status:   "ok",
			Database: "ok",
			Uptime:   time.Since(h.startupTime).Round(time.Second).String(),
		}, "")
	}
}
