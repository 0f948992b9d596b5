package api

import (
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/studio-site-backend/errs"
	"github.com/rpupo63/studio-site-backend/models"
	"github.com/rpupo63/studio-site-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const trackFailedMessage = "Failed to track event"

type analyticsHandler struct {
	responder Responder
	logger    zerolog.Logger
	analytics AnalyticsStore
	metrics   *metrics
}

func newAnalyticsHandler(analytics AnalyticsStore, m *metrics) analyticsHandler {
	logger := log.With().Str("handlerName", "analyticsHandler").Logger()
	return analyticsHandler{
		responder: NewResponder(logger),
		logger:    logger,
		analytics: analytics,
		metrics:   m,
	}
}

type trackEventRequest struct {
	ProjectID string           `json:"projectId" validate:"required,uuid"`
	EventType models.EventType `json:"eventType" validate:"required,oneof=VIEW MODAL_OPEN GITHUB_CLICK LIVE_CLICK CONTACT_CLICK"`
}

// trackEvent records one engagement event
// @Summary Track event
// @Description Public. Any failure answers 400 "Failed to track event" without detail.
// @Tags Analytics
// @Accept json
// @Param event body trackEventRequest true "Event"
// @Success 200 {object} successResponse
// @Failure 400 {object} errorResponse
// @Router /api/analytics [post]
func (h analyticsHandler) trackEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body trackEventRequest
		err := decodeJSON(w, r, &body)
		if err == nil {
			err = validatePayload(&body)
		}
		if err == nil {
			err = h.analytics.Add(r.Context(), &models.Analytics{
				ProjectID: uuid.MustParse(body.ProjectID),
				EventType: body.EventType,
				VisitorIP: services.AnonymizeIP(visitorIP(r)),
				UserAgent: services.TruncateUserAgent(r.UserAgent()),
			})
		}
		if err != nil {
			h.logger.Warn().Err(err).Msg("event not tracked")
			h.responder.WriteError(w, errs.NewBadRequestError(trackFailedMessage))
			return
		}

		h.metrics.eventsTracked.WithLabelValues(string(body.EventType)).Inc()
		h.responder.WriteSuccess(w, http.StatusOK, nil, "Event tracked")
	}
}

// visitorIP picks the first X-Forwarded-For hop, then X-Real-IP, then the
// connection's remote address.
func visitorIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
