package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/studio-site-backend/errs"
	"github.com/rpupo63/studio-site-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const notifyTimeout = 15 * time.Second

type leadHandler struct {
	responder Responder
	logger    zerolog.Logger
	leads     LeadStore
	notifier  LeadNotifier
	metrics   *metrics
}

func newLeadHandler(leads LeadStore, notifier LeadNotifier, m *metrics) leadHandler {
	logger := log.With().Str("handlerName", "leadHandler").Logger()
	return leadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		leads:     leads,
		notifier:  notifier,
		metrics:   m,
	}
}

type leadRequest struct {
	Name      string `json:"name" validate:"min=2"`
	Email     string `json:"email" validate:"required,email"`
	Message   string `json:"message" validate:"min=10"`
	ProjectID string `json:"projectId" validate:"omitempty,uuid"`
}

func (l *leadRequest) trim() {
	l.Name = strings.TrimSpace(l.Name)
	l.Email = strings.TrimSpace(l.Email)
	l.Message = strings.TrimSpace(l.Message)
	l.ProjectID = strings.TrimSpace(l.ProjectID)
}

type leadStatusRequest struct {
	Status models.LeadStatus `json:"status" validate:"required,oneof=NEW CONTACTED CLOSED"`
}

// listLeads returns the lead inbox
// @Summary List leads
// @Tags Leads
// @Produce json
// @Param status query string false "NEW, CONTACTED or CLOSED"
// @Success 200 {array} models.Lead
// @Failure 400 {object} errorResponse "Unknown status"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Router /api/leads [get]
func (h leadHandler) listLeads() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := models.LeadStatus(r.URL.Query().Get("status"))
		if status != "" && !status.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("status", "Unknown status"))
			return
		}

		leads, err := h.leads.List(r.Context(), status)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, leads, "")
	}
}

// @Summary Get lead
// @Tags Leads
// @Param id path string true "Lead ID" format(uuid)
// @Success 200 {object} models.Lead
// @Failure 404 {object} errorResponse
// @Router /api/leads/{id} [get]
func (h leadHandler) getLead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "Lead")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		lead, err := h.leads.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, lead, "")
	}
}

// createLead stores a contact-form submission
// @Summary Submit contact form
// @Description Public. The lead always starts as NEW. The studio is notified in the background.
// @Tags Leads
// @Accept json
// @Param lead body leadRequest true "Contact form"
// @Success 201 {object} models.Lead
// @Failure 400 {object} errorResponse "Validation failed"
// @Router /api/leads [post]
func (h leadHandler) createLead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body leadRequest
		if err := decodeJSON(w, r, &body); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		body.trim()
		if err := validatePayload(&body); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		lead := &models.Lead{
			Name:    body.Name,
			Email:   body.Email,
			Message: body.Message,
			Status:  models.LeadStatusNew,
		}
		if body.ProjectID != "" {
			projectID := uuid.MustParse(body.ProjectID)
			lead.ProjectID = &projectID
		}

		if err := h.leads.Add(r.Context(), lead); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.metrics.leadsCreated.Inc()

		h.notify(r.Context(), lead.ID)
		h.responder.WriteSuccess(w, http.StatusCreated, lead, "Lead created successfully")
	}
}

// notify alerts the studio without holding up the response. Failures are
// only logged.
func (h leadHandler) notify(ctx context.Context, leadID uuid.UUID) {
	if h.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	go func() {
		defer cancel()
		lead, err := h.leads.FindByID(ctx, leadID)
		if err != nil {
			h.logger.Error().Err(err).Str("leadId", leadID.String()).Msg("Failed to load lead for notification")
			return
		}
		projectName := ""
		if lead.Project != nil {
			projectName = lead.Project.Name
		}
		if err := h.notifier.Notify(ctx, lead, projectName); err != nil {
			h.logger.Warn().Err(err).Str("leadId", leadID.String()).Msg("Lead notification incomplete")
		}
	}()
}

// updateLeadStatus moves a lead between NEW, CONTACTED and CLOSED
// @Summary Update lead status
// @Tags Leads
// @Accept json
// @Param id path string true "Lead ID" format(uuid)
// @Param status body leadStatusRequest true "New status"
// @Success 200 {object} models.Lead
// @Failure 400 {object} errorResponse "Validation failed"
// @Failure 404 {object} errorResponse
// @Router /api/leads/{id} [put]
func (h leadHandler) updateLeadStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "Lead")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var body leadStatusRequest
		if err := decodeJSON(w, r, &body); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validatePayload(&body); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		lead, err := h.leads.UpdateStatus(r.Context(), id, body.Status)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, lead, "Lead updated successfully")
	}
}

// @Summary Delete lead
// @Tags Leads
// @Param id path string true "Lead ID" format(uuid)
// @Success 200 {object} successResponse
// @Failure 404 {object} errorResponse
// @Router /api/leads/{id} [delete]
func (h leadHandler) deleteLead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "Lead")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.leads.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, nil, "Lead deleted successfully")
	}
}
