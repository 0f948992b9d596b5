package api

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type settingsHandler struct {
	responder Responder
	logger    zerolog.Logger
	settings  SettingsStore
}

func newSettingsHandler(settings SettingsStore) settingsHandler {
	logger := log.With().Str("handlerName", "settingsHandler").Logger()
	return settingsHandler{
		responder: NewResponder(logger),
		logger:    logger,
		settings:  settings,
	}
}

type settingsRequest struct {
	CompanyEmail string `json:"companyEmail" validate:"required,email" label:"Company email"`
	CompanyName  string `json:"companyName"`
}

// getSettings returns the company settings, creating defaults on first read
// @Summary Get settings
// @Tags Settings
// @Success 200 {object} models.CompanySettings
// @Router /api/settings [get]
func (h settingsHandler) getSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := h.settings.Get(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, settings, "")
	}
}

// @Summary Update settings
// @Tags Settings
// @Accept json
// @Param settings body settingsRequest true "Settings"
// @Success 200 {object} models.CompanySettings
// @Failure 400 {object} errorResponse "Validation failed"
// @Router /api/settings [put]
func (h settingsHandler) updateSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body settingsRequest
		if err := decodeJSON(w, r, &body); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		body.CompanyEmail = strings.TrimSpace(body.CompanyEmail)
		if err := validatePayload(&body); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		settings, err := h.settings.Upsert(r.Context(), body.CompanyEmail, optionalString(body.CompanyName))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, settings, "Settings updated successfully")
	}
}
