package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/studio-site-backend/errs"
	"github.com/rs/zerolog"
)

const (
	maxJSONBodySize      = 1 << 20
	internalErrorMessage = "Internal server error"
)

// successResponse is the envelope of every 2xx answer.
type successResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// errorResponse is the envelope of every failed answer.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, status int, body any) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"` + internalErrorMessage + `"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteSuccess writes {success: true, data, message}.
func (r Responder) WriteSuccess(w http.ResponseWriter, status int, data any, message string) {
	r.WriteJSON(w, status, successResponse{Success: true, Data: data, Message: message})
}

// WriteError maps err onto the error envelope. *errs.ApiErr values keep
// their status and message; anything else is logged and becomes a 500.
// Causes are logged, never sent.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: internalErrorMessage})
		return
	}

	response := errorResponse{Error: apiErr.Message()}
	switch {
	case len(apiErr.FieldErrors) > 0:
		response.Details = apiErr.FieldErrors
	case apiErr.Details != "" && apiErr.StatusCode < http.StatusInternalServerError:
		response.Details = apiErr.Details
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Str("error", apiErr.GetFullError()).Int("status", apiErr.StatusCode).Msg("request failed")
	} else if apiErr.Cause != nil {
		r.logger.Debug().Str("error", apiErr.GetFullError()).Int("status", apiErr.StatusCode).Msg("request rejected")
	}

	r.WriteJSON(w, apiErr.StatusCode, response)
}

// decodeJSON reads a size-capped JSON body into dst. Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, req *http.Request, dst any) error {
	body := http.MaxBytesReader(w, req.Body, maxJSONBodySize)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return errs.NewInvalidJSONError(err)
	}
	return nil
}

// urlID parses the {id} route parameter. An id that is not a uuid cannot
// match any row, so it is reported as entity not found.
func urlID(req *http.Request, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(req, "id")))
	if err != nil {
		return uuid.Nil, errs.NewNotFound(entity)
	}
	return id, nil
}
