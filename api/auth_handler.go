package api

import (
	"net/http"
	"time"

	"github.com/rpupo63/studio-site-backend/errs"
	"github.com/rpupo63/studio-site-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder    Responder
	logger       zerolog.Logger
	auth         LoginService
	metrics      *metrics
	secureCookie bool
}

func newAuthHandler(auth LoginService, m *metrics, secureCookie bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()
	return authHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		auth:         auth,
		metrics:      m,
		secureCookie: secureCookie,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Admin     adminView `json:"admin"`
}

type adminView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func viewOf(session *services.Session) adminView {
	return adminView{ID: session.AdminID.String(), Email: session.Email, Name: session.Name}
}

// login starts an admin session
// @Summary Admin login
// @Description Sets the session cookie and returns the token for non-browser clients
// @Tags Auth
// @Accept json
// @Param credentials body loginRequest true "Credentials"
// @Success 200 {object} loginResponse
// @Failure 400 {object} errorResponse "Validation failed"
// @Failure 401 {object} errorResponse "Invalid credentials"
// @Router /api/auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body loginRequest
		if err := decodeJSON(w, r, &body); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validatePayload(&body); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		token, session, err := h.auth.Login(r.Context(), body.Email, body.Password)
		if err != nil {
			if errs.IsInvalidCredentials(err) {
				h.metrics.recordLogin(false)
			}
			h.responder.WriteError(w, err)
			return
		}
		h.metrics.recordLogin(true)

		http.SetCookie(w, &http.Cookie{
			Name:     services.SessionCookieName,
			Value:    token,
			Path:     "/",
			Expires:  session.ExpiresAt,
			MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
			HttpOnly: true,
			Secure:   h.secureCookie,
			SameSite: http.SameSiteLaxMode,
		})

		h.logger.Info().Str("adminId", session.AdminID.String()).Msg("admin logged in")
		h.responder.WriteSuccess(w, http.StatusOK, loginResponse{
			Token:     token,
			ExpiresAt: session.ExpiresAt,
			Admin:     viewOf(session),
		}, "Logged in")
	}
}

// logout clears the session cookie. Tokens are stateless, so a copied
// token stays valid until it expires.
// @Summary Admin logout
// @Tags Auth
// @Success 200 {object} successResponse
// @Router /api/auth/logout [post]
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     services.SessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
		h.responder.WriteSuccess(w, http.StatusOK, nil, "Logged out")
	}
}

// @Summary Current admin
// @Tags Auth
// @Success 200 {object} adminView
// @Failure 401 {object} errorResponse
// @Router /api/auth/session [get]
func (h authHandler) currentSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := ctxGetSession(r.Context())
		if session == nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError())
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, viewOf(session), "")
	}
}
