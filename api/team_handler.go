package api

import (
	"net/http"
	"strings"

	"github.com/rpupo63/studio-site-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type teamHandler struct {
	responder Responder
	logger    zerolog.Logger
	team      TeamStore
}

func newTeamHandler(team TeamStore) teamHandler {
	logger := log.With().Str("handlerName", "teamHandler").Logger()
	return teamHandler{
		responder: NewResponder(logger),
		logger:    logger,
		team:      team,
	}
}

// teamMemberRequest is the create and update body. Order and IsActive are
// pointers so an update can tell "absent" from zero.
type teamMemberRequest struct {
	Name        string   `json:"name" validate:"min=2"`
	Role        string   `json:"role" validate:"min=2"`
	Bio         string   `json:"bio"`
	Education   string   `json:"education"`
	Experience  string   `json:"experience"`
	Skills      []string `json:"skills" validate:"omitempty,dive,required"`
	PhotoURL    string   `json:"photoUrl" validate:"omitempty,url" label:"Photo URL"`
	GithubURL   string   `json:"githubUrl" validate:"omitempty,url"`
	LinkedinURL string   `json:"linkedinUrl" validate:"omitempty,url"`
	TwitterURL  string   `json:"twitterUrl" validate:"omitempty,url"`
	Order       *int     `json:"order"`
	IsActive    *bool    `json:"isActive"`
}

func (t *teamMemberRequest) trim() {
	t.Name = strings.TrimSpace(t.Name)
	t.Role = strings.TrimSpace(t.Role)
	t.Skills = trimEach(t.Skills)
	t.PhotoURL = strings.TrimSpace(t.PhotoURL)
	t.GithubURL = strings.TrimSpace(t.GithubURL)
	t.LinkedinURL = strings.TrimSpace(t.LinkedinURL)
	t.TwitterURL = strings.TrimSpace(t.TwitterURL)
}

// apply copies the request onto m. Absent order and isActive leave the
// current values alone.
func (t teamMemberRequest) apply(m *models.TeamMember) {
	m.Name = t.Name
	m.Role = t.Role
	m.Bio = optionalString(t.Bio)
	m.Education = optionalString(t.Education)
	m.Experience = optionalString(t.Experience)
	m.Skills = jsonSlice(t.Skills)
	m.PhotoURL = optionalString(t.PhotoURL)
	m.GithubURL = optionalString(t.GithubURL)
	m.LinkedinURL = optionalString(t.LinkedinURL)
	m.TwitterURL = optionalString(t.TwitterURL)
	if t.Order != nil {
		m.Order = *t.Order
	}
	if t.IsActive != nil {
		m.IsActive = *t.IsActive
	}
}

// listTeam returns the roster
// @Summary List team members
// @Tags Team
// @Produce json
// @Param active query bool false "Only active members"
// @Success 200 {array} models.TeamMember
// @Router /api/team [get]
func (h teamHandler) listTeam() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		members, err := h.team.List(r.Context(), r.URL.Query().Get("active") == "true")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, members, "")
	}
}

// @Summary Get team member
// @Tags Team
// @Param id path string true "Team member ID" format(uuid)
// @Success 200 {object} models.TeamMember
// @Failure 404 {object} errorResponse
// @Router /api/team/{id} [get]
func (h teamHandler) getTeamMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "Team member")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		member, err := h.team.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, member, "")
	}
}

// @Summary Create team member
// @Tags Team
// @Accept json
// @Param member body teamMemberRequest true "Team member data"
// @Success 201 {object} models.TeamMember
// @Failure 400 {object} errorResponse "Validation failed"
// @Router /api/team [post]
func (h teamHandler) createTeamMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body teamMemberRequest
		if err := decodeJSON(w, r, &body); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		body.trim()
		if err := validatePayload(&body); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		member := &models.TeamMember{IsActive: true}
		body.apply(member)
		if err := h.team.Add(r.Context(), member); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusCreated, member, "Team member created")
	}
}

// @Summary Update team member
// @Tags Team
// @Accept json
// @Param id path string true "Team member ID" format(uuid)
// @Param member body teamMemberRequest true "Team member data"
// @Success 200 {object} models.TeamMember
// @Failure 404 {object} errorResponse
// @Router /api/team/{id} [put]
func (h teamHandler) updateTeamMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "Team member")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var body teamMemberRequest
		if err := decodeJSON(w, r, &body); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		body.trim()
		if err := validatePayload(&body); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		member, err := h.team.Update(r.Context(), id, body.apply)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, member, "Team member updated")
	}
}

// @Summary Delete team member
// @Tags Team
// @Param id path string true "Team member ID" format(uuid)
// @Success 200 {object} successResponse
// @Failure 404 {object} errorResponse
// @Router /api/team/{id} [delete]
func (h teamHandler) deleteTeamMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "Team member")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.team.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, nil, "Team member deleted")
	}
}
