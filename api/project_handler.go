package api

import (
	"net/http"
	"strings"

	"github.com/rpupo63/studio-site-backend/database"
	"github.com/rpupo63/studio-site-backend/errs"
	"github.com/rpupo63/studio-site-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  ProjectStore
}

func newProjectHandler(projects ProjectStore) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
	}
}

// projectRequest is the create and full-replace body of a project.
type projectRequest struct {
	Name           string          `json:"name" validate:"min=3"`
	Tagline        string          `json:"tagline" validate:"min=10"`
	Description    string          `json:"description" validate:"min=50"`
	Problem        string          `json:"problem"`
	Solution       string          `json:"solution"`
	TargetAudience string          `json:"targetAudience"`
	TechStack      []string        `json:"techStack" validate:"min=1,dive,required" label:"Tech stack"`
	Features       []string        `json:"features" validate:"omitempty,dive,required"`
	Category       models.Category `json:"category" validate:"required,oneof=WEB_APP AI_TOOL MOBILE_APP SAAS EXPERIMENT"`
	GithubURL      string          `json:"githubUrl" validate:"omitempty,url"`
	LiveURL        string          `json:"liveUrl" validate:"omitempty,url"`
	VideoURL       string          `json:"videoUrl" validate:"omitempty,url"`
	Images         []string        `json:"images" validate:"omitempty,dive,url"`
	IsFeatured     bool            `json:"isFeatured"`
	Order          int             `json:"order"`
}

// trim normalizes the payload before validation so the stored values are
// the ones that passed the checks.
func (p *projectRequest) trim() {
	p.Name = strings.TrimSpace(p.Name)
	p.Tagline = strings.TrimSpace(p.Tagline)
	p.Description = strings.TrimSpace(p.Description)
	p.Problem = strings.TrimSpace(p.Problem)
	p.Solution = strings.TrimSpace(p.Solution)
	p.TargetAudience = strings.TrimSpace(p.TargetAudience)
	p.TechStack = trimEach(p.TechStack)
	p.Features = trimEach(p.Features)
	p.GithubURL = strings.TrimSpace(p.GithubURL)
	p.LiveURL = strings.TrimSpace(p.LiveURL)
	p.VideoURL = strings.TrimSpace(p.VideoURL)
	p.Images = trimEach(p.Images)
}

func (p projectRequest) toModel() *models.Project {
	return &models.Project{
		Name:           p.Name,
		Tagline:        p.Tagline,
		Description:    p.Description,
		Problem:        optionalString(p.Problem),
		Solution:       optionalString(p.Solution),
		TargetAudience: optionalString(p.TargetAudience),
		TechStack:      jsonSlice(p.TechStack),
		Features:       jsonSlice(p.Features),
		Category:       p.Category,
		GithubURL:      optionalString(p.GithubURL),
		LiveURL:        optionalString(p.LiveURL),
		VideoURL:       optionalString(p.VideoURL),
		Images:         jsonSlice(p.Images),
		IsFeatured:     p.IsFeatured,
		Order:          p.Order,
	}
}

// optionalString maps an empty or blank string to NULL.
func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func trimEach(values []string) []string {
	for i, v := range values {
		values[i] = strings.TrimSpace(v)
	}
	return values
}

func jsonSlice(values []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(values))
	return append(out, values...)
}

// listProjects returns the public gallery
// @Summary List projects
// @Description Featured first, then by order, newest first
// @Tags Projects
// @Produce json
// @Param category query string false "WEB_APP, AI_TOOL, MOBILE_APP, SAAS or EXPERIMENT"
// @Param featured query bool false "Only featured projects"
// @Param search query string false "Case-insensitive match on name, tagline or description"
// @Success 200 {array} models.Project
// @Failure 400 {object} errorResponse "Unknown category"
// @Router /api/projects [get]
func (h projectHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filter := database.ProjectFilter{
			Category:     models.Category(query.Get("category")),
			FeaturedOnly: query.Get("featured") == "true",
			Search:       query.Get("search"),
		}
		if filter.Category != "" && !filter.Category.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("category", "Unknown category"))
			return
		}

		projects, err := h.projects.List(r.Context(), filter)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, projects, "")
	}
}

// getProject returns one project
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project
// @Failure 404 {object} errorResponse "Project not found"
// @Router /api/projects/{id} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "Project")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, project, "")
	}
}

// createProject adds a project to the gallery
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body projectRequest true "Project data"
// @Success 201 {object} models.Project
// @Failure 400 {object} errorResponse "Validation failed"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Router /api/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body projectRequest
		if err := decodeJSON(w, r, &body); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		body.trim()
		if err := validatePayload(&body); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project := body.toModel()
		if err := h.projects.Add(r.Context(), project); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("projectId", project.ID.String()).Msg("project created")
		h.responder.WriteSuccess(w, http.StatusCreated, project, "Project created successfully")
	}
}

// updateProject replaces every field of a project
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param project body projectRequest true "Project data"
// @Success 200 {object} models.Project
// @Failure 400 {object} errorResponse "Validation failed"
// @Failure 404 {object} errorResponse "Project not found"
// @Router /api/projects/{id} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "Project")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var body projectRequest
		if err := decodeJSON(w, r, &body); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		body.trim()
		if err := validatePayload(&body); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.Update(r.Context(), id, body.toModel())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, project, "Project updated successfully")
	}
}

// deleteProject removes a project. Its leads and analytics rows remain.
// @Summary Delete project
// @Tags Projects
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {object} successResponse
// @Failure 404 {object} errorResponse "Project not found"
// @Router /api/projects/{id} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "Project")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projects.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("projectId", id.String()).Msg("project deleted")
		h.responder.WriteSuccess(w, http.StatusOK, nil, "Project deleted successfully")
	}
}
