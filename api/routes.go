package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// setupRoutes mounts the public and admin API under /api. publicWrite
// wraps the anonymous ingestion endpoints (contact form, analytics).
func setupRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware, publicWrite func(http.Handler) http.Handler) {
	r.Route("/api", func(r chi.Router) {
		// Public
		r.Get("/projects", handlers.projectHandler.listProjects())
		r.Get("/projects/{id}", handlers.projectHandler.getProject())
		r.Get("/team", handlers.teamHandler.listTeam())
		r.Get("/team/{id}", handlers.teamHandler.getTeamMember())
		r.Get("/settings", handlers.settingsHandler.getSettings())
		r.With(publicWrite).Post("/leads", handlers.leadHandler.createLead())
		r.With(publicWrite).Post("/analytics", handlers.analyticsHandler.trackEvent())
		r.Post("/auth/login", handlers.authHandler.login())
		r.Post("/auth/logout", handlers.authHandler.logout())

		// Admin
		r.Group(func(r chi.Router) {
			r.Use(auth.requireAdmin)

			r.Get("/auth/session", handlers.authHandler.currentSession())

			r.Post("/projects", handlers.projectHandler.createProject())
			r.Put("/projects/{id}", handlers.projectHandler.updateProject())
			r.Delete("/projects/{id}", handlers.projectHandler.deleteProject())

			r.Post("/team", handlers.teamHandler.createTeamMember())
			r.Put("/team/{id}", handlers.teamHandler.updateTeamMember())
			r.Delete("/team/{id}", handlers.teamHandler.deleteTeamMember())

			r.Get("/leads", handlers.leadHandler.listLeads())
			r.Get("/leads/{id}", handlers.leadHandler.getLead())
			r.Put("/leads/{id}", handlers.leadHandler.updateLeadStatus())
			r.Delete("/leads/{id}", handlers.leadHandler.deleteLead())

			r.Put("/settings", handlers.settingsHandler.updateSettings())
			r.Get("/admin/stats", handlers.statsHandler.getDashboard())

			r.Post("/upload", handlers.uploadHandler.uploadFile())
			r.Delete("/upload", handlers.uploadHandler.deleteFiles())
		})
	})
}
