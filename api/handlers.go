package api

import (
	"time"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, m *metrics, secureCookie bool, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		projectHandler:   newProjectHandler(deps.Projects),
		teamHandler:      newTeamHandler(deps.Team),
		leadHandler:      newLeadHandler(deps.Leads, deps.Notifier, m),
		analyticsHandler: newAnalyticsHandler(deps.Analytics, m),
		settingsHandler:  newSettingsHandler(deps.Settings),
		statsHandler:     newStatsHandler(deps.Stats),
		uploadHandler:    newUploadHandler(deps.Storage),
		authHandler:      newAuthHandler(deps.Auth, m, secureCookie),
		healthHandler:    newHealthHandler(deps.Health, startupTime),
	}
}
