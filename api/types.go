package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/studio-site-backend/database"
	"github.com/rpupo63/studio-site-backend/models"
	"github.com/rpupo63/studio-site-backend/services"
	"github.com/rpupo63/studio-site-backend/storage"
)

type ProjectStore interface {
	List(ctx context.Context, filter database.ProjectFilter) ([]*models.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Add(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, id uuid.UUID, project *models.Project) (*models.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TeamStore interface {
	List(ctx context.Context, activeOnly bool) ([]*models.TeamMember, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.TeamMember, error)
	Add(ctx context.Context, member *models.TeamMember) error
	Update(ctx context.Context, id uuid.UUID, apply func(*models.TeamMember)) (*models.TeamMember, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type LeadStore interface {
	List(ctx context.Context, status models.LeadStatus) ([]*models.Lead, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	Add(ctx context.Context, lead *models.Lead) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.LeadStatus) (*models.Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type AnalyticsStore interface {
	Add(ctx context.Context, event *models.Analytics) error
}

type SettingsStore interface {
	Get(ctx context.Context) (*models.CompanySettings, error)
	Upsert(ctx context.Context, companyEmail string, companyName *string) (*models.CompanySettings, error)
}

type StatsStore interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
}

type ObjectStore interface {
	Upload(ctx context.Context, file storage.File, folder string) (*storage.Object, error)
	Delete(ctx context.Context, path string) error
	DeleteMany(ctx context.Context, paths []string) error
}

type LoginService interface {
	Login(ctx context.Context, email, password string) (string, *services.Session, error)
}

type SessionParser interface {
	Parse(token string) (*services.Session, error)
}

type LeadNotifier interface {
	Notify(ctx context.Context, lead *models.Lead, projectName string) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies is everything the router needs. Notifier may be nil.
type Dependencies struct {
	Projects  ProjectStore
	Team      TeamStore
	Leads     LeadStore
	Analytics AnalyticsStore
	Settings  SettingsStore
	Stats     StatsStore
	Storage   ObjectStore
	Auth      LoginService
	Sessions  SessionParser
	Notifier  LeadNotifier
	Health    Pinger
}

// DependenciesFromDatabase fills the store fields from the repositories.
func DependenciesFromDatabase(db database.Database) Dependencies {
	return Dependencies{
		Projects:  db.ProjectRepo(),
		Team:      db.TeamMemberRepo(),
		Leads:     db.LeadRepo(),
		Analytics: db.AnalyticsRepo(),
		Settings:  db.SettingsRepo(),
		Stats:     db.StatsRepo(),
		Health:    db,
	}
}

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler   projectHandler
	teamHandler      teamHandler
	leadHandler      leadHandler
	analyticsHandler analyticsHandler
	settingsHandler  settingsHandler
	statsHandler     statsHandler
	uploadHandler    uploadHandler
	authHandler      authHandler
	healthHandler    healthHandler
}
