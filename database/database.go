package database

import (
	"context"
	"time"

	"github.com/rpupo63/studio-site-backend/errs"
	"github.com/rpupo63/studio-site-backend/models"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

type Database struct {
	db             *gorm.DB
	adminRepo      *AdminRepo
	projectRepo    *ProjectRepo
	teamMemberRepo *TeamMemberRepo
	leadRepo       *LeadRepo
	analyticsRepo  *AnalyticsRepo
	settingsRepo   *SettingsRepo
	statsRepo      *StatsRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	leads := NewLeadRepo(db)
	analytics := NewAnalyticsRepo(db)
	projects := NewProjectRepo(db)
	return Database{
		db:             db,
		adminRepo:      NewAdminRepo(db),
		projectRepo:    projects,
		teamMemberRepo: NewTeamMemberRepo(db),
		leadRepo:       leads,
		analyticsRepo:  analytics,
		settingsRepo:   NewSettingsRepo(db),
		statsRepo:      NewStatsRepo(projects, leads, analytics),
	}
}

// Accessor methods for each repository

func (d Database) AdminRepo() *AdminRepo {
	return d.adminRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) TeamMemberRepo() *TeamMemberRepo {
	return d.teamMemberRepo
}

func (d Database) LeadRepo() *LeadRepo {
	return d.leadRepo
}

func (d Database) AnalyticsRepo() *AnalyticsRepo {
	return d.analyticsRepo
}

func (d Database) SettingsRepo() *SettingsRepo {
	return d.settingsRepo
}

func (d Database) StatsRepo() *StatsRepo {
	return d.statsRepo
}

// Ping checks the primary connection.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return errs.NewDatabaseError("ping", "database", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errs.NewDatabaseError("ping", "database", err)
	}
	return nil
}

// Migrate creates or alters every table to match the models.
func (d Database) Migrate() error {
	return d.db.AutoMigrate(models.All()...)
}

// Close releases the connection pool.
func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Options configures Open.
type Options struct {
	DSN           string
	ReplicaDSN    string
	SlowThreshold time.Duration
	Logger        zerolog.Logger
}

// dialector uses the simple protocol so statements survive the Supabase
// transaction pooler, which does not keep prepared statements.
func dialector(dsn string) gorm.Dialector {
	return postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	})
}

// Open connects to postgres and, when a replica DSN is given, routes
// reads to it through dbresolver.
func Open(opts Options) (*gorm.DB, error) {
	db, err := gorm.Open(dialector(opts.DSN), &gorm.Config{
		PrepareStmt: false,
		Logger:      NewGormLogger(opts.Logger, opts.SlowThreshold),
	})
	if err != nil {
		return nil, err
	}

	if opts.ReplicaDSN != "" {
		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{dialector(opts.ReplicaDSN)},
			Policy:   dbresolver.RandomPolicy{},
		})
		if err := db.Use(resolver); err != nil {
			return nil, err
		}
	}
	return db, nil
}

type zerologWriter struct {
	log zerolog.Logger
}

func (w zerologWriter) Printf(format string, args ...interface{}) {
	w.log.Info().Msgf(format, args...)
}

// NewGormLogger sends GORM's log through zerolog. Every statement is logged
// only when the logger is at debug level; otherwise just slow queries and errors.
func NewGormLogger(log zerolog.Logger, slowThreshold time.Duration) logger.Interface {
	if slowThreshold == 0 {
		slowThreshold = 200 * time.Millisecond
	}
	level := logger.Warn
	if log.GetLevel() <= zerolog.DebugLevel {
		level = logger.Info
	}
	return logger.New(zerologWriter{log: log.With().Str("component", "gorm").Logger()}, logger.Config{
		SlowThreshold:             slowThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}
