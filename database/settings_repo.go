package database

import (
	"context"
	"errors"

	"github.com/rpupo63/studio-site-backend/errs"
	"github.com/rpupo63/studio-site-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

type SettingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) *SettingsRepo {
	return &SettingsRepo{db}
}

// primary pins the query to the primary so a row created a moment ago is
// visible even with a lagging replica.
func (r *SettingsRepo) primary(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Clauses(dbresolver.Write)
}

func (r *SettingsRepo) find(ctx context.Context) (*models.CompanySettings, error) {
	var settings models.CompanySettings
	if err := r.primary(ctx).Where("singleton = ?", true).Take(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// Get returns the settings row, creating it with defaults on first use.
// Concurrent first callers all end up reading the same row.
func (r *SettingsRepo) Get(ctx context.Context) (*models.CompanySettings, error) {
	settings, err := r.find(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewDatabaseError("fetch", "settings", err)
	}

	defaults := models.DefaultCompanySettings()
	err = r.primary(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "singleton"}}, DoNothing: true}).
		Create(&defaults).Error
	if err != nil {
		return nil, errs.NewDatabaseError("create", "settings", err)
	}

	settings, err = r.find(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("fetch", "settings", err)
	}
	return settings, nil
}

// Upsert overwrites the settings, creating the row if there is none yet.
func (r *SettingsRepo) Upsert(ctx context.Context, companyEmail string, companyName *string) (*models.CompanySettings, error) {
	settings, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}

	settings.CompanyEmail = companyEmail
	settings.CompanyName = companyName
	if err := r.primary(ctx).Save(settings).Error; err != nil {
		return nil, errs.NewDatabaseError("update", "settings", err)
	}
	return settings, nil
}
