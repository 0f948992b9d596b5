package database

import (
	"context"

	"github.com/rpupo63/studio-site-backend/errs"
	"github.com/rpupo63/studio-site-backend/models"
	"gorm.io/gorm"
)

type AnalyticsRepo struct {
	db *gorm.DB
}

func NewAnalyticsRepo(db *gorm.DB) *AnalyticsRepo {
	return &AnalyticsRepo{db}
}

// Add appends one event. The project reference is not checked.
func (r *AnalyticsRepo) Add(ctx context.Context, event *models.Analytics) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return errs.NewDatabaseError("record", "event", err)
	}
	return nil
}

// CountByType returns the number of events of the given type across all projects.
func (r *AnalyticsRepo) CountByType(ctx context.Context, eventType models.EventType) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Analytics{}).
		Where("event_type = ?", eventType).
		Count(&n).Error
	if err != nil {
		return 0, errs.NewDatabaseError("count", "events", err)
	}
	return n, nil
}
