package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/studio-site-backend/errs"
	"github.com/rpupo63/studio-site-backend/models"
	"gorm.io/gorm"
)

type LeadRepo struct {
	db *gorm.DB
}

func NewLeadRepo(db *gorm.DB) *LeadRepo {
	return &LeadRepo{db}
}

// withProjectName selects leads joined to the name of the project they
// point at, when that project still exists.
func (r *LeadRepo) withProjectName(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Lead{}).
		Select("leads.*, projects.name AS project_name").
		Joins("LEFT JOIN projects ON projects.id = leads.project_id")
}

// List returns leads newest first, optionally only those with status.
func (r *LeadRepo) List(ctx context.Context, status models.LeadStatus) ([]*models.Lead, error) {
	q := r.withProjectName(ctx)
	if status != "" {
		q = q.Where("leads.status = ?", status)
	}

	leads := []*models.Lead{}
	if err := q.Order("leads.created_at DESC").Find(&leads).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "leads", err)
	}
	return leads, nil
}

// Recent returns the n newest leads.
func (r *LeadRepo) Recent(ctx context.Context, n int) ([]*models.Lead, error) {
	leads := []*models.Lead{}
	err := r.withProjectName(ctx).Order("leads.created_at DESC").Limit(n).Find(&leads).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "recent leads", err)
	}
	return leads, nil
}

func (r *LeadRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	if err := r.withProjectName(ctx).Where("leads.id = ?", id).Take(&lead).Error; err != nil {
		return nil, errs.NewDatabaseError("fetch", "Lead", err)
	}
	return &lead, nil
}

// Add stores a new lead. Status is always NEW regardless of the input.
func (r *LeadRepo) Add(ctx context.Context, lead *models.Lead) error {
	lead.Status = models.LeadStatusNew
	if err := r.db.WithContext(ctx).Create(lead).Error; err != nil {
		return errs.NewDatabaseError("create", "lead", err)
	}
	return nil
}

// UpdateStatus moves a lead to status. Setting the current status again
// succeeds without a write.
func (r *LeadRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.LeadStatus) (*models.Lead, error) {
	lead, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead.Status == status {
		return lead, nil
	}

	res := r.db.WithContext(ctx).
		Model(&models.Lead{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, errs.NewDatabaseError("update", "lead", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errs.NewNotFound("Lead")
	}
	return r.FindByID(ctx, id)
}

func (r *LeadRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Lead{}, "id = ?", id)
	if res.Error != nil {
		return errs.NewDatabaseError("delete", "lead", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("Lead")
	}
	return nil
}

// Count returns the number of leads created at or after since; a zero
// since counts every lead.
func (r *LeadRepo) Count(ctx context.Context, since time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Lead{})
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, errs.NewDatabaseError("count", "leads", err)
	}
	return n, nil
}
