package database

import (
	"context"
	"strings"

	"github.com/rpupo63/studio-site-backend/errs"
	"github.com/rpupo63/studio-site-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdminRepo struct {
	db *gorm.DB
}

func NewAdminRepo(db *gorm.DB) *AdminRepo {
	return &AdminRepo{db}
}

// FindByEmail looks an admin up by case-insensitive email.
func (r *AdminRepo) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Take(&admin).Error
	if err != nil {
		return nil, errs.NewDatabaseError("fetch", "Admin", err)
	}
	return &admin, nil
}

// Upsert creates the admin or, when the email is taken, replaces its name
// and password hash.
func (r *AdminRepo) Upsert(ctx context.Context, admin *models.Admin) error {
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "password_hash", "updated_at"}),
		}).
		Create(admin).Error
	if err != nil {
		return errs.NewDatabaseError("save", "admin", err)
	}
	return nil
}
