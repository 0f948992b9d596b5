package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/studio-site-backend/errs"
	"github.com/rpupo63/studio-site-backend/models"
	"gorm.io/gorm"
)

type TeamMemberRepo struct {
	db *gorm.DB
}

func NewTeamMemberRepo(db *gorm.DB) *TeamMemberRepo {
	return &TeamMemberRepo{db}
}

// List returns team members by order, newest first.
func (r *TeamMemberRepo) List(ctx context.Context, activeOnly bool) ([]*models.TeamMember, error) {
	q := r.db.WithContext(ctx).Model(&models.TeamMember{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	members := []*models.TeamMember{}
	if err := q.Order("sort_order ASC, created_at DESC").Find(&members).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "team members", err)
	}
	return members, nil
}

func (r *TeamMemberRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&member).Error; err != nil {
		return nil, errs.NewDatabaseError("fetch", "Team member", err)
	}
	return &member, nil
}

func (r *TeamMemberRepo) Add(ctx context.Context, member *models.TeamMember) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return errs.NewDatabaseError("create", "team member", err)
	}
	return nil
}

// Update loads the stored member, lets apply overwrite its fields and saves
// the result. The load and save run in one transaction.
func (r *TeamMemberRepo) Update(ctx context.Context, id uuid.UUID, apply func(*models.TeamMember)) (*models.TeamMember, error) {
	var member models.TeamMember
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).Take(&member).Error; err != nil {
			return err
		}
		apply(&member)
		member.ID = id
		return tx.Save(&member).Error
	})
	if err != nil {
		return nil, errs.NewDatabaseError("update", "Team member", err)
	}
	return &member, nil
}

func (r *TeamMemberRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.TeamMember{}, "id = ?", id)
	if res.Error != nil {
		return errs.NewDatabaseError("delete", "team member", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("Team member")
	}
	return nil
}
