package database

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/studio-site-backend/errs"
	"github.com/rpupo63/studio-site-backend/models"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// ProjectFilter narrows List. Zero values mean "no filter".
type ProjectFilter struct {
	Category     models.Category
	FeaturedOnly bool
	Search       string
}

const projectCountsSelect = `projects.*,
	(SELECT COUNT(*) FROM analytics a WHERE a.project_id = projects.id AND a.event_type = ?) AS view_count,
	(SELECT COUNT(*) FROM leads l WHERE l.project_id = projects.id) AS lead_count`

func (r *ProjectRepo) withCounts(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Project{}).
		Select(projectCountsSelect, models.EventView)
}

// List returns projects featured first, then by order, newest first.
func (r *ProjectRepo) List(ctx context.Context, filter ProjectFilter) ([]*models.Project, error) {
	q := r.withCounts(ctx)
	if filter.Category != "" {
		q = q.Where("projects.category = ?", filter.Category)
	}
	if filter.FeaturedOnly {
		q = q.Where("projects.is_featured = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		q = q.Where("(projects.name ILIKE ? OR projects.tagline ILIKE ? OR projects.description ILIKE ?)", pattern, pattern, pattern)
	}

	projects := []*models.Project{}
	err := q.Order("projects.is_featured DESC, projects.sort_order ASC, projects.created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "projects", err)
	}
	return projects, nil
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.withCounts(ctx).Where("projects.id = ?", id).Take(&project).Error
	if err != nil {
		return nil, errs.NewDatabaseError("fetch", "Project", err)
	}
	return &project, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return errs.NewDatabaseError("create", "project", err)
	}
	return nil
}

// Update overwrites every mutable column of the project with the given ID.
// createdAt is kept.
func (r *ProjectRepo) Update(ctx context.Context, id uuid.UUID, project *models.Project) (*models.Project, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at").
		Updates(project)
	if res.Error != nil {
		return nil, errs.NewDatabaseError("update", "project", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errs.NewNotFound("Project")
	}
	return r.FindByID(ctx, id)
}

// Delete removes a project from the database by id. Leads and analytics
// rows that point at it are left in place.
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Project{}, "id = ?", id)
	if res.Error != nil {
		return errs.NewDatabaseError("delete", "project", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("Project")
	}
	return nil
}

// Count returns the number of projects.
func (r *ProjectRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Project{}).Count(&n).Error; err != nil {
		return 0, errs.NewDatabaseError("count", "projects", err)
	}
	return n, nil
}

// TopByViews returns the n projects with the most VIEW events. Clicks sums
// GITHUB_CLICK and LIVE_CLICK events.
func (r *ProjectRepo) TopByViews(ctx context.Context, n int) ([]models.ProjectEngagement, error) {
	rows := []models.ProjectEngagement{}
	err := r.db.WithContext(ctx).
		Table("projects p").
		Select(`p.id, p.name,
			COUNT(a.id) FILTER (WHERE a.event_type = ?) AS views,
			COUNT(a.id) FILTER (WHERE a.event_type IN ?) AS clicks`,
			models.EventView, []models.EventType{models.EventGithubClick, models.EventLiveClick}).
		Joins("LEFT JOIN analytics a ON a.project_id = p.id").
		Group("p.id, p.name, p.created_at").
		Order("views DESC, p.created_at DESC").
		Limit(n).
		Scan(&rows).Error
	if err != nil {
		return nil, errs.NewDatabaseError("rank", "projects", err)
	}
	return rows, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
