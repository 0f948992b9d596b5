package database

import (
	"context"
	"time"

	"github.com/rpupo63/studio-site-backend/errs"
	"github.com/rpupo63/studio-site-backend/models"
	"golang.org/x/sync/errgroup"
)

const (
	newLeadWindow   = 30 * 24 * time.Hour
	dashboardListed = 5
)

// StatsRepo builds the admin dashboard out of the other repositories.
type StatsRepo struct {
	projects  *ProjectRepo
	leads     *LeadRepo
	analytics *AnalyticsRepo
	now       func() time.Time
}

func NewStatsRepo(projects *ProjectRepo, leads *LeadRepo, analytics *AnalyticsRepo) *StatsRepo {
	return &StatsRepo{projects: projects, leads: leads, analytics: analytics, now: time.Now}
}

// Dashboard runs every aggregate concurrently. Any failing query fails the
// whole call; the counts are not a single consistent snapshot.
func (r *StatsRepo) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}
	g, ctx := errgroup.WithContext(ctx)

	count := func(dst *int64, fn func(context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := fn(ctx)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}
	byType := func(t models.EventType) func(context.Context) (int64, error) {
		return func(ctx context.Context) (int64, error) { return r.analytics.CountByType(ctx, t) }
	}

	count(&stats.TotalProjects, r.projects.Count)
	count(&stats.TotalViews, byType(models.EventView))
	count(&stats.GithubClicks, byType(models.EventGithubClick))
	count(&stats.LiveClicks, byType(models.EventLiveClick))
	count(&stats.ContactClicks, byType(models.EventContactClick))
	count(&stats.TotalLeads, func(ctx context.Context) (int64, error) {
		return r.leads.Count(ctx, time.Time{})
	})
	count(&stats.NewLeads, func(ctx context.Context) (int64, error) {
		return r.leads.Count(ctx, r.now().Add(-newLeadWindow))
	})

	g.Go(func() error {
		leads, err := r.leads.Recent(ctx, dashboardListed)
		if err != nil {
			return err
		}
		stats.RecentLeads = leads
		return nil
	})
	g.Go(func() error {
		top, err := r.projects.TopByViews(ctx, dashboardListed)
		if err != nil {
			return err
		}
		stats.TopProjects = top
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, errs.NewInternalErrorWithCause("Failed to fetch stats", err)
	}
	return stats, nil
}
