package models

import "github.com/google/uuid"

// DashboardStats is the admin dashboard payload.
type DashboardStats struct {
	TotalProjects int64               `json:"totalProjects"`
	TotalViews    int64               `json:"totalViews"`
	TotalLeads    int64               `json:"totalLeads"`
	NewLeads      int64               `json:"newLeads"`
	GithubClicks  int64               `json:"githubClicks"`
	LiveClicks    int64               `json:"liveClicks"`
	ContactClicks int64               `json:"contactClicks"`
	RecentLeads   []*Lead             `json:"recentLeads"`
	TopProjects   []ProjectEngagement `json:"topProjects"`
}

// ProjectEngagement is a project's view and outbound-click totals.
type ProjectEngagement struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Views  int64     `json:"views"`
	Clicks int64     `json:"clicks"`
}
