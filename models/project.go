package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project is a portfolio item shown in the public gallery
type Project struct {
	ID             uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name           string                      `json:"name" gorm:"type:text;not null"`
	Tagline        string                      `json:"tagline" gorm:"type:text;not null"`
	Description    string                      `json:"description" gorm:"type:text;not null"`
	Problem        *string                     `json:"problem" gorm:"type:text"`
	Solution       *string                     `json:"solution" gorm:"type:text"`
	TargetAudience *string                     `json:"targetAudience" gorm:"type:text"`
	TechStack      datatypes.JSONSlice[string] `json:"techStack" gorm:"type:jsonb;not null;default:'[]'"`
	Features       datatypes.JSONSlice[string] `json:"features" gorm:"type:jsonb;not null;default:'[]'"`
	Category       Category                    `json:"category" gorm:"type:text;not null;index"`
	GithubURL      *string                     `json:"githubUrl" gorm:"column:github_url;type:text"`
	LiveURL        *string                     `json:"liveUrl" gorm:"column:live_url;type:text"`
	VideoURL       *string                     `json:"videoUrl" gorm:"column:video_url;type:text"`
	Images         datatypes.JSONSlice[string] `json:"images" gorm:"type:jsonb;not null;default:'[]'"`
	IsFeatured     bool                        `json:"isFeatured" gorm:"not null;default:false;index"`
	Order          int                         `json:"order" gorm:"column:sort_order;not null;default:0"`
	CreatedAt      time.Time                   `json:"createdAt" gorm:"not null"`
	UpdatedAt      time.Time                   `json:"updatedAt" gorm:"not null"`

	// Filled only by reads that select the counters (see database.ProjectRepo).
	ViewCount int64         `json:"-" gorm:"->;-:migration"`
	LeadCount int64         `json:"-" gorm:"->;-:migration"`
	Count     *ProjectCount `json:"_count,omitempty" gorm:"-"`
}

// ProjectCount mirrors the engagement counters shown next to a project.
type ProjectCount struct {
	Analytics int64 `json:"analytics"`
	Leads     int64 `json:"leads"`
}

func (p *Project) AfterFind(tx *gorm.DB) error {
	p.Count = &ProjectCount{Analytics: p.ViewCount, Leads: p.LeadCount}
	return nil
}
