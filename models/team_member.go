package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TeamMember is a staff profile on the public roster.
type TeamMember struct {
	ID          uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name        string                      `json:"name" gorm:"type:text;not null"`
	Role        string                      `json:"role" gorm:"type:text;not null"`
	Bio         *string                     `json:"bio" gorm:"type:text"`
	Education   *string                     `json:"education" gorm:"type:text"`
	Experience  *string                     `json:"experience" gorm:"type:text"`
	Skills      datatypes.JSONSlice[string] `json:"skills" gorm:"type:jsonb;not null;default:'[]'"`
	PhotoURL    *string                     `json:"photoUrl" gorm:"column:photo_url;type:text"`
	GithubURL   *string                     `json:"githubUrl" gorm:"column:github_url;type:text"`
	LinkedinURL *string                     `json:"linkedinUrl" gorm:"column:linkedin_url;type:text"`
	TwitterURL  *string                     `json:"twitterUrl" gorm:"column:twitter_url;type:text"`
	Order       int                         `json:"order" gorm:"column:sort_order;not null;default:0"`
	IsActive    bool                        `json:"isActive" gorm:"not null;index"`
	CreatedAt   time.Time                   `json:"createdAt" gorm:"not null"`
	UpdatedAt   time.Time                   `json:"updatedAt" gorm:"not null"`
}
