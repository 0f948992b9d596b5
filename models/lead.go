package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lead is a contact-form submission. ProjectID is a weak reference: the
// project may be deleted while the lead stays.
type Lead struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID *uuid.UUID `json:"projectId" gorm:"type:uuid;index"`
	Name      string     `json:"name" gorm:"type:text;not null"`
	Email     string     `json:"email" gorm:"type:text;not null"`
	Message   string     `json:"message" gorm:"type:text;not null"`
	Status    LeadStatus `json:"status" gorm:"type:text;not null;default:'NEW';index"`
	CreatedAt time.Time  `json:"createdAt" gorm:"not null;index"`
	UpdatedAt time.Time  `json:"updatedAt" gorm:"not null"`

	ProjectName *string      `json:"-" gorm:"->;-:migration"`
	Project     *LeadProject `json:"project" gorm:"-"`
}

// LeadProject is the slice of the referenced project shown with a lead.
type LeadProject struct {
	Name string `json:"name"`
}

func (l *Lead) AfterFind(tx *gorm.DB) error {
	if l.ProjectName != nil {
		l.Project = &LeadProject{Name: *l.ProjectName}
	}
	return nil
}
