package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultCompanyEmail = "hello@studio.com"
	DefaultCompanyName  = "Studio"
)

// CompanySettings is the single site-configuration row. Singleton is always
// true and uniquely indexed, so a second row cannot be inserted.
type CompanySettings struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	CompanyEmail string    `json:"companyEmail" gorm:"type:text;not null"`
	CompanyName  *string   `json:"companyName" gorm:"type:text"`
	Singleton    bool      `json:"-" gorm:"not null;default:true;uniqueIndex"`
	CreatedAt    time.Time `json:"createdAt" gorm:"not null"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"not null"`
}

func (CompanySettings) TableName() string {
	return "company_settings"
}

// DefaultCompanySettings is what a first read creates.
func DefaultCompanySettings() CompanySettings {
	name := DefaultCompanyName
	return CompanySettings{
		CompanyEmail: DefaultCompanyEmail,
		CompanyName:  &name,
		Singleton:    true,
	}
}
