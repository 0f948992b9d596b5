package models

import (
	"time"

	"github.com/google/uuid"
)

// Analytics is one engagement event. Rows are append-only and only read in
// aggregate. VisitorIP is already anonymized when stored.
type Analytics struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID uuid.UUID `json:"projectId" gorm:"type:uuid;not null;index:idx_analytics_project_event"`
	EventType EventType `json:"eventType" gorm:"type:text;not null;index:idx_analytics_project_event;index"`
	VisitorIP string    `json:"visitorIp" gorm:"column:visitor_ip;type:varchar(64)"`
	UserAgent string    `json:"userAgent" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
}

func (Analytics) TableName() string {
	return "analytics"
}
