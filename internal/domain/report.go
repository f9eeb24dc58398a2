package domain

import (
	"context"
	"time"
)

type InterventionReport struct {
	ID             string    `gorm:"primaryKey;size:32" json:"id"`
	PropertyID     string    `gorm:"size:32;not null;index" json:"propertyId"`
	Property       *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	ProviderID     string    `gorm:"size:32;not null;index" json:"providerId"`
	Summary        string    `gorm:"type:text;not null" json:"summary"`
	AttachmentPath string    `gorm:"size:512" json:"attachmentPath,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (InterventionReport) TableName() string { return "intervention_reports" }

type ReportRepository interface {
	Create(ctx context.Context, r *InterventionReport) error
	ListByProvider(ctx context.Context, providerID string, limit int) ([]InterventionReport, error)
}
