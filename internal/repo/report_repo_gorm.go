package repo

import (
	"context"

	"gorm.io/gorm"

	"gp-immo/internal/domain"
)

type ReportRepo struct{ db *gorm.DB }

func NewReportRepo(db *gorm.DB) *ReportRepo { return &ReportRepo{db: db} }

func (r *ReportRepo) Create(ctx context.Context, rep *domain.InterventionReport) error {
	return r.db.WithContext(ctx).Create(rep).Error
}

func (r *ReportRepo) ListByProvider(ctx context.Context, providerID string, limit int) ([]domain.InterventionReport, error) {
	q := r.db.WithContext(ctx).Preload("Property").Where("provider_id = ?", providerID).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []domain.InterventionReport
	err := q.Find(&out).Error
	return out, err
}
