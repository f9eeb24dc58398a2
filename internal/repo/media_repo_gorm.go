package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gp-immo/internal/domain"
)

type MediaRepo struct{ db *gorm.DB }

func NewMediaRepo(db *gorm.DB) *MediaRepo { return &MediaRepo{db: db} }

func (r *MediaRepo) CountByProperty(ctx context.Context, propertyID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Media{}).Where("property_id = ?", propertyID).Count(&n).Error
	return n, err
}

func (r *MediaRepo) CreateWithinQuota(ctx context.Context, propertyID string, items []domain.Media, max int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 锁住房源行，同一房源的并发上传在这里串行；sqlite 本身写串行，不支持 FOR UPDATE
		lock := tx
		if tx.Dialector.Name() != "sqlite" {
			lock = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var p domain.Property
		if err := lock.Select("id").First(&p, "id = ?", propertyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		var n int64
		if err := tx.Model(&domain.Media{}).Where("property_id = ?", propertyID).Count(&n).Error; err != nil {
			return err
		}
		if int(n)+len(items) > max {
			return domain.Invalid(domain.ReasonQuotaExceeded)
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

func (r *MediaRepo) ListByProperty(ctx context.Context, propertyID string) ([]domain.Media, error) {
	var out []domain.Media
	err := r.db.WithContext(ctx).Where("property_id = ?", propertyID).Order("uploaded_at desc").Find(&out).Error
	return out, err
}
