package repo

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"gp-immo/internal/domain"
)

type PaymentRepo struct{ db *gorm.DB }

func NewPaymentRepo(db *gorm.DB) *PaymentRepo { return &PaymentRepo{db: db} }

func (r *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// ListForOwner 一条 SQL：两个子查询用 OR 合并，每条付款最多出现一次
func (r *PaymentRepo) ListForOwner(ctx context.Context, ownerID string, limit int) ([]domain.Payment, error) {
	contracts := r.db.Model(&domain.Contract{}).Select("id").Where("owner_id = ?", ownerID)
	properties := r.db.Model(&domain.Property{}).Select("id").Where("owner_id = ?", ownerID)
	q := r.db.WithContext(ctx).
		Where("contract_id IN (?) OR property_id IN (?)", contracts, properties).
		Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []domain.Payment
	err := q.Find(&out).Error
	return out, err
}

func (r *PaymentRepo) ListForProvider(ctx context.Context, providerID string, limit int) ([]domain.Payment, error) {
	q := r.db.WithContext(ctx).Where("provider_id = ?", providerID).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []domain.Payment
	err := q.Find(&out).Error
	return out, err
}

func (r *PaymentRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("status = ? AND due_date < ?", domain.PaymentPending, datatypes.Date(asOf)).
		Update("status", domain.PaymentLate)
	return res.RowsAffected, res.Error
}
