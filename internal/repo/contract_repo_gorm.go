package repo

import (
	"context"

	"gorm.io/gorm"

	"gp-immo/internal/domain"
)

type ContractRepo struct{ db *gorm.DB }

func NewContractRepo(db *gorm.DB) *ContractRepo { return &ContractRepo{db: db} }

func (r *ContractRepo) Create(ctx context.Context, c *domain.Contract) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ContractRepo) FindOwned(ctx context.Context, id, ownerID string) (*domain.Contract, error) {
	var c domain.Contract
	err := r.db.WithContext(ctx).First(&c, "id = ? AND owner_id = ?", id, ownerID).Error
	return notFoundAsNil(&c, err)
}

func (r *ContractRepo) ListByOwner(ctx context.Context, ownerID string, limit int) ([]domain.Contract, error) {
	q := r.db.WithContext(ctx).Preload("Property").Where("owner_id = ?", ownerID).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []domain.Contract
	err := q.Find(&out).Error
	return out, err
}
