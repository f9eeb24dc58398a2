package repo

import (
	"context"

	"gorm.io/gorm"

	"gp-immo/internal/domain"
)

type AssignmentRepo struct{ db *gorm.DB }

func NewAssignmentRepo(db *gorm.DB) *AssignmentRepo { return &AssignmentRepo{db: db} }

func (r *AssignmentRepo) FindByID(ctx context.Context, id string) (*domain.Assignment, error) {
	var a domain.Assignment
	err := r.db.WithContext(ctx).Preload("Property").First(&a, "id = ?", id).Error
	return notFoundAsNil(&a, err)
}

func (r *AssignmentRepo) FindPair(ctx context.Context, propertyID, providerID string) (*domain.Assignment, error) {
	var a domain.Assignment
	err := r.db.WithContext(ctx).First(&a, "property_id = ? AND provider_id = ?", propertyID, providerID).Error
	return notFoundAsNil(&a, err)
}

func (r *AssignmentRepo) Create(ctx context.Context, a *domain.Assignment) error {
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *AssignmentRepo) SetActive(ctx context.Context, id string, active bool) error {
	res := r.db.WithContext(ctx).Model(&domain.Assignment{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AssignmentRepo) ExistsActive(ctx context.Context, propertyID, providerID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Assignment{}).
		Where("property_id = ? AND provider_id = ? AND active = ?", propertyID, providerID, true).
		Count(&n).Error
	return n > 0, err
}

func (r *AssignmentRepo) ListActiveByProvider(ctx context.Context, providerID string) ([]domain.Assignment, error) {
	var out []domain.Assignment
	err := r.db.WithContext(ctx).Preload("Property").
		Where("provider_id = ? AND active = ?", providerID, true).
		Order("created_at desc").Find(&out).Error
	return out, err
}

func (r *AssignmentRepo) ListByProvider(ctx context.Context, providerID string) ([]domain.Assignment, error) {
	var out []domain.Assignment
	err := r.db.WithContext(ctx).Preload("Property").Preload("Property.Owner").
		Where("provider_id = ?", providerID).
		Order("created_at desc").Find(&out).Error
	return out, err
}

func (r *AssignmentRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Assignment, error) {
	owned := r.db.Model(&domain.Property{}).Select("id").Where("owner_id = ?", ownerID)
	var out []domain.Assignment
	err := r.db.WithContext(ctx).Preload("Property").Preload("Provider").
		Where("property_id IN (?)", owned).
		Order("created_at desc").Find(&out).Error
	return out, err
}
