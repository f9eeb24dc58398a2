package repo

import (
	"context"

	"gorm.io/gorm"

	"gp-immo/internal/domain"
)

type PropertyRepo struct{ db *gorm.DB }

func NewPropertyRepo(db *gorm.DB) *PropertyRepo { return &PropertyRepo{db: db} }

// 可编辑列；owner_id 不在其中，创建后不可变
var propertyEditable = []string{
	"title", "property_type", "listing_status", "furnished", "price", "address", "description", "updated_at",
}

func (r *PropertyRepo) Create(ctx context.Context, p *domain.Property) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PropertyRepo) FindByID(ctx context.Context, id string) (*domain.Property, error) {
	var p domain.Property
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return notFoundAsNil(&p, err)
}

func (r *PropertyRepo) FindOwned(ctx context.Context, id, ownerID string) (*domain.Property, error) {
	var p domain.Property
	err := r.db.WithContext(ctx).First(&p, "id = ? AND owner_id = ?", id, ownerID).Error
	return notFoundAsNil(&p, err)
}

func (r *PropertyRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Property, error) {
	var out []domain.Property
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at desc").Find(&out).Error
	return out, err
}

func (r *PropertyRepo) ListAssignedTo(ctx context.Context, providerID string, activeOnly bool) ([]domain.Property, error) {
	q := r.db.WithContext(ctx).Model(&domain.Property{}).
		Select("properties.*").
		Joins("JOIN assignments ON assignments.property_id = properties.id").
		Where("assignments.provider_id = ?", providerID)
	if activeOnly {
		q = q.Where("assignments.active = ?", true)
	}
	var out []domain.Property
	err := q.Order("properties.title").Find(&out).Error
	return out, err
}

func (r *PropertyRepo) Update(ctx context.Context, p *domain.Property) error {
	res := r.db.WithContext(ctx).Model(&domain.Property{}).
		Where("id = ? AND owner_id = ?", p.ID, p.OwnerID).
		Select(propertyEditable).
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PropertyRepo) DeleteCascade(ctx context.Context, id string) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Media{}).Where("property_id = ?", id).Pluck("path", &paths).Error; err != nil {
			return err
		}
		contracts := tx.Model(&domain.Contract{}).Select("id").Where("property_id = ?", id)
		if err := tx.Where("contract_id IN (?) OR property_id = ?", contracts, id).Delete(&domain.Payment{}).Error; err != nil {
			return err
		}
		// 先删子表，再删房源
		for _, m := range []any{&domain.InterventionReport{}, &domain.Contract{}, &domain.Assignment{}, &domain.Media{}} {
			if err := tx.Where("property_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&domain.Property{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
