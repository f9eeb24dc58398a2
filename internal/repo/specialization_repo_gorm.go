package repo

import (
	"context"

	"gorm.io/gorm"

	"gp-immo/internal/domain"
)

type SpecializationRepo struct{ db *gorm.DB }

func NewSpecializationRepo(db *gorm.DB) *SpecializationRepo { return &SpecializationRepo{db: db} }

func (r *SpecializationRepo) List(ctx context.Context) ([]domain.Specialization, error) {
	var out []domain.Specialization
	err := r.db.WithContext(ctx).Order("name").Find(&out).Error
	return out, err
}

func (r *SpecializationRepo) FindByName(ctx context.Context, name string) (*domain.Specialization, error) {
	var s domain.Specialization
	err := r.db.WithContext(ctx).First(&s, "name = ?", name).Error
	return notFoundAsNil(&s, err)
}

func (r *SpecializationRepo) Ensure(ctx context.Context, name string) (*domain.Specialization, bool, error) {
	if s, err := r.FindByName(ctx, name); err != nil || s != nil {
		return s, false, err
	}
	s := &domain.Specialization{Name: name}
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		// 并发兜底：唯一冲突 → 再查一次
		if isDupKey(err) {
			found, e := r.FindByName(ctx, name)
			return found, false, e
		}
		return nil, false, err
	}
	return s, true, nil
}
