// Package specialization 提供 prestataire 专业目录。
package specialization

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"gp-immo/internal/core/cache"
	"gp-immo/internal/domain"
)

const cacheKey = "gp-immo:specializations"

const (
	PlaceholderChoose = "Choisir une spécialisation"
	PlaceholderEmpty  = "Aucune spécialisation enregistrée"
)

// Choices 下拉框数据：为空时占位文案换成 PlaceholderEmpty
type Choices struct {
	Placeholder string                  `json:"placeholder"`
	Items       []domain.Specialization `json:"items"`
}

type Service struct {
	repo domain.SpecializationRepository
	list *cache.Typed[[]domain.Specialization]
	log  *zap.Logger
}

// NewService c 为 nil 时不缓存
func NewService(repo domain.SpecializationRepository, c *cache.Cache, ttl time.Duration, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{
		repo: repo,
		list: cache.NewTyped[[]domain.Specialization](c, cacheKey, ttl),
		log:  l,
	}
}

// Available 按名称排序的全部专业
func (s *Service) Available(ctx context.Context) ([]domain.Specialization, error) {
	items, err := s.list.Get(ctx, s.repo.List)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Specialization{}
	}
	return items, nil
}

func (s *Service) Choices(ctx context.Context) (Choices, error) {
	items, err := s.Available(ctx)
	if err != nil {
		return Choices{}, err
	}
	c := Choices{Placeholder: PlaceholderChoose, Items: items}
	if len(items) == 0 {
		c.Placeholder = PlaceholderEmpty
	}
	return c, nil
}

// Resolve 把用户提交的名称映射到目录里的规范条目
func (s *Service) Resolve(ctx context.Context, name string) (*domain.Specialization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Required("specialization")
	}
	sp, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find specialization: %w", err)
	}
	if sp == nil {
		return nil, domain.Invalid(domain.ReasonInvalidChoice)
	}
	return sp, nil
}

// Ensure 创建（已存在则忽略）并清缓存
func (s *Service) Ensure(ctx context.Context, name string) (*domain.Specialization, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, domain.Required("name")
	}
	sp, created, err := s.repo.Ensure(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("ensure specialization: %w", err)
	}
	if created {
		s.log.Info("specialization created", zap.String("name", name))
		if err := s.list.Invalidate(ctx); err != nil {
			s.log.Warn("specialization cache invalidate failed", zap.Error(err))
		}
	}
	return sp, created, nil
}
