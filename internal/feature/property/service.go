// Package property 房源（bien）的归属范围：只有 owner 能看到和修改自己的房源。
package property

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"gp-immo/internal/core/storage"
	"gp-immo/internal/domain"
	"gp-immo/pkg/utils"
)

type Input struct {
	Title         string
	PropertyType  domain.PropertyType
	ListingStatus domain.ListingStatus
	Furnished     bool
	Price         *float64
	Address       string
	Description   string
}

func (in *Input) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return domain.Required("title")
	}
	if len(in.Title) > 120 {
		return domain.Invalid("title too long")
	}
	if !in.PropertyType.Valid() {
		return domain.Invalid("invalid property type")
	}
	if in.ListingStatus == "" {
		in.ListingStatus = domain.ListingForRent
	}
	if !in.ListingStatus.Valid() {
		return domain.Invalid("invalid listing status")
	}
	if in.Price != nil && *in.Price < 0 {
		return domain.Invalid("price must be positive")
	}
	return nil
}

func (in Input) apply(p *domain.Property) {
	p.Title = in.Title
	p.PropertyType = in.PropertyType
	p.ListingStatus = in.ListingStatus
	p.Furnished = in.Furnished
	p.Price = in.Price
	p.Address = strings.TrimSpace(in.Address)
	p.Description = in.Description
}

type Service struct {
	props domain.PropertyRepository
	store storage.ObjectStore // 可为 nil
	log   *zap.Logger
}

func NewService(props domain.PropertyRepository, store storage.ObjectStore, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{props: props, store: store, log: l}
}

// Create 只有 owner 能建房源
func (s *Service) Create(ctx context.Context, actor *domain.User, in Input) (*domain.Property, error) {
	switch actor.Role {
	case domain.RoleOwner:
	case domain.RoleProvider, domain.RoleStaff:
		return nil, domain.ErrForbidden
	default:
		return nil, domain.UnknownRole(actor.Role)
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	p := &domain.Property{ID: utils.NewID(), OwnerID: actor.ID}
	in.apply(p)
	if err := s.props.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}
	s.log.Info("property created", zap.String("pid", p.ID), zap.String("owner", actor.ID))
	return p, nil
}

// Scoped scopedProperties：owner == actor
func (s *Service) Scoped(ctx context.Context, actor *domain.User) ([]domain.Property, error) {
	out, err := s.props.ListByOwner(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return out, nil
}

// Authorize 归属校验与存在校验合并：别人的房源和不存在的房源一样返回 ErrNotFound
func (s *Service) Authorize(ctx context.Context, actor *domain.User, id string) (*domain.Property, error) {
	if actor == nil || strings.TrimSpace(id) == "" {
		return nil, domain.ErrNotFound
	}
	p, err := s.props.FindOwned(ctx, id, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("find property: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, actor *domain.User, id string) (*domain.Property, error) {
	return s.Authorize(ctx, actor, id)
}

// Update 每次都重新校验归属，而不是信任之前的可见性
func (s *Service) Update(ctx context.Context, actor *domain.User, id string, in Input) (*domain.Property, error) {
	p, err := s.Authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	in.apply(p)
	if err := s.props.Update(ctx, p); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update property: %w", err)
	}
	return p, nil
}

// Delete 级联删除；存储里的媒体文件尽力删除，失败只记日志
func (s *Service) Delete(ctx context.Context, actor *domain.User, id string) error {
	p, err := s.Authorize(ctx, actor, id)
	if err != nil {
		return err
	}
	paths, err := s.props.DeleteCascade(ctx, p.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete property: %w", err)
	}
	if s.store != nil {
		for _, key := range paths {
			if e := s.store.Delete(ctx, key); e != nil {
				s.log.Warn("media object delete failed", zap.String("key", key), zap.Error(e))
			}
		}
	}
	s.log.Info("property deleted", zap.String("pid", p.ID), zap.Int("media", len(paths)))
	return nil
}
