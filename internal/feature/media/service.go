// Package media 房源图片/视频上传。
package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gp-immo/internal/core/storage"
	"gp-immo/internal/domain"
	"gp-immo/pkg/utils"
)

// Item 带访问地址的媒体
type Item struct {
	domain.Media
	URL string `json:"url"`
}

type Gallery struct {
	Items         []Item `json:"items"`
	ExistingCount int    `json:"existingCount"`
	Max           int    `json:"max"`
}

type Service struct {
	props     domain.PropertyRepository
	media     domain.MediaRepository
	store     storage.ObjectStore
	validator Validator
	now       func() time.Time
	log       *zap.Logger
}

func NewService(props domain.PropertyRepository, media domain.MediaRepository, store storage.ObjectStore, limits Validator, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{props: props, media: media, store: store, validator: limits, now: time.Now, log: l}
}

func (s *Service) owned(ctx context.Context, actor *domain.User, propertyID string) (*domain.Property, error) {
	p, err := s.props.FindOwned(ctx, propertyID, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("find property: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// Upload 先校验批次与配额，写存储，再在事务里复核配额后落库
func (s *Service) Upload(ctx context.Context, actor *domain.User, propertyID string, files []storage.File) ([]domain.Media, error) {
	p, err := s.owned(ctx, actor, propertyID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateBatch(files); err != nil {
		return nil, err
	}
	existing, err := s.media.CountByProperty(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("count media: %w", err)
	}
	if err := s.validator.CheckQuota(int(existing), len(files)); err != nil {
		return nil, err
	}

	now := s.now()
	items := make([]domain.Media, 0, len(files))
	for _, f := range files {
		key := storage.Key(storage.CategoryProperty, p.ID, f.Filename, now)
		if err := storage.Save(ctx, s.store, key, f); err != nil {
			s.discard(ctx, items)
			return nil, fmt.Errorf("store media: %w", err)
		}
		items = append(items, domain.Media{
			ID:           utils.NewID(),
			PropertyID:   p.ID,
			Path:         key,
			OriginalName: f.Filename,
			ContentType:  f.ContentType,
			Kind:         domain.KindOf(f.ContentType),
			Size:         f.Size,
		})
	}
	if err := s.media.CreateWithinQuota(ctx, p.ID, items, s.validator.perProperty()); err != nil {
		s.discard(ctx, items)
		if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("save media: %w", err)
	}
	s.log.Info("media committed", zap.String("pid", p.ID), zap.Int("count", len(items)))
	return items, nil
}

func (s *Service) discard(ctx context.Context, items []domain.Media) {
	for _, m := range items {
		if err := s.store.Delete(ctx, m.Path); err != nil {
			s.log.Warn("media object cleanup failed", zap.String("key", m.Path), zap.Error(err))
		}
	}
}

func (s *Service) Gallery(ctx context.Context, actor *domain.User, propertyID string) (Gallery, error) {
	p, err := s.owned(ctx, actor, propertyID)
	if err != nil {
		return Gallery{}, err
	}
	ms, err := s.media.ListByProperty(ctx, p.ID)
	if err != nil {
		return Gallery{}, fmt.Errorf("list media: %w", err)
	}
	g := Gallery{Items: make([]Item, 0, len(ms)), ExistingCount: len(ms), Max: s.validator.perProperty()}
	for _, m := range ms {
		u, err := s.store.URL(ctx, m.Path)
		if err != nil {
			return Gallery{}, fmt.Errorf("media url: %w", err)
		}
		g.Items = append(g.Items, Item{Media: m, URL: u})
	}
	return g, nil
}
