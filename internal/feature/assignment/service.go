// Package assignment 管理 prestataire 与房源的关联，并以此作为提交干预报告的授权依据。
package assignment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"gp-immo/internal/core/storage"
	"gp-immo/internal/domain"
	"gp-immo/pkg/utils"
)

type ReportInput struct {
	PropertyID string
	Summary    string
	Attachment *storage.File
}

type Service struct {
	props       domain.PropertyRepository
	assignments domain.AssignmentRepository
	users       domain.UserRepository
	reports     domain.ReportRepository
	store       storage.ObjectStore
	now         func() time.Time
	log         *zap.Logger
}

func NewService(props domain.PropertyRepository, assignments domain.AssignmentRepository, users domain.UserRepository,
	reports domain.ReportRepository, store storage.ObjectStore, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{
		props: props, assignments: assignments, users: users, reports: reports,
		store: store, now: time.Now, log: l,
	}
}

// ProviderOptions 可被指派的 prestataire：marketplace 可见的
func (s *Service) ProviderOptions(ctx context.Context) ([]domain.User, error) {
	return s.users.ListProviders(ctx, domain.ProviderFilter{VisibleOnly: true})
}

// Assign assignProvider：已有则重新激活，没有则新建；(property, provider) 永远只有一行
func (s *Service) Assign(ctx context.Context, actor *domain.User, propertyID, providerID string) (*domain.Assignment, error) {
	switch actor.Role {
	case domain.RoleOwner:
	case domain.RoleProvider, domain.RoleStaff:
		return nil, domain.ErrForbidden
	default:
		return nil, domain.UnknownRole(actor.Role)
	}
	p, err := s.props.FindOwned(ctx, propertyID, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("find property: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	provider, err := s.users.FindByID(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("find provider: %w", err)
	}
	if provider == nil || !provider.ListedInMarketplace() {
		return nil, domain.Invalid(domain.ReasonInvalidChoice)
	}
	a, err := s.activate(ctx, p.ID, provider.ID)
	if err != nil {
		return nil, err
	}
	s.log.Info("provider assigned",
		zap.String("pid", p.ID), zap.String("provider", provider.ID), zap.String("aid", a.ID))
	return a, nil
}

func (s *Service) activate(ctx context.Context, propertyID, providerID string) (*domain.Assignment, error) {
	existing, err := s.assignments.FindPair(ctx, propertyID, providerID)
	if err != nil {
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	if existing == nil {
		a := &domain.Assignment{ID: utils.NewID(), PropertyID: propertyID, ProviderID: providerID, Active: true}
		err := s.assignments.Create(ctx, a)
		if err == nil {
			return a, nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("create assignment: %w", err)
		}
		// 并发兜底：唯一冲突说明别的请求刚插入，转为更新
		if existing, err = s.assignments.FindPair(ctx, propertyID, providerID); err != nil {
			return nil, fmt.Errorf("find assignment: %w", err)
		}
		if existing == nil {
			return nil, fmt.Errorf("assignment %s/%s vanished after conflict", propertyID, providerID)
		}
	}
	if !existing.Active {
		if err := s.assignments.SetActive(ctx, existing.ID, true); err != nil {
			return nil, fmt.Errorf("reactivate assignment: %w", err)
		}
		existing.Active = true
	}
	return existing, nil
}

// Deactivate owner 只能停用自己房源上的关联；staff 可以停用任意关联
func (s *Service) Deactivate(ctx context.Context, actor *domain.User, assignmentID string) (*domain.Assignment, error) {
	a, err := s.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	switch actor.Role {
	case domain.RoleOwner:
		if a == nil || a.Property == nil || a.Property.OwnerID != actor.ID {
			return nil, domain.ErrNotFound
		}
	case domain.RoleStaff:
		if a == nil {
			return nil, domain.ErrNotFound
		}
	case domain.RoleProvider:
		return nil, domain.ErrForbidden
	default:
		return nil, domain.UnknownRole(actor.Role)
	}
	if a.Active {
		if err := s.assignments.SetActive(ctx, a.ID, false); err != nil {
			return nil, fmt.Errorf("deactivate assignment: %w", err)
		}
		a.Active = false
	}
	s.log.Info("assignment deactivated", zap.String("aid", a.ID), zap.String("by", actor.ID))
	return a, nil
}

// ActiveMissions activeMissionsFor(provider)
func (s *Service) ActiveMissions(ctx context.Context, providerID string) ([]domain.Assignment, error) {
	return s.assignments.ListActiveByProvider(ctx, providerID)
}

// OwnerAssignments owner 所有房源上的关联（含已停用）
func (s *Service) OwnerAssignments(ctx context.Context, actor *domain.User) ([]domain.Assignment, error) {
	return s.assignments.ListByOwner(ctx, actor.ID)
}

// AssignableProperties 与 provider 存在激活关联的房源，即报告提交的授权集合
func (s *Service) AssignableProperties(ctx context.Context, providerID string) ([]domain.Property, error) {
	return s.props.ListAssignedTo(ctx, providerID, true)
}

// Authorized AssignableProperties 的单点判断
func (s *Service) Authorized(ctx context.Context, providerID, propertyID string) (bool, error) {
	return s.assignments.ExistsActive(ctx, propertyID, providerID)
}

// SubmitReport 只有 prestataire，且必须对该房源有激活关联
func (s *Service) SubmitReport(ctx context.Context, actor *domain.User, in ReportInput) (*domain.InterventionReport, error) {
	switch actor.Role {
	case domain.RoleProvider:
	case domain.RoleOwner, domain.RoleStaff:
		return nil, domain.ErrForbidden
	default:
		return nil, domain.UnknownRole(actor.Role)
	}
	summary := strings.TrimSpace(in.Summary)
	if summary == "" {
		return nil, domain.Required("summary")
	}
	ok, err := s.Authorized(ctx, actor.ID, in.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("check assignment: %w", err)
	}
	if !ok {
		return nil, domain.ErrForbidden
	}
	r := &domain.InterventionReport{
		ID:         utils.NewID(),
		PropertyID: in.PropertyID,
		ProviderID: actor.ID,
		Summary:    summary,
	}
	if in.Attachment != nil {
		if s.store == nil {
			return nil, errors.New("attachment storage not configured")
		}
		key := storage.Key(storage.CategoryReport, actor.ID, in.Attachment.Filename, s.now())
		if err := storage.Save(ctx, s.store, key, *in.Attachment); err != nil {
			return nil, fmt.Errorf("store report attachment: %w", err)
		}
		r.AttachmentPath = key
	}
	if err := s.reports.Create(ctx, r); err != nil {
		if r.AttachmentPath != "" {
			_ = s.store.Delete(ctx, r.AttachmentPath)
		}
		return nil, fmt.Errorf("create report: %w", err)
	}
	s.log.Info("report submitted", zap.String("rid", r.ID), zap.String("pid", r.PropertyID))
	return r, nil
}

func (s *Service) Reports(ctx context.Context, actor *domain.User, limit int) ([]domain.InterventionReport, error) {
	return s.reports.ListByProvider(ctx, actor.ID, limit)
}
