// Package account 注册、登录、个人资料与 marketplace 目录。
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"gp-immo/internal/domain"
	"gp-immo/internal/feature/specialization"
	"gp-immo/pkg/utils"
)

// ErrInvalidCredentials 登录失败（不区分账号不存在与密码错误）
var ErrInvalidCredentials = errors.New("invalid credentials")

const (
	minPasswordLen = 8
	featuredLimit  = 4
)

type SignupInput struct {
	Username string
	Email    string
	Phone    string
	Password string
}

type ProviderSignupInput struct {
	SignupInput
	Specialization     string
	MarketplaceVisible *bool
}

// ProfileInput nil 表示不修改
type ProfileInput struct {
	Email              *string
	Phone              *string
	Specialization     *string
	MarketplaceVisible *bool
}

type Service struct {
	users domain.UserRepository
	specs *specialization.Service
	log   *zap.Logger
}

func NewService(users domain.UserRepository, specs *specialization.Service, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{users: users, specs: specs, log: l}
}

func (s *Service) SignupOwner(ctx context.Context, in SignupInput) (*domain.User, error) {
	u, err := s.newUser(ctx, in, domain.RoleOwner)
	if err != nil {
		return nil, err
	}
	return u, s.create(ctx, u)
}

func (s *Service) SignupProvider(ctx context.Context, in ProviderSignupInput) (*domain.User, error) {
	u, err := s.newUser(ctx, in.SignupInput, domain.RoleProvider)
	if err != nil {
		return nil, err
	}
	sp, err := s.specs.Resolve(ctx, in.Specialization)
	if err != nil {
		return nil, err
	}
	u.Specialization = sp.Name
	u.MarketplaceVisible = true
	if in.MarketplaceVisible != nil {
		u.MarketplaceVisible = *in.MarketplaceVisible
	}
	return u, s.create(ctx, u)
}

func (s *Service) newUser(ctx context.Context, in SignupInput, role domain.Role) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	switch {
	case username == "":
		return nil, domain.Required("username")
	case len(username) > 150:
		return nil, domain.Invalid("username too long")
	case len(in.Password) < minPasswordLen:
		return nil, domain.Invalid("password too short")
	}
	taken, err := s.users.ExistsUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, domain.Invalid("username already taken")
	}
	hash, err := utils.HashPassword(in.Password)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return nil, domain.Invalid("password too long")
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &domain.User{
		ID:                 utils.NewID(),
		Username:           username,
		Email:              strings.TrimSpace(in.Email),
		Phone:              strings.TrimSpace(in.Phone),
		PasswordHash:       hash,
		Role:               role,
		MarketplaceVisible: role == domain.RoleProvider,
	}, nil
}

func (s *Service) create(ctx context.Context, u *domain.User) error {
	if err := s.users.Create(ctx, u); err != nil {
		// 并发注册同名
		if errors.Is(err, domain.ErrDuplicate) {
			return domain.Invalid("username already taken")
		}
		return fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user signed up", zap.String("uid", u.ID), zap.String("role", string(u.Role)))
	return nil
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Get 会话层按 id 取当前用户；不存在返回 ErrNotFound
func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, actor *domain.User, in ProfileInput) (*domain.User, error) {
	if in.Email != nil {
		actor.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		actor.Phone = strings.TrimSpace(*in.Phone)
	}
	switch actor.Role {
	case domain.RoleProvider:
		if in.Specialization != nil {
			name, err := s.profileSpecialization(ctx, *in.Specialization)
			if err != nil {
				return nil, err
			}
			actor.Specialization = name
		}
		if in.MarketplaceVisible != nil {
			actor.MarketplaceVisible = *in.MarketplaceVisible
		}
	case domain.RoleOwner, domain.RoleStaff:
		// 专业与 marketplace 可见性只对 prestataire 有意义
	default:
		return nil, domain.UnknownRole(actor.Role)
	}
	if err := s.users.Update(ctx, actor); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return actor, nil
}

// profileSpecialization 目录非空时必须选目录里的值；目录为空时保留自由文本
func (s *Service) profileSpecialization(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil
	}
	items, err := s.specs.Available(ctx)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return name, nil
	}
	sp, err := s.specs.Resolve(ctx, name)
	if err != nil {
		return "", err
	}
	return sp.Name, nil
}

// Marketplace 可见 prestataire，按账号或专业模糊搜索
func (s *Service) Marketplace(ctx context.Context, search string) ([]domain.User, error) {
	return s.users.ListProviders(ctx, domain.ProviderFilter{VisibleOnly: true, Search: search})
}

// Featured 首页展示
func (s *Service) Featured(ctx context.Context) ([]domain.User, error) {
	return s.users.ListProviders(ctx, domain.ProviderFilter{VisibleOnly: true, Limit: featuredLimit})
}

// SetMarketplaceVisibility 后台操作；只允许 prestataire
func (s *Service) SetMarketplaceVisibility(ctx context.Context, userID string, visible bool) (*domain.User, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsProvider() {
		return nil, domain.Invalid("not a provider")
	}
	u.MarketplaceVisible = visible
	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update visibility: %w", err)
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, f domain.UserListFilter) ([]domain.User, int64, error) {
	return s.users.List(ctx, f)
}

// Ban 软删
func (s *Service) Ban(ctx context.Context, id string) error {
	ok, err := s.users.SoftDelete(ctx, id)
	if err != nil {
		return fmt.Errorf("ban user: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}
