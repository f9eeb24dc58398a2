// Package contract 租约与付款；可见范围由房源归属推导。
package contract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"gp-immo/internal/domain"
	"gp-immo/pkg/utils"
)

type ContractInput struct {
	PropertyID string
	TenantName string
	StartDate  time.Time
	EndDate    *time.Time
	Rent       float64
	Status     domain.ContractStatus
}

type PaymentInput struct {
	ContractID  *string
	PropertyID  *string
	ProviderID  *string
	Amount      float64
	DueDate     *time.Time
	Status      domain.PaymentStatus
	PaymentType domain.PaymentType
}

// PaymentOptions 付款表单里当前用户可选的关联对象
type PaymentOptions struct {
	Contracts  []domain.Contract `json:"contracts"`
	Properties []domain.Property `json:"properties"`
	Providers  []domain.User     `json:"providers"`
}

type Service struct {
	props     domain.PropertyRepository
	contracts domain.ContractRepository
	payments  domain.PaymentRepository
	users     domain.UserRepository
	now       func() time.Time
	log       *zap.Logger
}

func NewService(props domain.PropertyRepository, contracts domain.ContractRepository, payments domain.PaymentRepository,
	users domain.UserRepository, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{props: props, contracts: contracts, payments: payments, users: users, now: time.Now, log: l}
}

func requireOwner(actor *domain.User) error {
	switch actor.Role {
	case domain.RoleOwner:
		return nil
	case domain.RoleProvider, domain.RoleStaff:
		return domain.ErrForbidden
	default:
		return domain.UnknownRole(actor.Role)
	}
}

func dateOf(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, t.Location()))
}

// ContractOptions 可以挂合同的房源 = 自己的房源
func (s *Service) ContractOptions(ctx context.Context, actor *domain.User) ([]domain.Property, error) {
	switch actor.Role {
	case domain.RoleOwner:
		return s.props.ListByOwner(ctx, actor.ID)
	case domain.RoleProvider, domain.RoleStaff:
		return []domain.Property{}, nil
	default:
		return nil, domain.UnknownRole(actor.Role)
	}
}

func (s *Service) CreateContract(ctx context.Context, actor *domain.User, in ContractInput) (*domain.Contract, error) {
	if err := requireOwner(actor); err != nil {
		return nil, err
	}
	tenant := strings.TrimSpace(in.TenantName)
	switch {
	case tenant == "":
		return nil, domain.Required("tenant name")
	case in.StartDate.IsZero():
		return nil, domain.Required("start date")
	case in.EndDate != nil && in.EndDate.Before(in.StartDate):
		return nil, domain.Invalid("end date before start date")
	case in.Rent <= 0:
		return nil, domain.Invalid("rent must be positive")
	}
	if in.Status == "" {
		in.Status = domain.ContractDraft
	}
	if !in.Status.Valid() {
		return nil, domain.Invalid("invalid contract status")
	}
	p, err := s.props.FindOwned(ctx, in.PropertyID, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("find property: %w", err)
	}
	if p == nil {
		return nil, domain.Invalid(domain.ReasonInvalidChoice)
	}
	c := &domain.Contract{
		ID:         utils.NewID(),
		PropertyID: p.ID,
		OwnerID:    actor.ID,
		TenantName: tenant,
		StartDate:  dateOf(in.StartDate),
		Rent:       in.Rent,
		Status:     in.Status,
	}
	if in.EndDate != nil {
		end := dateOf(*in.EndDate)
		c.EndDate = &end
	}
	if err := s.contracts.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create contract: %w", err)
	}
	s.log.Info("contract created", zap.String("cid", c.ID), zap.String("pid", p.ID))
	return c, nil
}

// Contracts scopedContracts：owner == actor，新的在前
func (s *Service) Contracts(ctx context.Context, actor *domain.User, limit int) ([]domain.Contract, error) {
	return s.contracts.ListByOwner(ctx, actor.ID, limit)
}

func (s *Service) PaymentOptions(ctx context.Context, actor *domain.User) (PaymentOptions, error) {
	out := PaymentOptions{Contracts: []domain.Contract{}, Properties: []domain.Property{}}
	providers, err := s.users.ListProviders(ctx, domain.ProviderFilter{})
	if err != nil {
		return out, fmt.Errorf("list providers: %w", err)
	}
	out.Providers = providers
	switch actor.Role {
	case domain.RoleOwner:
		if out.Contracts, err = s.contracts.ListByOwner(ctx, actor.ID, 0); err != nil {
			return out, fmt.Errorf("list contracts: %w", err)
		}
		if out.Properties, err = s.props.ListByOwner(ctx, actor.ID); err != nil {
			return out, fmt.Errorf("list properties: %w", err)
		}
	case domain.RoleProvider, domain.RoleStaff:
	default:
		return out, domain.UnknownRole(actor.Role)
	}
	return out, nil
}

func (s *Service) CreatePayment(ctx context.Context, actor *domain.User, in PaymentInput) (*domain.Payment, error) {
	if err := requireOwner(actor); err != nil {
		return nil, err
	}
	if in.Amount <= 0 {
		return nil, domain.Invalid("amount must be positive")
	}
	if in.PaymentType == "" {
		return nil, domain.Required("payment type")
	}
	if !in.PaymentType.Valid() {
		return nil, domain.Invalid("invalid payment type")
	}
	if in.Status == "" {
		in.Status = domain.PaymentPending
	}
	if !in.Status.Valid() {
		return nil, domain.Invalid("invalid payment status")
	}
	if err := s.checkPaymentRefs(ctx, actor, in); err != nil {
		return nil, err
	}
	due := s.now()
	if in.DueDate != nil {
		due = *in.DueDate
	}
	p := &domain.Payment{
		ID:          utils.NewID(),
		ContractID:  blankToNil(in.ContractID),
		PropertyID:  blankToNil(in.PropertyID),
		ProviderID:  blankToNil(in.ProviderID),
		Amount:      in.Amount,
		DueDate:     dateOf(due),
		Status:      in.Status,
		PaymentType: in.PaymentType,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return p, nil
}

// checkPaymentRefs 关联对象必须在 PaymentOptions 范围内
func (s *Service) checkPaymentRefs(ctx context.Context, actor *domain.User, in PaymentInput) error {
	if id := blankToNil(in.ContractID); id != nil {
		c, err := s.contracts.FindOwned(ctx, *id, actor.ID)
		if err != nil {
			return fmt.Errorf("find contract: %w", err)
		}
		if c == nil {
			return domain.Invalid(domain.ReasonInvalidChoice)
		}
	}
	if id := blankToNil(in.PropertyID); id != nil {
		p, err := s.props.FindOwned(ctx, *id, actor.ID)
		if err != nil {
			return fmt.Errorf("find property: %w", err)
		}
		if p == nil {
			return domain.Invalid(domain.ReasonInvalidChoice)
		}
	}
	if id := blankToNil(in.ProviderID); id != nil {
		u, err := s.users.FindByID(ctx, *id)
		if err != nil {
			return fmt.Errorf("find provider: %w", err)
		}
		if u == nil || !u.IsProvider() {
			return domain.Invalid(domain.ReasonInvalidChoice)
		}
	}
	return nil
}

// Payments owner 看 scopedPaymentsForOwner，prestataire 看收给自己的付款
func (s *Service) Payments(ctx context.Context, actor *domain.User, limit int) ([]domain.Payment, error) {
	switch actor.Role {
	case domain.RoleOwner:
		return s.payments.ListForOwner(ctx, actor.ID, limit)
	case domain.RoleProvider:
		return s.payments.ListForProvider(ctx, actor.ID, limit)
	case domain.RoleStaff:
		return []domain.Payment{}, nil
	default:
		return nil, domain.UnknownRole(actor.Role)
	}
}

// MarkOverdue 到期日早于今天且仍 PENDING 的付款标记为 LATE
func (s *Service) MarkOverdue(ctx context.Context) (int64, error) {
	n, err := s.payments.MarkOverdue(ctx, time.Time(dateOf(s.now())))
	if err != nil {
		return 0, fmt.Errorf("mark overdue: %w", err)
	}
	if n > 0 {
		s.log.Info("payments marked late", zap.Int64("count", n))
	}
	return n, nil
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
