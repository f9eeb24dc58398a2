// Package dashboard 首页汇总，按角色取不同的数据。
package dashboard

import (
	"context"

	"gp-immo/internal/domain"
	"gp-immo/internal/feature/assignment"
	"gp-immo/internal/feature/contract"
	"gp-immo/internal/feature/messaging"
	"gp-immo/internal/feature/property"
)

const (
	recentContracts = 5
	recentPayments  = 5
	recentReports   = 5
	recentMessages  = 6
)

type View struct {
	Role         domain.Role                 `json:"role"`
	DisplayName  string                      `json:"displayName"`
	Properties   []domain.Property           `json:"properties,omitempty"`
	Contracts    []domain.Contract           `json:"contracts,omitempty"`
	Payments     []domain.Payment            `json:"payments,omitempty"`
	Assignments  []domain.Assignment         `json:"assignments,omitempty"`
	Missions     []domain.Assignment         `json:"missions,omitempty"`
	Reports      []domain.InterventionReport `json:"reports,omitempty"`
	LastMessages []domain.Message            `json:"lastMessages"`
}

type Service struct {
	props       *property.Service
	contracts   *contract.Service
	assignments *assignment.Service
	messaging   *messaging.Service
}

func NewService(props *property.Service, contracts *contract.Service, assignments *assignment.Service, msg *messaging.Service) *Service {
	return &Service{props: props, contracts: contracts, assignments: assignments, messaging: msg}
}

func (s *Service) Build(ctx context.Context, actor *domain.User) (View, error) {
	v := View{Role: actor.Role, DisplayName: actor.DisplayName()}
	var err error
	switch actor.Role {
	case domain.RoleOwner:
		if v.Properties, err = s.props.Scoped(ctx, actor); err != nil {
			return v, err
		}
		if v.Contracts, err = s.contracts.Contracts(ctx, actor, recentContracts); err != nil {
			return v, err
		}
		if v.Payments, err = s.contracts.Payments(ctx, actor, recentPayments); err != nil {
			return v, err
		}
		if v.Assignments, err = s.assignments.OwnerAssignments(ctx, actor); err != nil {
			return v, err
		}
	case domain.RoleProvider, domain.RoleStaff:
		if v.Missions, err = s.assignments.ActiveMissions(ctx, actor.ID); err != nil {
			return v, err
		}
		if v.Reports, err = s.assignments.Reports(ctx, actor, recentReports); err != nil {
			return v, err
		}
	default:
		return v, domain.UnknownRole(actor.Role)
	}
	if v.LastMessages, err = s.messaging.Latest(ctx, actor, recentMessages); err != nil {
		return v, err
	}
	return v, nil
}
