package domain

import (
	"context"
	"time"
)

// Assignment 授权某个 prestataire 在某个房源上工作；(property, provider) 唯一
type Assignment struct {
	ID         string    `gorm:"primaryKey;size:32" json:"id"`
	PropertyID string    `gorm:"size:32;not null;uniqueIndex:idx_assignment_pair" json:"propertyId"`
	Property   *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	ProviderID string    `gorm:"size:32;not null;uniqueIndex:idx_assignment_pair;index" json:"providerId"`
	Provider   *User     `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
	Active     bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Assignment) TableName() string { return "assignments" }

type AssignmentRepository interface {
	FindByID(ctx context.Context, id string) (*Assignment, error)
	FindPair(ctx context.Context, propertyID, providerID string) (*Assignment, error)
	// Create 违反唯一约束时返回 ErrDuplicate
	Create(ctx context.Context, a *Assignment) error
	SetActive(ctx context.Context, id string, active bool) error
	ExistsActive(ctx context.Context, propertyID, providerID string) (bool, error)
	ListActiveByProvider(ctx context.Context, providerID string) ([]Assignment, error)
	ListByProvider(ctx context.Context, providerID string) ([]Assignment, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Assignment, error)
}
