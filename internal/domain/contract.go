package domain

import (
	"context"
	"time"

	"gorm.io/datatypes"
)

type ContractStatus string

const (
	ContractDraft  ContractStatus = "DRAFT"
	ContractActive ContractStatus = "ACTIVE"
	ContractClosed ContractStatus = "CLOSED"
)

func (s ContractStatus) Valid() bool {
	switch s {
	case ContractDraft, ContractActive, ContractClosed:
		return true
	}
	return false
}

type Contract struct {
	ID         string          `gorm:"primaryKey;size:32" json:"id"`
	PropertyID string          `gorm:"size:32;not null;index" json:"propertyId"`
	Property   *Property       `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	OwnerID    string          `gorm:"size:32;not null;index" json:"ownerId"`
	TenantName string          `gorm:"size:120;not null" json:"tenantName"`
	StartDate  datatypes.Date  `gorm:"not null" json:"startDate"`
	EndDate    *datatypes.Date `json:"endDate"`
	Rent       float64         `gorm:"type:decimal(10,2);not null" json:"rent"`
	Status     ContractStatus  `gorm:"size:20;not null;default:DRAFT" json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func (Contract) TableName() string { return "contracts" }

type ContractRepository interface {
	Create(ctx context.Context, c *Contract) error
	FindOwned(ctx context.Context, id, ownerID string) (*Contract, error)
	// ListByOwner limit<=0 表示不限
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]Contract, error)
}
