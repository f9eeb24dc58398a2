package domain

import (
	"context"
	"time"

	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentLate    PaymentStatus = "LATE"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentLate:
		return true
	}
	return false
}

type PaymentType string

const (
	PaymentRent        PaymentType = "LOYER"
	PaymentReservation PaymentType = "RESERVATION"
	PaymentProviderFee PaymentType = "PRESTATAIRE"
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentRent, PaymentReservation, PaymentProviderFee:
		return true
	}
	return false
}

// Payment contract/property/provider 三个外键都可为空
type Payment struct {
	ID          string         `gorm:"primaryKey;size:32" json:"id"`
	ContractID  *string        `gorm:"size:32;index" json:"contractId"`
	PropertyID  *string        `gorm:"size:32;index" json:"propertyId"`
	ProviderID  *string        `gorm:"size:32;index" json:"providerId"`
	Amount      float64        `gorm:"type:decimal(10,2);not null" json:"amount"`
	DueDate     datatypes.Date `gorm:"not null" json:"dueDate"`
	Status      PaymentStatus  `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	PaymentType PaymentType    `gorm:"size:20;not null" json:"paymentType"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func (Payment) TableName() string { return "payments" }

type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	// ListForOwner 经 contract.owner 或 property.owner 命中的付款，按主键去重
	ListForOwner(ctx context.Context, ownerID string, limit int) ([]Payment, error)
	ListForProvider(ctx context.Context, providerID string, limit int) ([]Payment, error)
	// MarkOverdue 把到期日早于 asOf 的 PENDING 标记为 LATE
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}
