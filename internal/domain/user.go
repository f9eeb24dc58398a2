package domain

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID                 string         `gorm:"primaryKey;size:32" json:"id"`
	Username           string         `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email              string         `gorm:"size:191" json:"email"`
	FirstName          string         `gorm:"size:150" json:"firstName"`
	LastName           string         `gorm:"size:150" json:"lastName"`
	Phone              string         `gorm:"size:30" json:"phone"`
	PasswordHash       string         `gorm:"size:100;not null" json:"-"`
	Role               Role           `gorm:"size:20;not null;default:PROPRIETAIRE;index" json:"role"`
	Specialization     string         `gorm:"size:100" json:"specialization"`
	MarketplaceVisible bool           `gorm:"not null" json:"marketplaceVisible"`
	IsAdmin            bool           `gorm:"not null;default:false" json:"isAdmin"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) IsOwner() bool    { return u != nil && u.Role == RoleOwner }
func (u *User) IsProvider() bool { return u != nil && u.Role == RoleProvider }
func (u *User) IsStaff() bool    { return u != nil && u.Role == RoleStaff }

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// DisplayName 全名优先，否则用账号；prestataire 追加专业 "Name - Specialization"
func (u *User) DisplayName() string {
	base := u.FullName()
	if base == "" {
		base = u.Username
	}
	if u.IsProvider() && u.Specialization != "" {
		return base + " - " + u.Specialization
	}
	return base
}

// ListedInMarketplace 只有 prestataire 才看 marketplace_visible
func (u *User) ListedInMarketplace() bool {
	switch u.Role {
	case RoleProvider:
		return u.MarketplaceVisible
	case RoleOwner, RoleStaff:
		return false
	}
	return false
}

type ProviderFilter struct {
	VisibleOnly bool
	Search      string
	Limit       int
}

type UserListFilter struct {
	Offset      int
	Limit       int
	Q           string
	WithDeleted bool
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByIDs(ctx context.Context, ids []string) ([]User, error)
	ExistsUsername(ctx context.Context, username string) (bool, error)
	ListProviders(ctx context.Context, f ProviderFilter) ([]User, error)
	List(ctx context.Context, f UserListFilter) ([]User, int64, error)
	Update(ctx context.Context, u *User) error
	SoftDelete(ctx context.Context, id string) (bool, error)
}
