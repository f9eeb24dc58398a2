package domain

import (
	"context"
	"time"
)

type PropertyType string

const (
	PropertyApartmentRent      PropertyType = "APPARTEMENT_LOCATION"
	PropertyApartmentFurnished PropertyType = "APPARTEMENT_MEUBLE"
	PropertyStudioRent         PropertyType = "STUDIO_LOCATION"
	PropertyStudioFurnished    PropertyType = "STUDIO_MEUBLE"
	PropertyRoomRent           PropertyType = "CHAMBRE_LOCATION"
	PropertyRoomFurnished      PropertyType = "CHAMBRE_MEUBLE"
	PropertyShop               PropertyType = "MAGASIN"
	PropertyBuilding           PropertyType = "IMMEUBLE"
	PropertyHouse              PropertyType = "MAISON"
)

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyApartmentRent, PropertyApartmentFurnished, PropertyStudioRent, PropertyStudioFurnished,
		PropertyRoomRent, PropertyRoomFurnished, PropertyShop, PropertyBuilding, PropertyHouse:
		return true
	}
	return false
}

type ListingStatus string

const (
	ListingForRent ListingStatus = "LOCATION"
	ListingForSale ListingStatus = "VENTE"
)

func (s ListingStatus) Valid() bool { return s == ListingForRent || s == ListingForSale }

// Property 即 "bien"，owner 创建后不可变
type Property struct {
	ID            string        `gorm:"primaryKey;size:32" json:"id"`
	OwnerID       string        `gorm:"size:32;not null;index" json:"ownerId"`
	Owner         *User         `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Title         string        `gorm:"size:120;not null" json:"title"`
	PropertyType  PropertyType  `gorm:"size:40;not null" json:"propertyType"`
	ListingStatus ListingStatus `gorm:"size:20;not null;default:LOCATION" json:"listingStatus"`
	Furnished     bool          `gorm:"not null;default:false" json:"furnished"`
	Price         *float64      `gorm:"type:decimal(12,2)" json:"price"`
	Address       string        `gorm:"size:255" json:"address"`
	Description   string        `gorm:"type:text" json:"description"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

func (Property) TableName() string { return "properties" }

type PropertyRepository interface {
	Create(ctx context.Context, p *Property) error
	FindByID(ctx context.Context, id string) (*Property, error)
	// FindOwned 归属 + 存在合并成一次查询
	FindOwned(ctx context.Context, id, ownerID string) (*Property, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Property, error)
	// ListAssignedTo 通过 assignment 关联到 provider 的房源
	ListAssignedTo(ctx context.Context, providerID string, activeOnly bool) ([]Property, error)
	Update(ctx context.Context, p *Property) error
	// DeleteCascade 删除房源及其 media/assignment/contract/payment/report，返回被删 media 的存储路径
	DeleteCascade(ctx context.Context, id string) ([]string, error)
}
