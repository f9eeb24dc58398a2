package domain

import (
	"context"
	"strings"
	"time"
)

// 默认上限：单个房源累计 / 单次上传
const (
	MaxMediaPerProperty = 10
	MaxMediaPerBatch    = 10
)

type MediaKind string

const (
	MediaImage MediaKind = "IMAGE"
	MediaVideo MediaKind = "VIDEO"
	MediaOther MediaKind = "AUTRE"
)

// KindOf 上传时按 MIME 前缀归类一次并落库，读取时不再重算
func KindOf(contentType string) MediaKind {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return MediaImage
	case strings.HasPrefix(contentType, "video/"):
		return MediaVideo
	}
	return MediaOther
}

type Media struct {
	ID           string    `gorm:"primaryKey;size:32" json:"id"`
	PropertyID   string    `gorm:"size:32;not null;index" json:"propertyId"`
	Path         string    `gorm:"size:512;not null" json:"path"`
	OriginalName string    `gorm:"size:255" json:"originalName"`
	ContentType  string    `gorm:"size:127" json:"contentType"`
	Kind         MediaKind `gorm:"size:10;not null" json:"kind"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `gorm:"autoCreateTime" json:"uploadedAt"`
}

func (Media) TableName() string { return "property_media" }

type MediaRepository interface {
	CountByProperty(ctx context.Context, propertyID string) (int64, error)
	// CreateWithinQuota 在同一事务里复核累计数量后再插入
	CreateWithinQuota(ctx context.Context, propertyID string, items []Media, max int) error
	ListByProperty(ctx context.Context, propertyID string) ([]Media, error)
}
