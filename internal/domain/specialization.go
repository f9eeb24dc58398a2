package domain

import "context"

type Specialization struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:120;not null" json:"name"`
}

func (Specialization) TableName() string { return "specializations" }

type SpecializationRepository interface {
	List(ctx context.Context) ([]Specialization, error)
	FindByName(ctx context.Context, name string) (*Specialization, error)
	// Ensure 不存在则创建，返回是否新建
	Ensure(ctx context.Context, name string) (*Specialization, bool, error)
}
