package domain

import "errors"

// ErrDuplicate 仓储层遇到唯一约束冲突
var ErrDuplicate = errors.New("duplicate")

// Models 自动迁移用
func Models() []any {
	return []any{
		&User{}, &Specialization{}, &Property{}, &Media{}, &Assignment{},
		&Contract{}, &Payment{}, &Message{}, &InterventionReport{},
	}
}
