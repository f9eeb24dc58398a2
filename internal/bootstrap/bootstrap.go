// Package bootstrap 启动时确保默认管理员与专业目录存在，可重复执行。
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"gp-immo/internal/domain"
	"gp-immo/internal/feature/specialization"
	"gp-immo/pkg/utils"
)

type Seed struct {
	AdminUsername   string
	AdminEmail      string
	AdminPassword   string
	Specializations []string
}

// Result 本次实际新建了什么
type Result struct {
	AdminCreated           bool
	SpecializationsCreated int
}

func Run(ctx context.Context, users domain.UserRepository, specs *specialization.Service, seed Seed, l *zap.Logger) (Result, error) {
	if l == nil {
		l = zap.NewNop()
	}
	var res Result
	if seed.AdminUsername != "" {
		exists, err := users.ExistsUsername(ctx, seed.AdminUsername)
		if err != nil {
			return res, fmt.Errorf("check admin: %w", err)
		}
		if !exists {
			hash, err := utils.HashPassword(seed.AdminPassword)
			if err != nil {
				return res, fmt.Errorf("hash admin password: %w", err)
			}
			admin := &domain.User{
				ID:           utils.NewID(),
				Username:     seed.AdminUsername,
				Email:        seed.AdminEmail,
				PasswordHash: hash,
				Role:         domain.RoleStaff,
				IsAdmin:      true,
			}
			// 两个进程同时启动时另一方可能刚建好，唯一冲突按已存在处理
			switch err := users.Create(ctx, admin); {
			case errors.Is(err, domain.ErrDuplicate):
				l.Info("bootstrap admin created concurrently", zap.String("username", admin.Username))
			case err != nil:
				return res, fmt.Errorf("create admin: %w", err)
			default:
				res.AdminCreated = true
				l.Info("bootstrap admin created", zap.String("username", admin.Username))
			}
		}
	}
	for _, name := range seed.Specializations {
		_, created, err := specs.Ensure(ctx, name)
		if err != nil {
			return res, fmt.Errorf("seed specialization %q: %w", name, err)
		}
		if created {
			res.SpecializationsCreated++
		}
	}
	return res, nil
}
