// Package app 组装仓储、服务与 HTTP engine，两个 cmd 与端到端测试共用。
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gp-immo/internal/bootstrap"
	"gp-immo/internal/core/auth"
	"gp-immo/internal/core/cache"
	"gp-immo/internal/core/config"
	"gp-immo/internal/core/database"
	"gp-immo/internal/core/storage"
	"gp-immo/internal/feature/account"
	"gp-immo/internal/feature/assignment"
	"gp-immo/internal/feature/contract"
	"gp-immo/internal/feature/dashboard"
	"gp-immo/internal/feature/media"
	"gp-immo/internal/feature/messaging"
	"gp-immo/internal/feature/property"
	"gp-immo/internal/feature/specialization"
	"gp-immo/internal/repo"
	"gp-immo/internal/transport/http/handler"
	"gp-immo/internal/transport/http/router"
)

type Options struct {
	DB       *gorm.DB
	Cache    *cache.Cache // nil 表示不缓存
	CacheTTL time.Duration
	Store    storage.ObjectStore
	JWT      *auth.JWTer
	Media    media.Validator
	Log      *zap.Logger

	// CORSOrigins 为空则放开
	CORSOrigins []string
}

type App struct {
	Log   *zap.Logger
	DB    *gorm.DB
	Repos *repo.Repos
	Store storage.ObjectStore
	JWT   *auth.JWTer
	cors  []string

	Specs       *specialization.Service
	Accounts    *account.Service
	Properties  *property.Service
	Media       *media.Service
	Assignments *assignment.Service
	Contracts   *contract.Service
	Messaging   *messaging.Service
	Dashboard   *dashboard.Service
}

func New(o Options) *App {
	l := o.Log
	if l == nil {
		l = zap.NewNop()
	}
	rs := repo.New(o.DB)
	a := &App{Log: l, DB: o.DB, Repos: rs, Store: o.Store, JWT: o.JWT, cors: o.CORSOrigins}

	a.Specs = specialization.NewService(rs.Specializations, o.Cache, o.CacheTTL, l.Named("specialization"))
	a.Accounts = account.NewService(rs.Users, a.Specs, l.Named("account"))
	a.Properties = property.NewService(rs.Properties, o.Store, l.Named("property"))
	a.Media = media.NewService(rs.Properties, rs.Media, o.Store, o.Media, l.Named("media"))
	a.Assignments = assignment.NewService(rs.Properties, rs.Assignments, rs.Users, rs.Reports, o.Store, l.Named("assignment"))
	a.Contracts = contract.NewService(rs.Properties, rs.Contracts, rs.Payments, rs.Users, l.Named("contract"))
	a.Messaging = messaging.NewService(rs.Users, rs.Messages, rs.Assignments, o.Store, l.Named("messaging"))
	a.Dashboard = dashboard.NewService(a.Properties, a.Contracts, a.Assignments, a.Messaging)
	return a
}

// Bootstrap 默认管理员 + 专业目录（幂等）
func (a *App) Bootstrap(ctx context.Context, seed bootstrap.Seed) (bootstrap.Result, error) {
	return bootstrap.Run(ctx, a.Repos.Users, a.Specs, seed, a.Log.Named("bootstrap"))
}

func (a *App) deps() router.Deps {
	mods := router.NewRegistry(
		handler.NewAccountHandler(a.Accounts, a.Specs, a.JWT, a.Log),
		handler.NewAdminHandler(a.Accounts, a.Specs, a.Log),
		handler.NewPropertyHandler(a.Properties, a.Media, a.Log),
		handler.NewAssignmentHandler(a.Assignments, a.Log),
		handler.NewContractHandler(a.Contracts, a.Log),
		handler.NewMessagingHandler(a.Messaging, a.Log),
		handler.NewDashboardHandler(a.Dashboard, a.Log),
	)
	return router.Deps{
		Log:         a.Log,
		JWT:         a.JWT,
		Users:       a.Repos.Users,
		Store:       a.Store,
		Modules:     mods,
		Health:      func(ctx context.Context) error { return database.Ping(ctx, a.DB) },
		CORSOrigins: a.cors,
	}
}

func (a *App) APIEngine() *gin.Engine   { return router.NewAPIEngine(a.deps()) }
func (a *App) AdminEngine() *gin.Engine { return router.NewAdminEngine(a.deps()) }

// Open 按配置打开 DB / Redis / 存储并组装；返回的 cleanup 负责关闭连接
func Open(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, func(), error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                l,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("db open: %w", err)
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	// 自动迁移
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, nil, fmt.Errorf("automigrate: %w", err)
		}
		l.Info("automigrate done")
	}

	closers := []func(){}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		closers = append(closers, func() { _ = sqlDB.Close() })
	}

	// Redis 可选：地址为空或连不上都退化为直接查库
	var c *cache.Cache
	if cfg.Redis.Addr != "" {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := c.Ping(pingCtx)
		cancel()
		if err != nil {
			l.Warn("redis unavailable, cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = c.Close()
			c = nil
		} else {
			closers = append(closers, func() { _ = c.Close() })
		}
	}

	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("storage open: %w", err)
	}
	l.Info("storage ready", zap.String("driver", cfg.Storage.Driver))

	a := New(Options{
		DB:       db,
		Cache:    c,
		CacheTTL: time.Duration(cfg.Redis.TTLSeconds) * time.Second,
		Store:    store,
		JWT: &auth.JWTer{
			Secret: []byte(cfg.JWT.Secret),
			Issuer: cfg.JWT.Issuer,
			TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		},
		Media: media.Validator{
			MaxPerProperty: cfg.Media.MaxPerProperty,
			MaxPerBatch:    cfg.Media.MaxPerBatch,
		},
		Log:         l,
		CORSOrigins: cfg.App.HTTP.CORSOrigins,
	})
	return a, cleanup, nil
}

func SeedFrom(cfg *config.Config) bootstrap.Seed {
	return bootstrap.Seed{
		AdminUsername:   cfg.Bootstrap.AdminUsername,
		AdminEmail:      cfg.Bootstrap.AdminEmail,
		AdminPassword:   cfg.Bootstrap.AdminPassword,
		Specializations: cfg.Bootstrap.Specializations,
	}
}
