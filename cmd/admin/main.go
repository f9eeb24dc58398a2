package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gp-immo/internal/app"
	"gp-immo/internal/core/config"
	"gp-immo/internal/core/logger"
	"gp-immo/internal/core/server"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, flush := logger.FromConfig(cfg.Log)
	defer flush()
	undo := logger.RedirectStdLog(log, zapcore.InfoLevel)
	defer undo()
	if cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, closeApp, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("app init failed", zap.Error(err))
	}
	defer closeApp()

	// 管理端也要保证管理员存在，否则无法登录
	if _, err := a.Bootstrap(ctx, app.SeedFrom(cfg)); err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}

	ad := cfg.App.Admin
	srv := server.BuildServer(server.Addr(ad.Host, ad.Port), a.AdminEngine(), server.Timeouts{
		Read:  5 * time.Second,
		Write: 10 * time.Second,
		Idle:  60 * time.Second,
	})

	base := server.HumanURL(ad.Host, ad.Port)
	log.Info("admin api starting",
		zap.String("open", base),
		zap.String("admin_v1", base+"/admin/v1"))
	if err := server.Run(ctx, srv, 10*time.Second, log); err != nil {
		log.Error("admin api stopped with error", zap.Error(err))
		return
	}
	log.Info("admin api stopped gracefully")
}
