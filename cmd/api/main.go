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
	"gp-immo/internal/jobs"
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
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, closeApp, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("app init failed", zap.Error(err))
	}
	defer closeApp()

	// 默认数据（幂等）
	res, err := a.Bootstrap(ctx, app.SeedFrom(cfg))
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	log.Info("bootstrap done",
		zap.Bool("admin_created", res.AdminCreated),
		zap.Int("specializations_created", res.SpecializationsCreated))

	// 逾期付款扫描
	cr, err := jobs.StartOverdue(cfg.Jobs.OverdueCron, a.Contracts, log.Named("jobs"))
	if err != nil {
		log.Fatal("schedule overdue job failed", zap.Error(err))
	}
	if cr != nil {
		defer func() { <-cr.Stop().Done() }()
	}

	h := cfg.App.HTTP
	srv := server.BuildServer(server.Addr(h.Host, h.Port), a.APIEngine(), server.Timeouts{
		Read:  time.Duration(h.ReadTimeoutSec) * time.Second,
		Write: time.Duration(h.WriteTimeoutSec) * time.Second,
		Idle:  time.Duration(h.IdleTimeoutSec) * time.Second,
	})
	if el, err := logger.ToStdLogger(log, zapcore.ErrorLevel); err == nil {
		srv.ErrorLog = el
	}

	base := server.HumanURL(h.Host, h.Port)
	log.Info("user api starting",
		zap.String("open", base),
		zap.String("health", base+"/health"),
		zap.String("api_v1", base+"/api/v1"))
	if err := server.Run(ctx, srv, 10*time.Second, log); err != nil {
		log.Error("user api stopped with error", zap.Error(err))
		return
	}
	log.Info("user api stopped gracefully")
}
