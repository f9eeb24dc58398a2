package database

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gp-immo/internal/domain"
)

type Opts struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	// LogLevel silent / error / warn / info
	LogLevel string
	// Log 为 nil 时 SQL 日志丢弃
	Log *zap.Logger
}

func NewGorm(o Opts) (*gorm.DB, error) {
	l := o.Log
	if l == nil {
		l = zap.NewNop()
	}
	var dial gorm.Dialector
	switch o.Driver {
	case "postgres":
		dial = postgres.Open(o.DSN)
	case "mysql":
		cfg, err := mysqlConfig(o.DSN, o.Username, o.Password)
		if err != nil {
			return nil, err
		}
		l.Info("mysql dsn", zap.String("dsn", maskedDSN(cfg)))
		dial = gormmysql.Open(cfg.FormatDSN())
	case "sqlite":
		// 本地开发 / 测试，DSN 形如 file:gp-immo.db 或 file:x?mode=memory&cache=shared
		dial = sqlite.Open(o.DSN)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", o.Driver)
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger:         sqlLogger(l, o.LogLevel),
		TranslateError: true, // 唯一冲突 -> gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if o.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	}
	if o.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	}
	if o.ConnMaxLifetimeMin > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(o.ConnMaxLifetimeMin) * time.Minute)
	}
	return db.Session(&gorm.Session{
		PrepareStmt:            true,
		CreateBatchSize:        200,
		SkipDefaultTransaction: true, // 只在需要时手动开 Tx
	}), nil
}

// sqlLogger gorm 日志转到 zap，慢查询 200ms
func sqlLogger(l *zap.Logger, level string) gormlogger.Interface {
	lvl := gormlogger.Warn
	switch level {
	case "silent":
		lvl = gormlogger.Silent
	case "error":
		lvl = gormlogger.Error
	case "info":
		lvl = gormlogger.Info
	}
	return gormlogger.New(zap.NewStdLog(l.Named("gorm")), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// mysqlConfig 接受 go-sql-driver 原生 DSN，也接受 mysql:// 或 jdbc:mysql:// 形式的 URL
func mysqlConfig(dsn, user, pass string) (*mysqldrv.Config, error) {
	in := strings.TrimPrefix(strings.TrimSpace(dsn), "jdbc:")
	var (
		cfg *mysqldrv.Config
		err error
	)
	if strings.HasPrefix(in, "mysql://") {
		cfg, err = mysqlFromURL(in)
	} else {
		cfg, err = mysqldrv.ParseDSN(in)
	}
	if err != nil {
		return nil, fmt.Errorf("mysql dsn: %w", err)
	}
	if user != "" {
		cfg.User = user
	}
	if pass != "" {
		cfg.Passwd = pass
	}
	cfg.ParseTime = true
	if cfg.Collation == "" {
		cfg.Collation = "utf8mb4_unicode_ci"
	}
	return cfg, nil
}

// jdbc 专用参数，驱动不认识
var jdbcOnly = map[string]struct{}{
	"useUnicode": {}, "characterEncoding": {}, "zeroDateTimeBehavior": {},
}

func mysqlFromURL(raw string) (*mysqldrv.Config, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	cfg := mysqldrv.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}

	q := u.Query()
	if v := q.Get("user"); v != "" {
		cfg.User = v
	}
	if v := q.Get("password"); v != "" {
		cfg.Passwd = v
	}
	switch strings.ToLower(q.Get("useSSL")) {
	case "":
	case "true", "1":
		cfg.TLSConfig = "true"
	case "skip-verify", "preferred":
		cfg.TLSConfig = strings.ToLower(q.Get("useSSL"))
	default:
		cfg.TLSConfig = "false"
	}
	tz := q.Get("serverTimezone")
	if tz == "" {
		tz = q.Get("loc")
	}
	if tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("timezone %q: %w", tz, err)
		}
		cfg.Loc = loc
	}

	for k, vs := range q {
		switch k {
		case "user", "password", "useSSL", "serverTimezone", "loc", "parseTime":
			continue
		}
		if _, skip := jdbcOnly[k]; skip || len(vs) == 0 {
			continue
		}
		if cfg.Params == nil {
			cfg.Params = map[string]string{}
		}
		cfg.Params[k] = vs[0]
	}
	return cfg, nil
}

func maskedDSN(cfg *mysqldrv.Config) string {
	c := cfg.Clone()
	if c.Passwd != "" {
		c.Passwd = "****"
	}
	return c.FormatDSN()
}

// Ping /health 用
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Migrate 建表 + (property, provider) 唯一索引
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}
