// Package logger 基于 zap，控制台 + 可选的 lumberjack 切割文件。
package logger

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"gp-immo/internal/core/config"
)

// FromConfig 按 log.file.enable 决定是否额外写切割文件；返回的函数负责 flush
func FromConfig(c config.Log) (*zap.Logger, func()) {
	return build(c, os.Stdout)
}

func build(c config.Log, console zapcore.WriteSyncer) (*zap.Logger, func()) {
	lvl := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		lvl.SetLevel(zapcore.InfoLevel)
	}

	cores := []zapcore.Core{zapcore.NewCore(encoder(c.JSON), console, lvl)}
	var rot *lumberjack.Logger
	if c.File.Enable && c.File.Filename != "" {
		rot = &lumberjack.Logger{
			Filename:   c.File.Filename,
			MaxSize:    atLeast(c.File.MaxSizeMB, 1),
			MaxBackups: atLeast(c.File.MaxBackups, 0),
			MaxAge:     atLeast(c.File.MaxAgeDays, 0),
			Compress:   c.File.Compress,
		}
		// 文件里始终写 JSON，方便采集
		cores = append(cores, zapcore.NewCore(encoder(true), zapcore.AddSync(rot), lvl))
	}

	// 同一条消息每秒前 100 条全量，之后每 100 条留 1 条
	core := zapcore.NewSamplerWithOptions(zapcore.NewTee(cores...), time.Second, 100, 100)
	opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	if !c.JSON {
		opts = append(opts, zap.Development())
	}
	l := zap.New(core, opts...)
	return l, func() {
		_ = l.Sync()
		if rot != nil {
			_ = rot.Close()
		}
	}
}

func encoder(json bool) zapcore.Encoder {
	if json {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "ts"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func atLeast(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}

type lineWriter struct {
	l     *zap.Logger
	level zapcore.Level
}

func (w lineWriter) Write(p []byte) (int, error) {
	if ce := w.l.Check(w.level, strings.TrimRight(string(p), "\r\n")); ce != nil {
		ce.Write()
	}
	return len(p), nil
}

// ToWriter 给 gin.DefaultWriter 这类只认 io.Writer 的地方
func ToWriter(l *zap.Logger, level zapcore.Level) io.Writer {
	return lineWriter{l: l, level: level}
}

// ToStdLogger http.Server.ErrorLog 用
func ToStdLogger(l *zap.Logger, level zapcore.Level) (*log.Logger, error) {
	return zap.NewStdLogAt(l.Named("http"), level)
}

func RedirectStdLog(l *zap.Logger, level zapcore.Level) func() {
	undo, err := zap.RedirectStdLogAt(l, level)
	if err != nil {
		return func() {}
	}
	return undo
}
