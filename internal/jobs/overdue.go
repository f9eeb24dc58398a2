// Package jobs 定时任务。
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// OverdueMarker 由 contract.Service 实现
type OverdueMarker interface {
	MarkOverdue(ctx context.Context) (int64, error)
}

// StartOverdue spec 为空返回 nil；调用方负责 Stop
func StartOverdue(spec string, m OverdueMarker, l *zap.Logger) (*cron.Cron, error) {
	if spec == "" {
		return nil, nil
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { RunOverdue(m, l) }); err != nil {
		return nil, err
	}
	c.Start()
	l.Info("overdue job scheduled", zap.String("spec", spec))
	return c, nil
}

func RunOverdue(m OverdueMarker, l *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	n, err := m.MarkOverdue(ctx)
	if err != nil {
		l.Error("overdue job failed", zap.Error(err))
		return
	}
	l.Debug("overdue job done", zap.Int64("updated", n))
}
