package storage

import (
	"context"
	"fmt"
	"time"

	"gp-immo/internal/core/config"
)

// Open 按配置选择存储后端
func Open(ctx context.Context, c config.Storage) (ObjectStore, error) {
	switch c.Driver {
	case "", "local":
		return NewLocalStore(c.LocalPath, c.PublicURL)
	case "minio":
		return NewMinioStore(ctx, c.Endpoint, c.AccessKey, c.SecretKey, c.Bucket, c.UseSSL,
			time.Duration(c.PresignMin)*time.Minute)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", c.Driver)
	}
}
