package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"gp-immo/pkg/utils"
)

// 上传目录分类
const (
	CategoryProperty = "biens"
	CategoryMessage  = "messages"
	CategoryReport   = "rapports"
)

// ObjectStore 文件存储；只负责字节，不看内容
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// URL 返回可访问的引用（本地为静态路径，minio 为预签名地址）
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Key {category}/{owner}/{timestamp}_{filename}，扩展名前带 8 位随机后缀；
// 时间戳只到秒，同名文件跨请求也不能落到同一个对象上
func Key(category, ownerID, filename string, now time.Time) string {
	name := safeFilename(filename)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		stem, ext = name, ""
	}
	return fmt.Sprintf("%s/%s/%s_%s-%s%s",
		category, ownerID, now.Format("20060102150405"), stem, utils.NewID()[:8], ext)
}

func safeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" {
		return "file"
	}
	return name
}

// File 一个待保存的上传文件；Open 可多次调用
type File struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// Save 打开并写入 store
func Save(ctx context.Context, store ObjectStore, key string, f File) error {
	if f.Open == nil {
		return fmt.Errorf("file %q has no content", f.Filename)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer rc.Close()
	return store.Put(ctx, key, rc, f.Size, f.ContentType)
}
