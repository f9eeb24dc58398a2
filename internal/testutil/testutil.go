// Package testutil 测试用的内存数据库与数据构造。
package testutil

import (
	"context"
	"io"
	"regexp"
	"strings"
	"testing"

	"gorm.io/gorm"

	"gp-immo/internal/core/database"
	"gp-immo/internal/core/storage"
	"gp-immo/internal/domain"
	"gp-immo/pkg/utils"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// NewDB 每个测试一个独立的内存 sqlite，已迁移
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := unsafeName.ReplaceAllString(t.Name(), "_")
	db, err := database.NewGorm(database.Opts{
		Driver: "sqlite",
		DSN:    "file:" + name + "?mode=memory&cache=shared",
		// 内存库在最后一个连接关闭时消失，至少保留一个空闲连接
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Password 所有测试账号共用
const Password = "secret-pass"

// NewUser 直接落库，不走注册流程
func NewUser(t testing.TB, users domain.UserRepository, username string, role domain.Role, opts ...func(*domain.User)) *domain.User {
	t.Helper()
	hash, err := utils.HashPassword(Password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Username:     username,
		Email:        username + "@example.test",
		PasswordHash: hash,
		Role:         role,
	}
	if role == domain.RoleProvider {
		u.MarketplaceVisible = true
		u.Specialization = "Plomberie"
	}
	for _, o := range opts {
		o(u)
	}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// Hidden prestataire 不在 marketplace
func Hidden(u *domain.User) { u.MarketplaceVisible = false }

func NewProperty(t testing.TB, props domain.PropertyRepository, owner *domain.User, title string) *domain.Property {
	t.Helper()
	p := &domain.Property{
		ID:            utils.NewID(),
		OwnerID:       owner.ID,
		Title:         title,
		PropertyType:  domain.PropertyHouse,
		ListingStatus: domain.ListingForRent,
	}
	if err := props.Create(context.Background(), p); err != nil {
		t.Fatalf("create property %s: %v", title, err)
	}
	return p
}

// File 内存里的上传文件
func File(name, contentType, body string) storage.File {
	return storage.File{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(body)),
		Open:        func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader(body)), nil },
	}
}

// Images n 张 jpeg
func Images(n int) []storage.File {
	out := make([]storage.File, n)
	for i := range out {
		out[i] = File("photo.jpg", "image/jpeg", "jpeg-bytes")
	}
	return out
}

// LocalStore 写到 t.TempDir()
func LocalStore(t testing.TB) *storage.LocalStore {
	t.Helper()
	s, err := storage.NewLocalStore(t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("local store: %v", err)
	}
	return s
}
