package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"gp-immo/internal/domain"
)

// isDupKey TranslateError 打开时命中 gorm.ErrDuplicatedKey，否则按驱动报错文本兜底
func isDupKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}

func translate(err error) error {
	if isDupKey(err) {
		return domain.ErrDuplicate
	}
	return err
}

func notFoundAsNil[T any](v *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
