package media

import (
	"strings"

	"gp-immo/internal/core/storage"
	"gp-immo/internal/domain"
)

var allowedPrefixes = []string{"image/", "video/"}

// Validator 单次上传上限和单房源累计上限是两道独立检查；0 用默认值
type Validator struct {
	MaxPerProperty int
	MaxPerBatch    int
}

func (v Validator) perProperty() int {
	if v.MaxPerProperty <= 0 {
		return domain.MaxMediaPerProperty
	}
	return v.MaxPerProperty
}

func (v Validator) perBatch() int {
	if v.MaxPerBatch <= 0 {
		return domain.MaxMediaPerBatch
	}
	return v.MaxPerBatch
}

// Validate 批次本身的检查，再做一次累计配额预检
func (v Validator) Validate(existingCount int, files []storage.File) error {
	if err := v.ValidateBatch(files); err != nil {
		return err
	}
	return v.CheckQuota(existingCount, len(files))
}

func (v Validator) ValidateBatch(files []storage.File) error {
	switch {
	case len(files) == 0:
		return domain.Invalid(domain.ReasonEmptyBatch)
	case len(files) > v.perBatch():
		return domain.Invalid(domain.ReasonTooManyFiles)
	}
	for _, f := range files {
		if !allowedType(f.ContentType) {
			return domain.Invalid(domain.ReasonUnsupportedType)
		}
	}
	return nil
}

func (v Validator) CheckQuota(existingCount, incoming int) error {
	if existingCount+incoming > v.perProperty() {
		return domain.Invalid(domain.ReasonQuotaExceeded)
	}
	return nil
}

// ValidateUpload 默认上限 10
func ValidateUpload(existingCount int, files []storage.File) error {
	return Validator{}.Validate(existingCount, files)
}

func allowedType(ct string) bool {
	for _, p := range allowedPrefixes {
		if strings.HasPrefix(ct, p) {
			return true
		}
	}
	return false
}
