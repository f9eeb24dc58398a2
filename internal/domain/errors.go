package domain

import "errors"

var (
	// ErrForbidden 角色无权执行该操作
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound 不存在，或不在调用者的可见范围内（两者对外不可区分）
	ErrNotFound = errors.New("not found")
	// ErrValidation 供 errors.Is 匹配所有 *ValidationError
	ErrValidation = errors.New("validation error")
)

// ValidationError 输入违反结构约束
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func Invalid(reason string) error { return &ValidationError{Reason: reason} }

// 常用的校验原因
const (
	ReasonEmptyBatch      = "empty batch"
	ReasonTooManyFiles    = "too many files"
	ReasonUnsupportedType = "unsupported type"
	ReasonQuotaExceeded   = "quota exceeded"
	ReasonInvalidChoice   = "invalid choice"
)

func Required(field string) error { return Invalid(field + " is required") }
