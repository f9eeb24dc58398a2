package domain

import "fmt"

// Role 用户角色（封闭集合，新增角色必须补齐所有 switch）
type Role string

const (
	RoleOwner    Role = "PROPRIETAIRE"
	RoleProvider Role = "PRESTATAIRE"
	RoleStaff    Role = "STAFF"
)

// Roles 全部已知角色
var Roles = []Role{RoleOwner, RoleProvider, RoleStaff}

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleProvider, RoleStaff:
		return true
	}
	return false
}

// Label 前端展示用
func (r Role) Label() string {
	switch r {
	case RoleOwner:
		return "Propriétaire"
	case RoleProvider:
		return "Prestataire"
	case RoleStaff:
		return "Equipe"
	}
	return string(r)
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// UnknownRole 用在 switch 的 default 分支
func UnknownRole(r Role) error {
	return fmt.Errorf("unhandled role %q", string(r))
}
