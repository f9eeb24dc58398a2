package router

import (
	"cmp"
	"slices"

	"github.com/gin-gonic/gin"
)

// APIModule public 为免登录分组，authed 已挂 AuthJWT + LoadUser
type APIModule interface {
	MountAPI(public, authed *gin.RouterGroup)
}

type AdminModule interface {
	MountAdmin(admin *gin.RouterGroup)
}

// Priority 越小越先挂；不实现按 100 算
type prioritizer interface{ Priority() int }

// Registry 构造后只读，两个 engine 各挂一遍
type Registry struct {
	api   []APIModule
	admin []AdminModule
}

// NewRegistry 每个模块可实现 APIModule、AdminModule 之一或两者
func NewRegistry(mods ...any) *Registry {
	r := &Registry{}
	for _, m := range mods {
		if a, ok := m.(APIModule); ok {
			r.api = append(r.api, a)
		}
		if a, ok := m.(AdminModule); ok {
			r.admin = append(r.admin, a)
		}
	}
	slices.SortStableFunc(r.api, byPriority[APIModule])
	slices.SortStableFunc(r.admin, byPriority[AdminModule])
	return r
}

func (r *Registry) MountAllAPI(public, authed *gin.RouterGroup) {
	for _, m := range r.api {
		m.MountAPI(public, authed)
	}
}

func (r *Registry) MountAllAdmin(admin *gin.RouterGroup) {
	for _, m := range r.admin {
		m.MountAdmin(admin)
	}
}

func byPriority[T any](a, b T) int { return cmp.Compare(priorityOf(a), priorityOf(b)) }

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
