// internal/transport/http/router/admin.go
package router

import (
	"github.com/gin-gonic/gin"

	"gp-immo/internal/domain"
	mdw "gp-immo/internal/transport/http/middleware"
)

func NewAdminEngine(d Deps) *gin.Engine {
	r := base(d)

	// 管理端 v1（统一要求 staff 角色）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(d.JWT, domain.RoleStaff), mdw.LoadUser(d.Users))

	d.Modules.MountAllAdmin(admin)
	return r
}
