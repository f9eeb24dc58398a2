package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"gp-immo/internal/core/auth"
	"gp-immo/internal/domain"
	resp "gp-immo/internal/transport/http/response"
)

// gin.Context 上的键
const (
	KeyClaims = "claims"
	KeyUserID = "userId"
	KeyRole   = "role"
	KeyUser   = "user"
)

// AuthJWT 校验 Bearer token；requireRole 非空时要求 token 中的角色一致
func AuthJWT(j *auth.JWTer, requireRole domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Abort(c, resp.CodeUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if errors.Is(err, auth.ErrTokenExpired) {
			resp.Abort(c, resp.CodeUnauthorized, "token expired")
			return
		}
		if err != nil {
			resp.Abort(c, resp.CodeUnauthorized, "invalid token")
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			resp.Abort(c, resp.CodeForbidden, "")
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeyUserID, claims.UserID())
		c.Set(KeyRole, string(claims.Role))
		c.Next()
	}
}

// UserFinder domain.UserRepository 即满足
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// LoadUser 在 AuthJWT 之后把当前用户读出来；被封禁（软删）的账号直接 401
func LoadUser(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString(KeyUserID)
		if uid == "" {
			resp.Abort(c, resp.CodeUnauthorized, "")
			return
		}
		u, err := users.FindByID(c.Request.Context(), uid)
		if err != nil {
			resp.Abort(c, resp.CodeServerError, "")
			return
		}
		if u == nil {
			resp.Abort(c, resp.CodeUnauthorized, "")
			return
		}
		// 角色以数据库为准
		c.Set(KeyRole, string(u.Role))
		c.Set(KeyUser, u)
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(KeyUser)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
