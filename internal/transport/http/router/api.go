package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gp-immo/internal/core/auth"
	"gp-immo/internal/core/server"
	"gp-immo/internal/core/storage"
	mdw "gp-immo/internal/transport/http/middleware"
	resp "gp-immo/internal/transport/http/response"
)

// Deps 两个 engine 共用的依赖
type Deps struct {
	Log     *zap.Logger
	JWT     *auth.JWTer
	Users   mdw.UserFinder
	Store   storage.ObjectStore
	Modules *Registry
	// Health 探活（一般是 DB ping），nil 时只回 ok
	Health      func(ctx context.Context) error
	CORSOrigins []string
	// Timeout 单请求超时，0 用默认 10s；multipart 上传单独放宽
	Timeout time.Duration
}

const (
	maxJSONBody   = 1 << 20
	maxUploadBody = 64 << 20
	uploadTimeout = 60 * time.Second
)

func (d Deps) timeout() time.Duration {
	if d.Timeout > 0 {
		return d.Timeout
	}
	return 10 * time.Second
}

func base(d Deps) *gin.Engine {
	r := server.NewRouter(d.CORSOrigins)

	// 中间件：Recovery 在 Metrics/AccessLog 之内，panic 也会计数并记访问日志
	r.Use(
		mdw.RequestID(),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		mdw.Recovery(d.Log),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300, 2*time.Second),
		mdw.MaxBodyBytes(maxJSONBody, maxUploadBody),
		mdw.Timeout(d.timeout(), uploadTimeout),
	)

	// 健康检查 + 指标
	r.GET("/health", func(c *gin.Context) {
		if d.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := d.Health(ctx); err != nil {
				d.Log.Warn("health check failed", zap.Error(err))
				resp.Fail(c, resp.CodeUnavailable, "")
				return
			}
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"status": "up"}))
	})
	r.GET("/metrics", mdw.MetricsHandler())
	return r
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := base(d)

	// 本地存储时直接暴露上传目录
	if ls, ok := d.Store.(*storage.LocalStore); ok && strings.HasPrefix(ls.PublicURL(), "/") {
		r.Static(ls.PublicURL(), ls.BasePath())
	}

	// 前缀
	api := r.Group("/api/v1")

	// 鉴权分组（⚠️ 需要当前用户的接口都挂这里）
	authUser := api.Group("")
	authUser.Use(mdw.AuthJWT(d.JWT, ""), mdw.LoadUser(d.Users))

	d.Modules.MountAllAPI(api, authUser)
	return r
}
