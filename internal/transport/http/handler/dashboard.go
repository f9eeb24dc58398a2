package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gp-immo/internal/feature/dashboard"
	httpez "gp-immo/internal/transport/http/ez"
	mdw "gp-immo/internal/transport/http/middleware"
)

type DashboardHandler struct {
	dash *dashboard.Service
	log  *zap.Logger
}

func NewDashboardHandler(s *dashboard.Service, l *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dash: s, log: l}
}

func (h *DashboardHandler) MountAPI(_, authed *gin.RouterGroup) {
	httpez.RegisterAction[struct{}, dashboard.View](httpez.New(authed, h.log), httpez.Action[struct{}, dashboard.View]{
		Method: http.MethodGet,
		Path:   "/dashboard",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (dashboard.View, error) {
			return h.dash.Build(c.Request.Context(), mdw.CurrentUser(c))
		},
	})
}
