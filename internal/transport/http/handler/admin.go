package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gp-immo/internal/domain"
	"gp-immo/internal/feature/account"
	"gp-immo/internal/feature/specialization"
	httpez "gp-immo/internal/transport/http/ez"
)

// AdminHandler 管理端：用户、专业目录、marketplace 可见性
type AdminHandler struct {
	accounts *account.Service
	specs    *specialization.Service
	log      *zap.Logger
}

func NewAdminHandler(accounts *account.Service, specs *specialization.Service, l *zap.Logger) *AdminHandler {
	return &AdminHandler{accounts: accounts, specs: specs, log: l}
}

func (h *AdminHandler) Priority() int { return 10 }

func (h *AdminHandler) MountAdmin(admin *gin.RouterGroup) {
	ez := httpez.New(admin, h.log)
	staff := []domain.Role{domain.RoleStaff}

	// --- GET /admin/v1/users  用户列表 ---
	type listQ struct {
		Offset      int    `form:"offset,default=0"`
		Limit       int    `form:"limit,default=20"`
		Q           string `form:"q"`            // 按账号/email 模糊搜
		WithDeleted bool   `form:"with_deleted"` // 是否包含软删
	}
	type row struct {
		ID                 string      `json:"id"`
		Username           string      `json:"username"`
		Email              string      `json:"email"`
		Role               domain.Role `json:"role"`
		Specialization     string      `json:"specialization,omitempty"`
		MarketplaceVisible bool        `json:"marketplaceVisible"`
		Banned             bool        `json:"banned"`
		CreatedAt          time.Time   `json:"createdAt"`
	}
	type listOut struct {
		Total int64 `json:"total"`
		Items []row `json:"items"`
	}
	httpez.RegisterAction[listQ, listOut](ez, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Auth:   true,
		Roles:  staff,
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			us, total, err := h.accounts.List(c.Request.Context(), domain.UserListFilter{
				Offset: in.Offset, Limit: in.Limit, Q: in.Q, WithDeleted: in.WithDeleted,
			})
			if err != nil {
				return listOut{}, httpez.Internal("list users failed", err)
			}
			out := listOut{Total: total, Items: make([]row, 0, len(us))}
			for _, u := range us {
				out.Items = append(out.Items, row{
					ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role,
					Specialization: u.Specialization, MarketplaceVisible: u.MarketplaceVisible,
					Banned: u.DeletedAt.Valid, CreatedAt: u.CreatedAt,
				})
			}
			return out, nil
		},
	})

	// --- POST /admin/v1/users/:id/ban  封禁（软删） ---
	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/:id/ban",
		Binder: httpez.BindNone,
		Auth:   true,
		Roles:  staff,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if id == "" {
				return nil, httpez.BadRequest("missing id")
			}
			if err := h.accounts.Ban(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	// --- 专业目录 ---
	httpez.RegisterAction[struct{}, []domain.Specialization](ez, httpez.Action[struct{}, []domain.Specialization]{
		Method: http.MethodGet,
		Path:   "/specializations",
		Binder: httpez.BindNone,
		Auth:   true,
		Roles:  staff,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Specialization, error) {
			return h.specs.Available(c.Request.Context())
		},
	})

	type specIn struct {
		Name string `json:"name"`
	}
	type specOut struct {
		Item    *domain.Specialization `json:"item"`
		Created bool                   `json:"created"`
	}
	httpez.RegisterAction[specIn, specOut](ez, httpez.Action[specIn, specOut]{
		Method: http.MethodPost,
		Path:   "/specializations",
		Binder: httpez.BindJSON,
		Auth:   true,
		Roles:  staff,
		Handler: func(c *gin.Context, in *specIn) (specOut, error) {
			sp, created, err := h.specs.Ensure(c.Request.Context(), in.Name)
			if err != nil {
				return specOut{}, err
			}
			return specOut{Item: sp, Created: created}, nil
		},
	})

	// --- PUT /admin/v1/providers/:id/visibility ---
	type visibilityIn struct {
		Visible *bool `json:"visible" binding:"required"`
	}
	httpez.RegisterAction[visibilityIn, *domain.User](ez, httpez.Action[visibilityIn, *domain.User]{
		Method: http.MethodPut,
		Path:   "/providers/:id/visibility",
		Binder: httpez.BindJSON,
		Auth:   true,
		Roles:  staff,
		Handler: func(c *gin.Context, in *visibilityIn) (*domain.User, error) {
			return h.accounts.SetMarketplaceVisibility(c.Request.Context(), c.Param("id"), *in.Visible)
		},
	})
}
