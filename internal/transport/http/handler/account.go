package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gp-immo/internal/core/auth"
	"gp-immo/internal/domain"
	"gp-immo/internal/feature/account"
	"gp-immo/internal/feature/specialization"
	httpez "gp-immo/internal/transport/http/ez"
	mdw "gp-immo/internal/transport/http/middleware"
)

// AccountHandler 注册/登录/个人资料/marketplace
type AccountHandler struct {
	accounts *account.Service
	specs    *specialization.Service
	jwt      *auth.JWTer
	log      *zap.Logger
}

func NewAccountHandler(accounts *account.Service, specs *specialization.Service, jwt *auth.JWTer, l *zap.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, specs: specs, jwt: jwt, log: l}
}

func (h *AccountHandler) Priority() int { return 10 }

type tokenOut struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

type meOut struct {
	*domain.User
	RoleLabel   string `json:"roleLabel"`
	DisplayName string `json:"displayName"`
}

func newMeOut(u *domain.User) meOut {
	return meOut{User: u, RoleLabel: u.Role.Label(), DisplayName: u.DisplayName()}
}

func (h *AccountHandler) issue(u *domain.User) (tokenOut, error) {
	tok, err := h.jwt.Issue(u.ID, u.Role)
	if err != nil {
		return tokenOut{}, httpez.Internal("issue token failed", err)
	}
	return tokenOut{Token: tok.Value, ExpiresAt: tok.ExpiresAt, User: u}, nil
}

func (h *AccountHandler) MountAPI(public, authed *gin.RouterGroup) {
	// 公共接口按 IP 限速
	authGroup := public.Group("/auth", mdw.RateLimitPerIP(5, 20))
	ezAuth := httpez.New(authGroup, h.log)
	ezPublic := httpez.New(public, h.log)

	type signupIn struct {
		Username string `json:"username"`
		Email    string `json:"email" binding:"omitempty,email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	httpez.RegisterAction[signupIn, tokenOut](ezAuth, httpez.Action[signupIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/signup/owner",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *signupIn) (tokenOut, error) {
			u, err := h.accounts.SignupOwner(c.Request.Context(), account.SignupInput(*in))
			if err != nil {
				return tokenOut{}, err
			}
			return h.issue(u)
		},
	})

	type providerSignupIn struct {
		signupIn
		Specialization     string `json:"specialization"`
		MarketplaceVisible *bool  `json:"marketplaceVisible"`
	}
	httpez.RegisterAction[providerSignupIn, tokenOut](ezAuth, httpez.Action[providerSignupIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/signup/provider",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *providerSignupIn) (tokenOut, error) {
			u, err := h.accounts.SignupProvider(c.Request.Context(), account.ProviderSignupInput{
				SignupInput:        account.SignupInput(in.signupIn),
				Specialization:     in.Specialization,
				MarketplaceVisible: in.MarketplaceVisible,
			})
			if err != nil {
				return tokenOut{}, err
			}
			return h.issue(u)
		},
	})

	type loginIn struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	httpez.RegisterAction[loginIn, tokenOut](ezAuth, httpez.Action[loginIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (tokenOut, error) {
			u, err := h.accounts.Authenticate(c.Request.Context(), in.Username, in.Password)
			if errors.Is(err, account.ErrInvalidCredentials) {
				return tokenOut{}, httpez.Unauthorized("invalid credentials")
			}
			if err != nil {
				return tokenOut{}, err
			}
			return h.issue(u)
		},
	})

	httpez.RegisterAction[struct{}, specialization.Choices](ezPublic, httpez.Action[struct{}, specialization.Choices]{
		Method: http.MethodGet,
		Path:   "/specializations",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (specialization.Choices, error) {
			return h.specs.Choices(c.Request.Context())
		},
	})

	type marketQ struct {
		Q string `form:"q"`
	}
	httpez.RegisterAction[marketQ, []domain.User](ezPublic, httpez.Action[marketQ, []domain.User]{
		Method: http.MethodGet,
		Path:   "/marketplace",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *marketQ) ([]domain.User, error) {
			return h.accounts.Marketplace(c.Request.Context(), in.Q)
		},
	})
	httpez.RegisterAction[struct{}, []domain.User](ezPublic, httpez.Action[struct{}, []domain.User]{
		Method: http.MethodGet,
		Path:   "/marketplace/featured",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.User, error) {
			return h.accounts.Featured(c.Request.Context())
		},
	})

	// 以下需要登录
	ezMe := httpez.New(authed, h.log)

	httpez.RegisterAction[struct{}, meOut](ezMe, httpez.Action[struct{}, meOut]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (meOut, error) {
			return newMeOut(mdw.CurrentUser(c)), nil
		},
	})

	type profileIn struct {
		Email              *string `json:"email" binding:"omitempty,email"`
		Phone              *string `json:"phone"`
		Specialization     *string `json:"specialization"`
		MarketplaceVisible *bool   `json:"marketplaceVisible"`
	}
	httpez.RegisterAction[profileIn, meOut](ezMe, httpez.Action[profileIn, meOut]{
		Method: http.MethodPut,
		Path:   "/me",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *profileIn) (meOut, error) {
			u, err := h.accounts.UpdateProfile(c.Request.Context(), mdw.CurrentUser(c), account.ProfileInput(*in))
			if err != nil {
				return meOut{}, err
			}
			return newMeOut(u), nil
		},
	})
}
