package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gp-immo/internal/domain"
	"gp-immo/internal/feature/media"
	"gp-immo/internal/feature/property"
	httpez "gp-immo/internal/transport/http/ez"
	mdw "gp-immo/internal/transport/http/middleware"
)

// mediaField multipart 中文件字段名
const mediaField = "files"

// PropertyHandler 房源 CRUD 与媒体
type PropertyHandler struct {
	props *property.Service
	media *media.Service
	log   *zap.Logger
}

func NewPropertyHandler(props *property.Service, m *media.Service, l *zap.Logger) *PropertyHandler {
	return &PropertyHandler{props: props, media: m, log: l}
}

func (h *PropertyHandler) Priority() int { return 20 }

type propertyIn struct {
	Title         string               `json:"title"`
	PropertyType  domain.PropertyType  `json:"propertyType"`
	ListingStatus domain.ListingStatus `json:"listingStatus"`
	Furnished     bool                 `json:"furnished"`
	Price         *float64             `json:"price"`
	Address       string               `json:"address"`
	Description   string               `json:"description"`
}

func (h *PropertyHandler) MountAPI(_, authed *gin.RouterGroup) {
	ez := httpez.New(authed, h.log)

	httpez.RegisterAction[struct{}, []domain.Property](ez, httpez.Action[struct{}, []domain.Property]{
		Method: http.MethodGet,
		Path:   "/properties",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Property, error) {
			return h.props.Scoped(c.Request.Context(), mdw.CurrentUser(c))
		},
	})

	httpez.RegisterAction[propertyIn, *domain.Property](ez, httpez.Action[propertyIn, *domain.Property]{
		Method: http.MethodPost,
		Path:   "/properties",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *propertyIn) (*domain.Property, error) {
			return h.props.Create(c.Request.Context(), mdw.CurrentUser(c), property.Input(*in))
		},
	})

	httpez.RegisterAction[struct{}, *domain.Property](ez, httpez.Action[struct{}, *domain.Property]{
		Method: http.MethodGet,
		Path:   "/properties/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Property, error) {
			return h.props.Get(c.Request.Context(), mdw.CurrentUser(c), c.Param("id"))
		},
	})

	httpez.RegisterAction[propertyIn, *domain.Property](ez, httpez.Action[propertyIn, *domain.Property]{
		Method: http.MethodPut,
		Path:   "/properties/:id",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *propertyIn) (*domain.Property, error) {
			return h.props.Update(c.Request.Context(), mdw.CurrentUser(c), c.Param("id"), property.Input(*in))
		},
	})

	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/properties/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := h.props.Delete(c.Request.Context(), mdw.CurrentUser(c), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	// 媒体
	httpez.RegisterAction[struct{}, media.Gallery](ez, httpez.Action[struct{}, media.Gallery]{
		Method: http.MethodGet,
		Path:   "/properties/:id/media",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (media.Gallery, error) {
			return h.media.Gallery(c.Request.Context(), mdw.CurrentUser(c), c.Param("id"))
		},
	})

	httpez.RegisterAction[struct{}, []domain.Media](ez, httpez.Action[struct{}, []domain.Media]{
		Method: http.MethodPost,
		Path:   "/properties/:id/media",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Media, error) {
			files, err := httpez.FormFiles(c, mediaField)
			if err != nil {
				return nil, err
			}
			return h.media.Upload(c.Request.Context(), mdw.CurrentUser(c), c.Param("id"), files)
		},
	})
}
