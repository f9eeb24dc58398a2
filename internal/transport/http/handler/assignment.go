package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gp-immo/internal/domain"
	"gp-immo/internal/feature/assignment"
	httpez "gp-immo/internal/transport/http/ez"
	mdw "gp-immo/internal/transport/http/middleware"
)

// AssignmentHandler prestataire 关联、任务与干预报告
type AssignmentHandler struct {
	assignments *assignment.Service
	log         *zap.Logger
}

func NewAssignmentHandler(s *assignment.Service, l *zap.Logger) *AssignmentHandler {
	return &AssignmentHandler{assignments: s, log: l}
}

func (h *AssignmentHandler) Priority() int { return 30 }

type limitQ struct {
	Limit int `form:"limit,default=0"`
}

func (h *AssignmentHandler) deactivate() httpez.Action[struct{}, *domain.Assignment] {
	return httpez.Action[struct{}, *domain.Assignment]{
		Method: http.MethodPost,
		Path:   "/assignments/:id/deactivate",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Assignment, error) {
			return h.assignments.Deactivate(c.Request.Context(), mdw.CurrentUser(c), c.Param("id"))
		},
	}
}

func (h *AssignmentHandler) MountAPI(_, authed *gin.RouterGroup) {
	ez := httpez.New(authed, h.log)

	httpez.RegisterAction[struct{}, []domain.User](ez, httpez.Action[struct{}, []domain.User]{
		Method: http.MethodGet,
		Path:   "/assignments/providers",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.User, error) {
			return h.assignments.ProviderOptions(c.Request.Context())
		},
	})

	httpez.RegisterAction[struct{}, []domain.Assignment](ez, httpez.Action[struct{}, []domain.Assignment]{
		Method: http.MethodGet,
		Path:   "/assignments",
		Binder: httpez.BindNone,
		Auth:   true,
		Roles:  []domain.Role{domain.RoleOwner},
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Assignment, error) {
			return h.assignments.OwnerAssignments(c.Request.Context(), mdw.CurrentUser(c))
		},
	})

	type assignIn struct {
		ProviderID string `json:"providerId" binding:"required"`
	}
	httpez.RegisterAction[assignIn, *domain.Assignment](ez, httpez.Action[assignIn, *domain.Assignment]{
		Method: http.MethodPost,
		Path:   "/properties/:id/assignments",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *assignIn) (*domain.Assignment, error) {
			return h.assignments.Assign(c.Request.Context(), mdw.CurrentUser(c), c.Param("id"), in.ProviderID)
		},
	})

	httpez.RegisterAction[struct{}, *domain.Assignment](ez, h.deactivate())

	httpez.RegisterAction[struct{}, []domain.Assignment](ez, httpez.Action[struct{}, []domain.Assignment]{
		Method: http.MethodGet,
		Path:   "/missions",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Assignment, error) {
			return h.assignments.ActiveMissions(c.Request.Context(), mdw.CurrentUser(c).ID)
		},
	})

	// 报告
	httpez.RegisterAction[limitQ, []domain.InterventionReport](ez, httpez.Action[limitQ, []domain.InterventionReport]{
		Method: http.MethodGet,
		Path:   "/reports",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *limitQ) ([]domain.InterventionReport, error) {
			return h.assignments.Reports(c.Request.Context(), mdw.CurrentUser(c), in.Limit)
		},
	})

	httpez.RegisterAction[struct{}, []domain.Property](ez, httpez.Action[struct{}, []domain.Property]{
		Method: http.MethodGet,
		Path:   "/reports/properties",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Property, error) {
			return h.assignments.AssignableProperties(c.Request.Context(), mdw.CurrentUser(c).ID)
		},
	})

	type reportIn struct {
		PropertyID string `form:"propertyId"`
		Summary    string `form:"summary"`
	}
	httpez.RegisterAction[reportIn, *domain.InterventionReport](ez, httpez.Action[reportIn, *domain.InterventionReport]{
		Method: http.MethodPost,
		Path:   "/reports",
		Binder: httpez.BindForm,
		Auth:   true,
		Handler: func(c *gin.Context, in *reportIn) (*domain.InterventionReport, error) {
			att, err := httpez.FormFile(c, "attachment")
			if err != nil {
				return nil, err
			}
			return h.assignments.SubmitReport(c.Request.Context(), mdw.CurrentUser(c), assignment.ReportInput{
				PropertyID: in.PropertyID,
				Summary:    in.Summary,
				Attachment: att,
			})
		},
	})
}

// MountAdmin staff 可停用任意关联
func (h *AssignmentHandler) MountAdmin(admin *gin.RouterGroup) {
	httpez.RegisterAction[struct{}, *domain.Assignment](httpez.New(admin, h.log), h.deactivate())
}
