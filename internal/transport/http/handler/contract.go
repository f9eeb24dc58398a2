package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gp-immo/internal/domain"
	"gp-immo/internal/feature/contract"
	httpez "gp-immo/internal/transport/http/ez"
	mdw "gp-immo/internal/transport/http/middleware"
)

const dateLayout = "2006-01-02"

// ContractHandler 租约与付款
type ContractHandler struct {
	contracts *contract.Service
	log       *zap.Logger
}

func NewContractHandler(s *contract.Service, l *zap.Logger) *ContractHandler {
	return &ContractHandler{contracts: s, log: l}
}

func (h *ContractHandler) Priority() int { return 40 }

// parseDate 空串返回 nil
func parseDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, httpez.BadRequest(field + " must be YYYY-MM-DD")
	}
	return &t, nil
}

func (h *ContractHandler) MountAPI(_, authed *gin.RouterGroup) {
	ez := httpez.New(authed, h.log)

	httpez.RegisterAction[limitQ, []domain.Contract](ez, httpez.Action[limitQ, []domain.Contract]{
		Method: http.MethodGet,
		Path:   "/contracts",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *limitQ) ([]domain.Contract, error) {
			return h.contracts.Contracts(c.Request.Context(), mdw.CurrentUser(c), in.Limit)
		},
	})

	httpez.RegisterAction[struct{}, []domain.Property](ez, httpez.Action[struct{}, []domain.Property]{
		Method: http.MethodGet,
		Path:   "/contracts/options",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Property, error) {
			return h.contracts.ContractOptions(c.Request.Context(), mdw.CurrentUser(c))
		},
	})

	type contractIn struct {
		PropertyID string                `json:"propertyId"`
		TenantName string                `json:"tenantName"`
		StartDate  string                `json:"startDate"`
		EndDate    string                `json:"endDate"`
		Rent       float64               `json:"rent"`
		Status     domain.ContractStatus `json:"status"`
	}
	httpez.RegisterAction[contractIn, *domain.Contract](ez, httpez.Action[contractIn, *domain.Contract]{
		Method: http.MethodPost,
		Path:   "/contracts",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *contractIn) (*domain.Contract, error) {
			start, err := parseDate("startDate", in.StartDate)
			if err != nil {
				return nil, err
			}
			end, err := parseDate("endDate", in.EndDate)
			if err != nil {
				return nil, err
			}
			ci := contract.ContractInput{
				PropertyID: in.PropertyID,
				TenantName: in.TenantName,
				EndDate:    end,
				Rent:       in.Rent,
				Status:     in.Status,
			}
			if start != nil {
				ci.StartDate = *start
			}
			return h.contracts.CreateContract(c.Request.Context(), mdw.CurrentUser(c), ci)
		},
	})

	// 付款
	httpez.RegisterAction[limitQ, []domain.Payment](ez, httpez.Action[limitQ, []domain.Payment]{
		Method: http.MethodGet,
		Path:   "/payments",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *limitQ) ([]domain.Payment, error) {
			return h.contracts.Payments(c.Request.Context(), mdw.CurrentUser(c), in.Limit)
		},
	})

	httpez.RegisterAction[struct{}, contract.PaymentOptions](ez, httpez.Action[struct{}, contract.PaymentOptions]{
		Method: http.MethodGet,
		Path:   "/payments/options",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (contract.PaymentOptions, error) {
			return h.contracts.PaymentOptions(c.Request.Context(), mdw.CurrentUser(c))
		},
	})

	type paymentIn struct {
		ContractID  *string              `json:"contractId"`
		PropertyID  *string              `json:"propertyId"`
		ProviderID  *string              `json:"providerId"`
		Amount      float64              `json:"amount"`
		DueDate     string               `json:"dueDate"`
		Status      domain.PaymentStatus `json:"status"`
		PaymentType domain.PaymentType   `json:"paymentType"`
	}
	httpez.RegisterAction[paymentIn, *domain.Payment](ez, httpez.Action[paymentIn, *domain.Payment]{
		Method: http.MethodPost,
		Path:   "/payments",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *paymentIn) (*domain.Payment, error) {
			due, err := parseDate("dueDate", in.DueDate)
			if err != nil {
				return nil, err
			}
			return h.contracts.CreatePayment(c.Request.Context(), mdw.CurrentUser(c), contract.PaymentInput{
				ContractID:  in.ContractID,
				PropertyID:  in.PropertyID,
				ProviderID:  in.ProviderID,
				Amount:      in.Amount,
				DueDate:     due,
				Status:      in.Status,
				PaymentType: in.PaymentType,
			})
		},
	})
}
