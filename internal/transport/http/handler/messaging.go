package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gp-immo/internal/domain"
	"gp-immo/internal/feature/messaging"
	httpez "gp-immo/internal/transport/http/ez"
	mdw "gp-immo/internal/transport/http/middleware"
)

type MessagingHandler struct {
	messaging *messaging.Service
	log       *zap.Logger
}

func NewMessagingHandler(s *messaging.Service, l *zap.Logger) *MessagingHandler {
	return &MessagingHandler{messaging: s, log: l}
}

func (h *MessagingHandler) Priority() int { return 50 }

func (h *MessagingHandler) MountAPI(_, authed *gin.RouterGroup) {
	ez := httpez.New(authed, h.log)

	httpez.RegisterAction[struct{}, messaging.Inbox](ez, httpez.Action[struct{}, messaging.Inbox]{
		Method: http.MethodGet,
		Path:   "/inbox",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (messaging.Inbox, error) {
			return h.messaging.Inbox(c.Request.Context(), mdw.CurrentUser(c))
		},
	})

	httpez.RegisterAction[struct{}, []domain.Message](ez, httpez.Action[struct{}, []domain.Message]{
		Method: http.MethodGet,
		Path:   "/conversations/:userId",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Message, error) {
			return h.messaging.Conversation(c.Request.Context(), mdw.CurrentUser(c), c.Param("userId"))
		},
	})

	type sendIn struct {
		Content string             `form:"content" json:"content"`
		Kind    domain.MessageKind `form:"kind" json:"kind"`
	}
	httpez.RegisterAction[sendIn, *domain.Message](ez, httpez.Action[sendIn, *domain.Message]{
		Method: http.MethodPost,
		Path:   "/conversations/:userId",
		Binder: httpez.BindForm,
		Auth:   true,
		Handler: func(c *gin.Context, in *sendIn) (*domain.Message, error) {
			att, err := httpez.FormFile(c, "attachment")
			if err != nil {
				return nil, err
			}
			return h.messaging.Send(c.Request.Context(), mdw.CurrentUser(c), c.Param("userId"), messaging.SendInput{
				Content:    in.Content,
				Kind:       in.Kind,
				Attachment: att,
			})
		},
	})
}
