package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gp-immo/internal/domain"
	mdw "gp-immo/internal/transport/http/middleware"
	resp "gp-immo/internal/transport/http/response"
)

// EZ 在一个路由分组上注册 Action
type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindForm  Binder = "form"  // multipart / urlencoded 表单字段，文件另取
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// AErr 传输层自己的错误（参数缺失、未登录等）
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// Action I 入参，O 出参
type Action[I any, O any] struct {
	Method  string        // "GET" | "POST" | "PUT" | "DELETE"
	Path    string        // 例："/properties/:id/media"
	Binder  Binder        // 绑定方式
	Auth    bool          // 是否要求登录（检查当前用户）
	Roles   []domain.Role // 限定角色（可选）
	Handler func(c *gin.Context, in *I) (O, error)
}

// Classify 把错误映射成 (code, msg)；基础设施错误不外泄
func Classify(err error) (int, string) {
	var ae *AErr
	var ve *domain.ValidationError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return resp.CodeTooLarge, resp.Msg(resp.CodeTooLarge)
	case errors.As(err, &ae):
		if ae.Code == resp.CodeServerError {
			return resp.CodeServerError, resp.Msg(resp.CodeServerError)
		}
		return ae.Code, ae.Error()
	case errors.Is(err, domain.ErrForbidden):
		return resp.CodeForbidden, resp.Msg(resp.CodeForbidden)
	case errors.Is(err, domain.ErrNotFound):
		return resp.CodeNotFound, resp.Msg(resp.CodeNotFound)
	case errors.As(err, &ve):
		return resp.CodeBadRequest, ve.Reason
	default:
		return resp.CodeServerError, resp.Msg(resp.CodeServerError)
	}
}

func (e EZ) fail(c *gin.Context, err error) {
	code, msg := Classify(err)
	if code == resp.CodeServerError {
		e.log.Error("action failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.Error(err))
	}
	resp.Fail(c, code, msg)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		if a.Auth {
			u := mdw.CurrentUser(c)
			if u == nil {
				e.fail(c, Unauthorized(resp.Msg(resp.CodeUnauthorized)))
				return
			}
			if len(a.Roles) > 0 && !hasRole(u.Role, a.Roles) {
				e.fail(c, domain.ErrForbidden)
				return
			}
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		case BindForm:
			bindErr = c.ShouldBind(&in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			var tooLarge *http.MaxBytesError
			if !errors.As(bindErr, &tooLarge) {
				bindErr = &AErr{Code: resp.CodeBadRequest, Msg: bindErr.Error(), Err: bindErr}
			}
			e.fail(c, bindErr)
			return
		}

		// 3) 执行 + 统一错误映射
		out, err := a.Handler(c, &in)
		if err != nil {
			e.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

func hasRole(r domain.Role, allowed []domain.Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
