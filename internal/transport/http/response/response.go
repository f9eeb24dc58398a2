package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Resp 统一信封 {code,msg,data}
type Resp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

// New data 为 nil 时输出 {}，前端不用判空
func New(code int, msg string, data any) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

func OK(data any) Resp { return New(CodeOK, Msg(CodeOK), data) }

// Error msg 为空时用默认文案
func Error(code int, msg string) Resp {
	if msg == "" {
		msg = Msg(code)
	}
	return New(code, msg, nil)
}

// KeyCode gin.Context 上记录的失败业务码，访问日志与指标读取
const KeyCode = "code"

// Fail 写失败信封
func Fail(c *gin.Context, code int, msg string) {
	c.Set(KeyCode, code)
	c.JSON(http.StatusOK, Error(code, msg))
}

// Abort 中间件里提前结束请求
func Abort(c *gin.Context, code int, msg string) {
	c.Set(KeyCode, code)
	c.AbortWithStatusJSON(http.StatusOK, Error(code, msg))
}
