package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"

	"gp-immo/pkg/utils"
)

const (
	HeaderRequestID = "X-Request-ID"
	KeyRequestID    = "requestId"
)

// 上游传入的 id 只接受短的安全字符，否则重新生成
var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if !validRequestID.MatchString(rid) {
			rid = utils.NewID()
		}
		c.Writer.Header().Set(HeaderRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Next()
	}
}
