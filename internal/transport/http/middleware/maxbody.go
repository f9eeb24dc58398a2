package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	resp "gp-immo/internal/transport/http/response"
)

// MaxBodyBytes 普通请求体上限 n；multipart 上传（媒体、附件）上限 upload
func MaxBodyBytes(n, upload int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := n
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			limit = upload
		}
		if c.Request.ContentLength > limit {
			resp.Abort(c, resp.CodeTooLarge, "")
			return
		}
		// 未声明长度的请求在读取时截断，由绑定层报 413
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
