package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	resp "gp-immo/internal/transport/http/response"
)

// Timeout 给请求 context 设截止时间；multipart 上传用更宽松的 upload
func Timeout(d, upload time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := d
		if upload > 0 && strings.HasPrefix(c.ContentType(), "multipart/") {
			limit = upload
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), limit)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			resp.Abort(c, resp.CodeTimeout, "")
		}
	}
}
