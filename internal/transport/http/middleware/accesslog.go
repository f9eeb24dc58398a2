package middleware

import (
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	resp "gp-immo/internal/transport/http/response"
)

// 不记录的探活/抓取路径
var quietPaths = map[string]struct{}{"/health": {}, "/metrics": {}}

var sensitiveKeys = map[string]struct{}{
	"password": {}, "token": {}, "authorization": {}, "secret": {}, "access_token": {},
}

func maskQuery(q url.Values) map[string][]string {
	out := make(map[string][]string, len(q))
	for k, v := range q {
		if _, ok := sensitiveKeys[strings.ToLower(k)]; ok {
			out[k] = []string{"****"}
			continue
		}
		out[k] = v
	}
	return out
}

// EnvelopeCode 信封里的业务码；处理链没设置时按 HTTP 状态推断
func EnvelopeCode(c *gin.Context) int {
	if v, ok := c.Get(resp.KeyCode); ok {
		if code, ok := v.(int); ok {
			return code
		}
	}
	if s := c.Writer.Status(); s >= 400 {
		return s
	}
	return 0
}

// AccessLog 每个请求一行；业务码 4xx 记 warn，5xx 记 error
func AccessLog(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := quietPaths[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		code := EnvelopeCode(c)
		lvl := zapcore.InfoLevel
		switch {
		case code >= 500:
			lvl = zapcore.ErrorLevel
		case code >= 400:
			lvl = zapcore.WarnLevel
		}
		ce := l.Check(lvl, "http")
		if ce == nil {
			return
		}
		ce.Write(
			zap.String("rid", c.GetString(KeyRequestID)),
			zap.String("uid", c.GetString(KeyUserID)),
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Int("code", code),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.Any("query", maskQuery(c.Request.URL.Query())),
			zap.Int("size", c.Writer.Size()),
		)
	}
}
