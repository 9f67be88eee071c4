package middleware

import (
	"log/slog"
	"time"

	"budgetbook/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 请求 ID 响应头
const RequestIDHeader = "X-Request-ID"

// RequestLogger 为每个请求分配 ID，把带 request_id 的 logger 放入请求上下文，并在结束时记录访问日志
func RequestLogger(base *slog.Logger) gin.HandlerFunc {
	if base == nil {
		base = slog.Default()
	}
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("requestID", requestID)
		c.Header(RequestIDHeader, requestID)

		l := base.With("request_id", requestID)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), l))

		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if id := GetCurrentUserID(c); id > 0 {
			attrs = append(attrs, "user_id", id)
		}
		switch {
		case c.Writer.Status() >= 500:
			l.Error("请求处理失败", attrs...)
		case len(c.Errors) > 0:
			l.Warn("请求完成", append(attrs, "errors", c.Errors.String())...)
		default:
			l.Info("请求完成", attrs...)
		}
	}
}
