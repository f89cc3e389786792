package middleware

import (
	"expense-tracker/internal/pkg/trace"

	"github.com/labstack/echo/v4"
)

// TraceMiddleware 确保每个请求都有 Trace ID
// 优先使用 X-Request-ID / traceparent 请求头，缺失时生成新的 ID，并回写到响应头
func TraceMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			traceID := trace.ExtractFromHeader(req.Header)
			if traceID == "" {
				traceID = trace.GenerateTraceID()
			}

			ctx := trace.WithTraceID(req.Context(), traceID)
			c.SetRequest(req.WithContext(ctx))
			c.Response().Header().Set(trace.HeaderRequestID, traceID)

			return next(c)
		}
	}
}
