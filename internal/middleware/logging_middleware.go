package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"expense-tracker/internal/pkg/ctxkey"
	"expense-tracker/internal/pkg/log"
	"expense-tracker/internal/pkg/trace"

	"github.com/labstack/echo/v4"
)

const redacted = "***REDACTED***"

// AccessLogOptions 访问日志选项
// 认证接口的请求体带密码和验证码，这里永远不读请求体
type AccessLogOptions struct {
	// Quiet 这些路径前缀不记日志（探活、指标抓取）
	Quiet []string
	// Headers 为 true 时在 debug 级别额外记录请求头
	Headers bool
	// Redact 记录请求头时需要遮盖的头
	Redact []string
}

func defaultAccessLog() AccessLogOptions {
	return AccessLogOptions{
		Quiet:  []string{"/health", "/metrics", "/favicon.ico", "/swagger/"},
		Redact: []string{echo.HeaderAuthorization, "Cookie"},
	}
}

// LoggingMiddleware 使用默认选项的访问日志
func LoggingMiddleware(logger log.Logger) echo.MiddlewareFunc {
	return AccessLog(logger, defaultAccessLog())
}

// AccessLog 每个请求结束后记一行，级别随状态码升高
func AccessLog(logger log.Logger, opts AccessLogOptions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if hasAnyPrefix(req.URL.Path, opts.Quiet) {
				return next(c)
			}

			began := time.Now()
			if opts.Headers {
				logger.DebugContext(req.Context(), "收到请求",
					log.String("method", req.Method),
					log.String("path", req.URL.Path),
					log.Any("headers", redactHeaders(req.Header, opts.Redact)),
				)
			}

			err := next(c)

			// 处理器可能换过 request context
			ctx := c.Request().Context()
			status := c.Response().Status
			attrs := []any{
				log.String("method", req.Method),
				log.String("route", c.Path()),
				log.Int("status_code", status),
				log.Duration("duration_ms", time.Since(began).Milliseconds()),
				log.Int64("bytes", c.Response().Size),
				log.String("client_ip", c.RealIP()),
				log.String("trace_id", trace.GetTraceID(ctx)),
			}
			if uid := ctxkey.GetString(ctx, ctxkey.UserID); uid != "" {
				attrs = append(attrs, log.String("user_id", uid))
			}
			if err != nil {
				attrs = append(attrs, log.Err(err))
			}
			emitAccess(ctx, logger, status, err, attrs)
			return err
		}
	}
}

func emitAccess(ctx context.Context, logger log.Logger, status int, err error, attrs []any) {
	switch {
	case err != nil || status >= http.StatusInternalServerError:
		logger.ErrorContext(ctx, "请求失败", attrs...)
	case status == http.StatusUnauthorized || status == http.StatusTooManyRequests:
		// 401 与 429 记 warn
		logger.WarnContext(ctx, "请求被拒绝", attrs...)
	case status >= http.StatusBadRequest:
		logger.InfoContext(ctx, "请求参数有误", attrs...)
	default:
		logger.InfoContext(ctx, "请求完成", attrs...)
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func redactHeaders(h http.Header, names []string) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) == 0 {
			continue
		}
		out[k] = v[0]
		for _, n := range names {
			if strings.EqualFold(k, n) {
				out[k] = redacted
				break
			}
		}
	}
	return out
}
