package middleware

import (
	"expense-tracker/internal/pkg/xerrors"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware 按客户端 IP 限流，perSecond 为每秒允许的请求数
// 用于发送验证码等容易被滥用的接口
func RateLimitMiddleware(perSecond float64, burst int) echo.MiddlewareFunc {
	config := middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(perSecond),
			Burst: burst,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return xerrors.FromCode(xerrors.CodeInvalidRequest).
				WithService("auth-stub", "rate_limiter").
				WithMetadata("client_ip", c.RealIP())
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return xerrors.New(xerrors.CodeRateLimitExceeded, "Too many requests. Please try again later").
				WithService("auth-stub", "rate_limiter").
				WithMetadata("client_ip", identifier)
		},
	}

	return middleware.RateLimiterWithConfig(config)
}
