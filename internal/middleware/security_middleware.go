package middleware

import (
	"expense-tracker/internal/pkg/trace"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// CORSMiddleware origins 为空时允许任意来源，浏览器版前端可直接调用桩服务
func CORSMiddleware(origins ...string) echo.MiddlewareFunc {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			trace.HeaderRequestID,
		},
		ExposeHeaders: []string{trace.HeaderRequestID},
	})
}

// SecurityMiddleware 基础安全响应头
func SecurityMiddleware() echo.MiddlewareFunc {
	return middleware.SecureWithConfig(middleware.SecureConfig{
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "no-referrer",
	})
}

// NoStoreMiddleware 认证与账单接口的响应带 token 或个人数据，禁止任何缓存
func NoStoreMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
			return next(c)
		}
	}
}
