// Package validation 提供通用的路径参数校验中间件
package validation

import (
	"expense-tracker/internal/pkg/xerrors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// IsValidUUID 检查字符串是否是有效的 UUID
func IsValidUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// UUIDParamMiddleware 校验指定路径参数为 UUID，不合法时返回 400
// 未出现在路由中的参数忽略
func UUIDParamMiddleware(names ...string) echo.MiddlewareFunc {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, name := range c.ParamNames() {
				if !want[name] {
					continue
				}
				if value := c.Param(name); value != "" && !IsValidUUID(value) {
					return xerrors.New(xerrors.CodeInvalidRequest, "Invalid "+name).
						WithMetadata("param", name)
				}
			}
			return next(c)
		}
	}
}
