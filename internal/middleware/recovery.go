package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"expense-tracker/internal/pkg/log"
	"expense-tracker/internal/pkg/response"
	"expense-tracker/internal/pkg/xerrors"

	"github.com/labstack/echo/v4"
)

const maxStackBytes = 4 << 10

// RecoveryMiddleware 处理器 panic 时返回 500，panic 内容只进日志
func RecoveryMiddleware(respWriter response.Writer, logger log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				ctx := c.Request().Context()
				stack := debug.Stack()
				if len(stack) > maxStackBytes {
					stack = stack[:maxStackBytes]
				}
				logger.ErrorContext(ctx, "处理器 panic",
					log.Any("panic_value", r),
					log.String("route", c.Path()),
					log.String("method", c.Request().Method),
					log.String("stack", string(stack)),
				)

				if c.Response().Committed {
					// 响应已开始写出，只能断开
					err = nil
					return
				}
				appErr := xerrors.FromCode(xerrors.CodeInternalError).
					WithService("auth-stub", "recovery").
					WithMetadata("route", c.Path()).
					WithMetadata("panic_value", fmt.Sprint(r))
				err = respWriter.WriteError(ctx, c.Response(), appErr)
			}()

			return next(c)
		}
	}
}
