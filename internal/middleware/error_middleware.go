package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"expense-tracker/internal/pkg/log"
	"expense-tracker/internal/pkg/response"
	"expense-tracker/internal/pkg/xerrors"

	"github.com/labstack/echo/v4"
)

// ErrorMiddleware 处理器返回的错误统一写成 {message, code}
func ErrorMiddleware(respWriter response.Writer, logger log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil || c.Response().Committed {
				return err
			}
			return respWriter.WriteError(c.Request().Context(), c.Response(), toAppError(c, err, logger))
		}
	}
}

// HTTPErrorHandler 替换 echo 默认的错误处理器。
// 限流等 echo 内置中间件通过 c.Error 上报，不经过 ErrorMiddleware。
func HTTPErrorHandler(respWriter response.Writer, logger log.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}
		ctx := c.Request().Context()
		if werr := respWriter.WriteError(ctx, c.Response(), toAppError(c, err, logger)); werr != nil {
			logger.WarnContext(ctx, "写入错误响应失败", log.Err(werr))
		}
	}
}

func toAppError(c echo.Context, err error, logger log.Logger) *xerrors.AppError {
	var appErr *xerrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return convertEchoError(httpErr)
	}
	logger.ErrorContext(c.Request().Context(), "未处理的错误",
		log.Err(err),
		log.String("error_type", fmt.Sprintf("%T", err)),
	)
	return xerrors.NewWithError(xerrors.CodeInternalError, "internal error", err).
		WithService("auth-stub", "error_handler")
}

// convertEchoError 将 Echo 错误转换为业务错误
func convertEchoError(echoErr *echo.HTTPError) *xerrors.AppError {
	message := fmt.Sprintf("%v", echoErr.Message)

	var code xerrors.ErrorCode
	switch echoErr.Code {
	case http.StatusBadRequest, http.StatusUnsupportedMediaType:
		code = xerrors.CodeInvalidRequest
	case http.StatusUnauthorized:
		code = xerrors.CodeInvalidToken
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		code = xerrors.CodeResourceNotFound
	case http.StatusTooManyRequests:
		code = xerrors.CodeRateLimitExceeded
	default:
		return xerrors.FromCode(xerrors.CodeInternalError).
			WithMetadata("echo_code", fmt.Sprintf("%d", echoErr.Code)).
			WithMetadata("echo_message", message)
	}
	return xerrors.New(code, message)
}
