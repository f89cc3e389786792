package response

import (
	"net/http"

	"expense-tracker/internal/pkg/xerrors"

	"github.com/labstack/echo/v4"
)

// Echo 框架适配器 - 简化 Echo Handler 中的响应处理

// Message 仅包含 message 字段的成功响应
type Message struct {
	Message string `json:"message"`
}

// EchoOK Echo 200 响应
func EchoOK(c echo.Context, h Writer, data any) error {
	return h.WriteJSON(c.Request().Context(), c.Response(), data, http.StatusOK)
}

// EchoCreated Echo 201 响应
func EchoCreated(c echo.Context, h Writer, data any) error {
	return h.WriteJSON(c.Request().Context(), c.Response(), data, http.StatusCreated)
}

// EchoMessage Echo 200 {message} 响应
func EchoMessage(c echo.Context, h Writer, message string) error {
	return EchoOK(c, h, Message{Message: message})
}

// EchoError Echo 错误响应
func EchoError(c echo.Context, h Writer, err error) error {
	return h.WriteError(c.Request().Context(), c.Response(), err)
}

// EchoBadRequest Echo 400 错误响应
func EchoBadRequest(c echo.Context, h Writer, message string) error {
	return EchoError(c, h, xerrors.New(xerrors.CodeInvalidRequest, message))
}

// EchoUnauthorized Echo 401 错误响应
func EchoUnauthorized(c echo.Context, h Writer, message string) error {
	return EchoError(c, h, xerrors.New(xerrors.CodeInvalidToken, message))
}
