// File: internal/pkg/ctxkey/ctxkey.go
package ctxkey

import "context"

// ContextKey 统一的 context key 类型
type ContextKey string

const (
	// Language 界面语言偏好
	Language ContextKey = "language"

	// TraceID 请求追踪 ID（客户端发起请求时生成，随 X-Request-ID 透传给后端）
	TraceID ContextKey = "trace_id"

	// RequestID 单次 HTTP 请求 ID
	RequestID ContextKey = "request_id"

	// UserID 已登录用户 ID（仪表盘请求使用）
	UserID ContextKey = "user_id"

	// Operation 当前认证流程步骤，例如 sign-in / send-otp
	Operation ContextKey = "operation"
)

// WithValue 在 context 中设置指定 key 的值
func WithValue(ctx context.Context, key ContextKey, value interface{}) context.Context {
	return context.WithValue(ctx, key, value)
}

// GetString 从 context 中获取字符串类型的值
func GetString(ctx context.Context, key ContextKey) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(key).(string); ok {
		return value
	}
	return ""
}
