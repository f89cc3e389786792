// File: internal/pkg/xerrors/codes.go
package xerrors

import "fmt"

// ErrorCode 错误码类型（类型安全）
type ErrorCode int

// IsValid 检查错误码是否在预定义列表中
func (c ErrorCode) IsValid() bool {
	_, exists := codeMessages[c]
	return exists
}

// String 返回错误码的字符串表示
func (c ErrorCode) String() string {
	if msg, ok := codeMessages[c]; ok {
		return fmt.Sprintf("%d (%s)", c, msg)
	}
	return fmt.Sprintf("%d (undefined)", c)
}

// Message 返回错误码对应的消息
func (c ErrorCode) Message() string {
	if msg, ok := codeMessages[c]; ok {
		return msg
	}
	return "unknown error"
}

// -----------------------------------------------------------------------------
// 错误码统一定义，按领域分段
// -----------------------------------------------------------------------------
const (
	// 1xxxxx: 通用错误码
	CodeSuccess             ErrorCode = 100000 // 操作成功
	CodeInternalError       ErrorCode = 100001 // 内部错误
	CodeInvalidParams       ErrorCode = 100002 // 表单校验失败（ValidationError）
	CodeInvalidRequest      ErrorCode = 100003 // 请求格式错误
	CodeOperationInProgress ErrorCode = 100004 // 已有请求在进行中（Loading 互斥）
	CodeWrongMode           ErrorCode = 100005 // 当前模式不允许该操作
	CodeResourceNotFound    ErrorCode = 100006 // 路由或资源不存在
	CodeRateLimitExceeded   ErrorCode = 100007 // 请求过于频繁

	// 2xxxxx: 认证相关错误码
	CodeAuthenticationFailed ErrorCode = 200001 // 认证失败
	CodeInvalidToken         ErrorCode = 200002 // 无效令牌
	CodeInvalidCredentials   ErrorCode = 200004 // 凭据无效
	CodeSessionExpired       ErrorCode = 200007 // 会话不存在或过期
	CodeOTPRequired          ErrorCode = 200010 // 未输入验证码
	CodeOTPInvalid           ErrorCode = 200011 // 验证码错误或过期
	CodeNoOTPChallenge       ErrorCode = 200012 // 没有待验证的验证码
	CodeEmailNotVerified     ErrorCode = 200013 // 邮箱未验证

	// 4xxxxx: 用户相关错误码
	CodeUserNotFound      ErrorCode = 400001 // 用户不存在
	CodeUserAlreadyExists ErrorCode = 400002 // 用户已存在

	// 7xxxxx: 外部服务错误码
	CodeRequestFailed     ErrorCode = 700010 // 后端返回非 2xx（RequestFailed）
	CodeNetworkError      ErrorCode = 700011 // 请求未完成：超时、DNS、连接重置（NetworkError）
	CodeMalformedResponse ErrorCode = 700012 // 响应无法解析或缺少字段（NetworkError）
	CodeStorageError      ErrorCode = 700013 // 本地会话存储读写失败
	CodeCacheError        ErrorCode = 700004 // Redis 错误
	CodeMessageQueueError ErrorCode = 700005 // NATS 错误
)

// -----------------------------------------------------------------------------
// 错误消息映射（日志用，面向用户的文案走 i18n）
// -----------------------------------------------------------------------------
var codeMessages = map[ErrorCode]string{
	CodeSuccess:             "success",
	CodeInternalError:       "internal error",
	CodeInvalidParams:       "validation failed",
	CodeInvalidRequest:      "invalid request",
	CodeOperationInProgress: "operation in progress",
	CodeWrongMode:           "operation not allowed in current mode",
	CodeResourceNotFound:    "resource not found",
	CodeRateLimitExceeded:   "too many requests",

	CodeAuthenticationFailed: "authentication failed",
	CodeInvalidToken:         "invalid token",
	CodeInvalidCredentials:   "invalid credentials",
	CodeSessionExpired:       "session missing or expired",
	CodeOTPRequired:          "otp required",
	CodeOTPInvalid:           "otp invalid or expired",
	CodeNoOTPChallenge:       "no pending otp challenge",
	CodeEmailNotVerified:     "email not verified",

	CodeUserNotFound:      "user not found",
	CodeUserAlreadyExists: "user already exists",

	CodeRequestFailed:     "request failed",
	CodeNetworkError:      "network error",
	CodeMalformedResponse: "malformed response",
	CodeStorageError:      "session storage error",
	CodeCacheError:        "cache error",
	CodeMessageQueueError: "message queue error",
}

// GetHTTPStatus 根据业务错误码获取HTTP状态码（stub 后端使用）
func GetHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeSuccess:
		return 200
	case CodeInvalidParams, CodeInvalidRequest, CodeOTPRequired:
		return 400
	case CodeAuthenticationFailed, CodeInvalidToken, CodeInvalidCredentials, CodeSessionExpired, CodeOTPInvalid:
		return 401
	case CodeEmailNotVerified:
		return 403
	case CodeUserNotFound, CodeResourceNotFound:
		return 404
	case CodeUserAlreadyExists:
		return 409
	case CodeRateLimitExceeded:
		return 429
	}
	switch {
	case code >= 700000:
		return 503
	default:
		return 500
	}
}

// getCategoryByCode 根据错误码获取分类
func getCategoryByCode(code ErrorCode) string {
	switch {
	case code >= 100000 && code < 200000:
		return "system"
	case code >= 200000 && code < 300000:
		return "authentication"
	case code >= 400000 && code < 500000:
		return "user"
	case code >= 700000 && code < 800000:
		return "external"
	default:
		return "unknown"
	}
}

// getLevelByCode 根据错误码获取级别
func getLevelByCode(code ErrorCode) ErrorLevel {
	switch {
	case code == CodeSuccess:
		return LevelInfo
	case code >= 100002 && code <= 100007:
		return LevelWarn
	case code >= 200000 && code < 500000:
		return LevelWarn
	case code == CodeStorageError:
		return LevelCritical
	default:
		return LevelError
	}
}

// isRetryableByCode 根据错误码判断用户是否可以原样重试
// 流程中不会自动重试，这个标记只用于日志和界面提示
func isRetryableByCode(code ErrorCode) bool {
	switch code {
	case CodeInternalError, CodeNetworkError, CodeMalformedResponse, CodeCacheError, CodeMessageQueueError:
		return true
	}
	return false
}
