package xerrors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"time"
)

// ErrorLevel 错误级别
type ErrorLevel int

const (
	LevelInfo ErrorLevel = iota
	LevelWarn
	LevelError
	LevelCritical
)

func (l ErrorLevel) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Kind 面向用户的错误分类
//
// 认证流程只区分三类：本地校验失败、后端拒绝、网络不可达。
// 其余错误码（互斥、模式不符等）归为 KindLocal。
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindRequestFailed
	KindNetwork
	KindLocal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindRequestFailed:
		return "request_failed"
	case KindNetwork:
		return "network"
	case KindLocal:
		return "local"
	default:
		return "unknown"
	}
}

// ErrorContext 出错的一侧与步骤
type ErrorContext struct {
	Service   string                 `json:"service,omitempty"`
	Operation string                 `json:"operation,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// AppError 领域错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`

	Kind     Kind       `json:"kind"`
	Level    ErrorLevel `json:"level,omitempty"`
	Category string     `json:"category,omitempty"`

	// 校验失败时的字段 -> 提示文案
	Fields map[string]string `json:"fields,omitempty"`
	// 后端返回的状态码与 message 字段（仅 RequestFailed）
	Status         int    `json:"status,omitempty"`
	BackendMessage string `json:"backend_message,omitempty"`

	Context   *ErrorContext `json:"context,omitempty"`
	Timestamp time.Time     `json:"timestamp,omitempty"`

	// 调试信息
	Stack string `json:"stack,omitempty"`
	File  string `json:"file,omitempty"`
	Line  int    `json:"line,omitempty"`

	Retryable bool `json:"retryable,omitempty"`
}

// Error 实现标准 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap 接口
func (e *AppError) Unwrap() error {
	return e.Err
}

// LogValue 实现 slog.LogValuer 接口
// 注意不输出 Fields 的取值以外的用户输入
func (e *AppError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("code", int(e.Code)),
		slog.String("message", e.Message),
		slog.String("kind", e.Kind.String()),
		slog.String("level", e.Level.String()),
		slog.String("category", e.Category),
		slog.Bool("retryable", e.Retryable),
	}
	if e.Status != 0 {
		attrs = append(attrs, slog.Int("status", e.Status))
	}
	if len(e.Fields) > 0 {
		attrs = append(attrs, slog.Any("fields", e.FieldNames()))
	}

	if e.Context != nil {
		if e.Context.Service != "" {
			attrs = append(attrs, slog.String("service", e.Context.Service))
		}
		if e.Context.Operation != "" {
			attrs = append(attrs, slog.String("operation", e.Context.Operation))
		}
	}

	if e.Err != nil {
		attrs = append(attrs, slog.Any("underlying_error", e.Err))
	}

	return slog.GroupValue(attrs...)
}

// FieldNames 返回排序后的失败字段名
func (e *AppError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// WithService 记录出错的一侧与步骤，例如 ("auth-backend", "sign-in")
func (e *AppError) WithService(service, operation string) *AppError {
	if e.Context == nil {
		e.Context = &ErrorContext{}
	}
	e.Context.Service = service
	e.Context.Operation = operation
	return e
}

// WithMetadata 添加自定义元数据
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = &ErrorContext{}
	}
	if e.Context.Metadata == nil {
		e.Context.Metadata = make(map[string]interface{})
	}
	e.Context.Metadata[key] = value
	return e
}

// New 创建新的AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Kind:      kindByCode(code),
		Level:     getLevelByCode(code),
		Category:  getCategoryByCode(code),
		Timestamp: time.Now(),
		Retryable: isRetryableByCode(code),
	}
}

// NewWithError 创建包含原始错误的 AppError
func NewWithError(code ErrorCode, message string, err error) *AppError {
	appErr := New(code, message)
	appErr.Err = err

	if pc, file, line, ok := runtime.Caller(1); ok {
		appErr.File = file
		appErr.Line = line
		if fn := runtime.FuncForPC(pc); fn != nil {
			appErr.Stack = fn.Name()
		}
	}

	return appErr
}

// FromCode 根据错误码创建 AppError
func FromCode(code ErrorCode) *AppError {
	msg, ok := codeMessages[code]
	if !ok {
		msg = codeMessages[CodeInternalError]
	}
	return New(code, msg)
}

// NewValidationError 本地表单校验失败，fields 为字段 -> 提示文案
func NewValidationError(fields map[string]string) *AppError {
	appErr := FromCode(CodeInvalidParams)
	appErr.Fields = make(map[string]string, len(fields))
	for k, v := range fields {
		appErr.Fields[k] = v
	}
	return appErr
}

// NewRequestFailed 后端可达但拒绝了请求
func NewRequestFailed(operation string, status int, backendMessage string) *AppError {
	appErr := FromCode(CodeRequestFailed).WithService("auth-backend", operation)
	appErr.Status = status
	appErr.BackendMessage = backendMessage
	return appErr
}

// NewNetworkError 请求未能完成（超时、DNS、连接重置、context 取消）
func NewNetworkError(operation string, err error) *AppError {
	appErr := FromCode(CodeNetworkError).WithService("auth-backend", operation)
	appErr.Err = err
	return appErr
}

// NewMalformedResponse 响应无法解析或缺少必须字段，归入 NetworkError
func NewMalformedResponse(operation string, err error) *AppError {
	appErr := FromCode(CodeMalformedResponse).WithService("auth-backend", operation)
	appErr.Err = err
	return appErr
}

// NewStorageError 会话存储读写失败
func NewStorageError(operation string, err error) *AppError {
	appErr := FromCode(CodeStorageError).WithService("session-store", operation)
	appErr.Err = err
	return appErr
}

// Wrap 已是 AppError 时原样返回，否则按 code 包装并记录调用位置
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return NewWithError(code, message, err)
}

// As 从错误链中取出 AppError
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf 返回错误码，非 AppError 返回 CodeInternalError，nil 返回 CodeSuccess
func CodeOf(err error) ErrorCode {
	if err == nil {
		return CodeSuccess
	}
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return CodeInternalError
}

// KindOf 返回错误分类
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindUnknown
}

// Is 判断错误链中是否包含指定错误码
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

func IsValidation(err error) bool    { return KindOf(err) == KindValidation }
func IsRequestFailed(err error) bool { return KindOf(err) == KindRequestFailed }
func IsNetwork(err error) bool       { return KindOf(err) == KindNetwork }

func kindByCode(code ErrorCode) Kind {
	switch code {
	case CodeInvalidParams:
		return KindValidation
	case CodeRequestFailed:
		return KindRequestFailed
	case CodeNetworkError, CodeMalformedResponse:
		return KindNetwork
	case CodeSuccess:
		return KindUnknown
	default:
		return KindLocal
	}
}
