package response

import (
	"context"
	"encoding/json"
	"net/http"

	"expense-tracker/internal/pkg/log"
	"expense-tracker/internal/pkg/trace"
	"expense-tracker/internal/pkg/xerrors"
)

// ErrorBody 错误响应体
// 客户端只读取 message 字段，其余字段用于排查
type ErrorBody struct {
	Message string            `json:"message"`
	Code    int               `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
	TraceID string            `json:"trace_id,omitempty"`
}

// Writer 统一的响应写入接口
type Writer interface {
	WriteJSON(ctx context.Context, w http.ResponseWriter, data any, statusCode int) error
	WriteError(ctx context.Context, w http.ResponseWriter, err error) error
}

// JSONWriter 以原始 JSON 形式写响应，不做信封包装
type JSONWriter struct {
	logger log.Logger
}

// NewJSONWriter 创建 JSONWriter
func NewJSONWriter(logger log.Logger) *JSONWriter {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &JSONWriter{logger: logger}
}

// WriteJSON 写入 JSON 响应
func (h *JSONWriter) WriteJSON(ctx context.Context, w http.ResponseWriter, data any, statusCode int) error {
	if traceID := trace.GetTraceID(ctx); traceID != "" {
		w.Header().Set(trace.HeaderRequestID, traceID)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// header 已写出，只能记录日志
		h.logger.ErrorContext(ctx, "写入JSON响应失败", log.Err(err))
		return err
	}
	return nil
}

// WriteError 将错误转换为 {message, code} 响应
func (h *JSONWriter) WriteError(ctx context.Context, w http.ResponseWriter, err error) error {
	appErr, ok := xerrors.As(err)
	if !ok {
		appErr = xerrors.NewWithError(xerrors.CodeInternalError, "internal error", err)
	}

	status := xerrors.GetHTTPStatus(appErr.Code)
	if status >= http.StatusInternalServerError {
		log.LogAppError(ctx, h.logger, "请求处理失败", appErr)
	} else {
		h.logger.DebugContext(ctx, "请求被拒绝",
			log.Int("code", int(appErr.Code)),
			log.Int("status", status))
	}

	body := ErrorBody{
		Message: appErr.Message,
		Code:    int(appErr.Code),
		Fields:  appErr.Fields,
		TraceID: trace.GetTraceID(ctx),
	}
	if status >= http.StatusInternalServerError {
		// 不向调用方暴露内部错误细节
		body.Message = xerrors.CodeInternalError.Message()
	}
	return h.WriteJSON(ctx, w, body, status)
}
