// File: internal/pkg/trace/trace.go
package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"expense-tracker/internal/pkg/ctxkey"
)

// HeaderRequestID 客户端与 stub 后端之间透传的追踪头
const HeaderRequestID = "X-Request-ID"

// WithTraceID 在 context 中设置 trace ID
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return ctxkey.WithValue(ctx, ctxkey.TraceID, traceID)
}

// GetTraceID 从 context 中获取 trace ID
func GetTraceID(ctx context.Context) string {
	return ctxkey.GetString(ctx, ctxkey.TraceID)
}

// Ensure 如果 context 中没有 trace ID 则生成一个，返回新的 context 和 trace ID
func Ensure(ctx context.Context) (context.Context, string) {
	if id := GetTraceID(ctx); id != "" {
		return ctx, id
	}
	id := GenerateTraceID()
	return WithTraceID(ctx, id), id
}

// GenerateTraceID 生成新的 trace ID
// 格式: 32 个字符的十六进制字符串 (类似 OpenTelemetry trace ID)
func GenerateTraceID() string {
	b := make([]byte, 16) // 128 bits
	if _, err := rand.Read(b); err != nil {
		// 降级到基于时间的 ID
		return fmt.Sprintf("%032x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// ExtractFromHeader 从 HTTP 头部提取 trace ID
// 支持：X-Trace-Id, X-Request-Id, Traceparent (W3C)，都没有时生成新的
func ExtractFromHeader(headers http.Header) string {
	if traceID := headers.Get("X-Trace-Id"); traceID != "" {
		return traceID
	}
	if requestID := headers.Get(HeaderRequestID); requestID != "" {
		return requestID
	}
	if traceparent := headers.Get("Traceparent"); traceparent != "" {
		if traceID := parseTraceparent(traceparent); traceID != "" {
			return traceID
		}
	}
	return GenerateTraceID()
}

// parseTraceparent 解析 W3C Traceparent 头部
// 格式: "00-<trace-id>-<parent-id>-<flags>"
func parseTraceparent(traceparent string) string {
	if len(traceparent) < 55 {
		return ""
	}
	if traceparent[2] == '-' && traceparent[35] == '-' {
		return traceparent[3:35]
	}
	return ""
}
