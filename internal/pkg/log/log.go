package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"expense-tracker/internal/pkg/ctxkey"
	"expense-tracker/internal/pkg/xerrors"
)

// Logger 由使用方依赖的日志接口
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, err error, args ...any)

	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)

	With(args ...any) Logger
	WithGroup(name string) Logger
}

// 这些键的值一律不落日志
var secretKeys = map[string]struct{}{
	"password":         {},
	"confirm_password": {},
	"token":            {},
	"authorization":    {},
}

const masked = "[hidden]"

var (
	mu      sync.RWMutex
	current Logger
)

// Init 输出到 stdout
func Init(level slog.Level, environment string) {
	InitWithWriter(os.Stdout, level, environment)
}

// InitWithWriter 安装全局 logger。production 输出 JSON，其余环境输出带源码位置的文本。
// 终端客户端传入日志文件，避免打乱界面。
func InitWithWriter(w io.Writer, level slog.Level, environment string) {
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: hideSecrets}
	var h slog.Handler
	if environment == "production" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		opts.AddSource = true
		h = slog.NewTextHandler(w, opts)
	}

	sl := slog.New(NewContextHandler(h))
	mu.Lock()
	current = &slogLogger{l: sl}
	mu.Unlock()
	slog.SetDefault(sl)
}

// GetLogger 返回全局 logger，未初始化时按 info/development 初始化
func GetLogger() Logger {
	mu.RLock()
	l := current
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(slog.LevelInfo, "development")
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// NewLogger 包装任意 handler，同样附加上下文字段
func NewLogger(h slog.Handler) Logger {
	return &slogLogger{l: slog.New(NewContextHandler(h))}
}

// Discard 测试用
func Discard() Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel 无法识别时返回 Info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func hideSecrets(_ []string, a slog.Attr) slog.Attr {
	if _, ok := secretKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, masked)
	}
	return a
}

type slogLogger struct {
	l *slog.Logger
}

func (s *slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s *slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }

func (s *slogLogger) Error(msg string, err error, args ...any) {
	s.l.Error(msg, append(args, Err(err))...)
}

func (s *slogLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	s.l.DebugContext(ctx, msg, args...)
}

func (s *slogLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	s.l.InfoContext(ctx, msg, args...)
}

func (s *slogLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	s.l.WarnContext(ctx, msg, args...)
}

func (s *slogLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.l.ErrorContext(ctx, msg, args...)
}

func (s *slogLogger) With(args ...any) Logger { return &slogLogger{l: s.l.With(args...)} }

func (s *slogLogger) WithGroup(name string) Logger { return &slogLogger{l: s.l.WithGroup(name)} }

// ContextHandler 从 context 取 trace_id 与 operation 附到每条记录
type ContextHandler struct {
	next slog.Handler
}

func NewContextHandler(next slog.Handler) *ContextHandler {
	return &ContextHandler{next: next}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, k := range []ctxkey.ContextKey{ctxkey.TraceID, ctxkey.Operation} {
		if v := ctxkey.GetString(ctx, k); v != "" {
			r.AddAttrs(slog.String(string(k), v))
		}
	}
	return h.next.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{next: h.next.WithGroup(name)}
}

// LogAppError 按 AppError 的级别选择日志级别，错误本身经 LogValue 展开
func LogAppError(ctx context.Context, logger Logger, msg string, appErr *xerrors.AppError) {
	if logger == nil {
		logger = GetLogger()
	}
	attr := slog.Any("app_error", appErr)
	switch appErr.Level {
	case xerrors.LevelCritical, xerrors.LevelError:
		logger.ErrorContext(ctx, msg, attr)
	case xerrors.LevelWarn:
		logger.WarnContext(ctx, msg, attr)
	default:
		logger.InfoContext(ctx, msg, attr)
	}
}

func String(key, value string) slog.Attr { return slog.String(key, value) }

func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

func Int64(key string, value int64) slog.Attr { return slog.Int64(key, value) }

func Bool(key string, value bool) slog.Attr { return slog.Bool(key, value) }

func Any(key string, value any) slog.Attr { return slog.Any(key, value) }

// Err 统一使用 "error" 键
func Err(err error) slog.Attr { return slog.Any("error", err) }

// Duration 毫秒数，key 由调用方给出完整名称
func Duration(key string, ms int64) slog.Attr { return slog.Int64(key, ms) }
