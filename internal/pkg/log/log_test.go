package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"expense-tracker/internal/pkg/ctxkey"
)

func TestContextHandlerAddsTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, nil))

	ctx := ctxkey.WithValue(context.Background(), ctxkey.TraceID, "trace-123")
	ctx = ctxkey.WithValue(ctx, ctxkey.Operation, "sign-in")
	logger.InfoContext(ctx, "hello")

	out := buf.String()
	assert.Contains(t, out, `"trace_id":"trace-123"`)
	assert.Contains(t, out, `"operation":"sign-in"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestSecretsAreHidden(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{ReplaceAttr: hideSecrets}))

	logger.Info("sign-in", String("email", "a@b.com"), String("password", "secret1"), String("token", "t1"))

	out := buf.String()
	assert.Contains(t, out, `"email":"a@b.com"`)
	assert.NotContains(t, out, "secret1")
	assert.NotContains(t, out, `"t1"`)
	assert.Contains(t, out, `"password":"[hidden]"`)
}

func TestDurationKeepsKey(t *testing.T) {
	a := Duration("duration_ms", 42)
	assert.Equal(t, "duration_ms", a.Key)
	assert.Equal(t, int64(42), a.Value.Int64())
}
