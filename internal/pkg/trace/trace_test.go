package trace

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnsureKeepsExistingTraceID(t *testing.T) {
	ctx := WithTraceID(context.Background(), "abc")
	got, id := Ensure(ctx)
	assert.Equal(t, "abc", id)
	assert.Equal(t, "abc", GetTraceID(got))
}

func TestEnsureGeneratesTraceID(t *testing.T) {
	ctx, id := Ensure(context.Background())
	assert.Len(t, id, 32)
	assert.Equal(t, id, GetTraceID(ctx))
}

func TestExtractFromHeader(t *testing.T) {
	h := http.Header{}
	h.Set(HeaderRequestID, "req-1")
	assert.Equal(t, "req-1", ExtractFromHeader(h))

	h = http.Header{}
	h.Set("Traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", ExtractFromHeader(h))

	assert.Len(t, ExtractFromHeader(http.Header{}), 32)
}
