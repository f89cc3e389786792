package xerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxonomyKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
		code ErrorCode
	}{
		{"validation", NewValidationError(map[string]string{"email": "bad"}), KindValidation, CodeInvalidParams},
		{"request failed", NewRequestFailed("sign-in", 401, "nope"), KindRequestFailed, CodeRequestFailed},
		{"network", NewNetworkError("send-otp", errors.New("dial tcp: refused")), KindNetwork, CodeNetworkError},
		{"malformed", NewMalformedResponse("sign-in", errors.New("eof")), KindNetwork, CodeMalformedResponse},
		{"local", FromCode(CodeOperationInProgress), KindLocal, CodeOperationInProgress},
		{"plain", errors.New("boom"), KindUnknown, CodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.Equal(t, tt.code, CodeOf(tt.err))
		})
	}
}

func TestAsThroughWrapping(t *testing.T) {
	base := NewRequestFailed("sign-up", 409, "Email already registered")
	wrapped := fmt.Errorf("submit: %w", base)

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.Status)
	assert.Equal(t, "Email already registered", appErr.BackendMessage)
	assert.True(t, IsRequestFailed(wrapped))
	assert.True(t, Is(wrapped, CodeRequestFailed))
}

func TestNewValidationErrorCopiesFields(t *testing.T) {
	fields := map[string]string{"name": "too short"}
	appErr := NewValidationError(fields)
	fields["name"] = "mutated"

	assert.Equal(t, "too short", appErr.Fields["name"])
	assert.Equal(t, []string{"name"}, appErr.FieldNames())
}

func TestWrapKeepsExistingAppError(t *testing.T) {
	orig := FromCode(CodeStorageError)
	assert.Same(t, orig, Wrap(orig, CodeInternalError, "ignored"))
	assert.Nil(t, Wrap(nil, CodeInternalError, "ignored"))

	w := Wrap(errors.New("disk full"), CodeStorageError, "write session")
	assert.Equal(t, CodeStorageError, w.Code)
	assert.NotEmpty(t, w.File)
}

func TestRetryableAndStatus(t *testing.T) {
	assert.True(t, FromCode(CodeNetworkError).Retryable)
	assert.False(t, FromCode(CodeRequestFailed).Retryable)
	assert.Equal(t, 409, GetHTTPStatus(CodeUserAlreadyExists))
	assert.Equal(t, 401, GetHTTPStatus(CodeOTPInvalid))
	assert.Equal(t, 400, GetHTTPStatus(CodeInvalidParams))
}
