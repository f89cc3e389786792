package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("CFG_TEST_VALUE", "  hello ")
	assert.Equal(t, "hello", GetEnvOrDefault("CFG_TEST_VALUE", "x"))
	assert.Equal(t, "x", GetEnvOrDefault("CFG_TEST_MISSING", "x"))
}

func TestTypedGettersFallBack(t *testing.T) {
	t.Setenv("CFG_INT", "abc")
	t.Setenv("CFG_DUR", "-3s")
	t.Setenv("CFG_CHOICE", "weird")

	assert.Equal(t, 7, GetIntOrDefault("CFG_INT", 7))
	assert.Equal(t, 2*time.Second, GetDurationOrDefault("CFG_DUR", 2*time.Second))
	assert.Equal(t, "a", GetChoiceOrDefault("CFG_CHOICE", "a", "a", "b"))

	t.Setenv("CFG_INT", "3")
	t.Setenv("CFG_DUR", "1m")
	t.Setenv("CFG_CHOICE", "B")
	assert.Equal(t, 3, GetIntOrDefault("CFG_INT", 7))
	assert.Equal(t, time.Minute, GetDurationOrDefault("CFG_DUR", 0))
	assert.Equal(t, "b", GetChoiceOrDefault("CFG_CHOICE", "a", "a", "b"))
}

func TestLoadClientDefaults(t *testing.T) {
	for _, k := range []string{"BACKEND_URL", "AUTH_OTP_POLICY", "AUTH_HTTP_TIMEOUT", "SESSION_STORE", "AUTH_LANG"} {
		t.Setenv(k, "")
	}
	cfg := LoadClient()
	assert.Equal(t, "http://localhost:8080", cfg.BackendURL)
	assert.Equal(t, OTPPolicyGate, cfg.OTPPolicy)
	assert.Equal(t, time.Duration(0), cfg.HTTPTimeout)
	assert.Equal(t, SessionStoreFile, cfg.SessionStore)
	assert.Equal(t, "en", cfg.Language)
}

func TestLoadClientOverrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://api.test")
	t.Setenv("AUTH_OTP_POLICY", "advisory")
	t.Setenv("AUTH_HTTP_TIMEOUT", "15s")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_DB", "2")

	cfg := LoadClient()
	assert.Equal(t, "http://api.test", cfg.BackendURL)
	assert.Equal(t, OTPPolicyAdvisory, cfg.OTPPolicy)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, SessionStoreRedis, cfg.SessionStore)
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("CFG_DOTENV_A=from-file\nCFG_DOTENV_B=file-b\n"), 0o600))

	t.Setenv("CFG_DOTENV_A", "from-env")
	t.Setenv("CFG_DOTENV_B", "")
	os.Unsetenv("CFG_DOTENV_B")
	t.Cleanup(func() { os.Unsetenv("CFG_DOTENV_B") })

	LoadDotEnv(file)
	assert.Equal(t, "from-env", os.Getenv("CFG_DOTENV_A"))
	assert.Equal(t, "file-b", os.Getenv("CFG_DOTENV_B"))
}

func TestGetListOrDefault(t *testing.T) {
	assert.Nil(t, GetListOrDefault("CFG_LIST_UNSET", nil))

	t.Setenv("CFG_LIST", " http://a.test , ,http://b.test ")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, GetListOrDefault("CFG_LIST", nil))

	t.Setenv("CFG_LIST", " , ")
	assert.Equal(t, []string{"*"}, GetListOrDefault("CFG_LIST", []string{"*"}))
}

func TestSanitizeConfigForLog(t *testing.T) {
	out := SanitizeConfigForLog(map[string]any{
		"redis_password": "p@ss",
		"fixed_otp":      "",
		"backend_url":    "http://x",
	})
	assert.Equal(t, "***REDACTED***", out["redis_password"])
	assert.Equal(t, "", out["fixed_otp"])
	assert.Equal(t, "http://x", out["backend_url"])
}
