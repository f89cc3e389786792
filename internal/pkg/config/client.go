package config

import (
	"time"
)

// 会话存储后端
const (
	SessionStoreFile   = "file"
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

// OTP 校验失败策略
const (
	OTPPolicyGate     = "gate"
	OTPPolicyAdvisory = "advisory"
)

// ClientConfig 终端客户端配置
type ClientConfig struct {
	BackendURL  string
	Environment string
	LogLevel    string
	LogFile     string
	Language    string
	OTPPolicy   string
	HTTPTimeout time.Duration

	SessionStore string
	SessionFile  string
	SessionTTL   time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	NatsURL     string
	NatsSubject string

	MetricsAddr string
}

// LoadClient 从环境变量（以及可选的 .env 文件）加载客户端配置
func LoadClient() ClientConfig {
	LoadDotEnv()

	return ClientConfig{
		BackendURL:  GetEnvOrDefault("BACKEND_URL", "http://localhost:8080"),
		Environment: GetEnvOrDefault("APP_ENV", "development"),
		LogLevel:    GetEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:     GetEnvOrDefault("LOG_FILE", "expense-client.log"),
		Language:    GetChoiceOrDefault("AUTH_LANG", "en", "en", "zh"),
		OTPPolicy:   GetChoiceOrDefault("AUTH_OTP_POLICY", OTPPolicyGate, OTPPolicyGate, OTPPolicyAdvisory),
		HTTPTimeout: GetDurationOrDefault("AUTH_HTTP_TIMEOUT", 0),

		SessionStore: GetChoiceOrDefault("SESSION_STORE", SessionStoreFile,
			SessionStoreFile, SessionStoreRedis, SessionStoreMemory),
		SessionFile: GetEnvOrDefault("SESSION_FILE", ".expense-session.json"),
		SessionTTL:  GetDurationOrDefault("SESSION_TTL", 0),

		RedisAddr:     GetEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: GetEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       GetIntOrDefault("REDIS_DB", 0),

		NatsURL:     GetEnvOrDefault("NATS_URL", ""),
		NatsSubject: GetEnvOrDefault("NATS_SUBJECT", "expense.client.notifications"),

		MetricsAddr: GetEnvOrDefault("METRICS_ADDR", ""),
	}
}

// LogFields 返回可安全写入日志的配置
func (c ClientConfig) LogFields() map[string]any {
	return SanitizeConfigForLog(map[string]any{
		"backend_url":    c.BackendURL,
		"environment":    c.Environment,
		"log_level":      c.LogLevel,
		"log_file":       c.LogFile,
		"language":       c.Language,
		"otp_policy":     c.OTPPolicy,
		"http_timeout":   c.HTTPTimeout.String(),
		"session_store":  c.SessionStore,
		"session_file":   c.SessionFile,
		"session_ttl":    c.SessionTTL.String(),
		"redis_addr":     c.RedisAddr,
		"redis_password": c.RedisPassword,
		"redis_db":       c.RedisDB,
		"nats_url":       c.NatsURL,
		"nats_subject":   c.NatsSubject,
		"metrics_addr":   c.MetricsAddr,
	})
}
