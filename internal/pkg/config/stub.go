package config

import "time"

// StubConfig 开发用后端桩服务配置
type StubConfig struct {
	Addr        string
	FixedOTP    string
	Environment string
	LogLevel    string
	// RedisAddr 为空时验证码保存在进程内存
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TokenTTL      time.Duration
	// OTPRatePerMinute 每个 IP 每分钟允许发送的验证码次数
	OTPRatePerMinute int
	// CleanupSchedule 过期数据清理的 cron 表达式（含秒）
	CleanupSchedule string
	// CORSOrigins 为空表示允许任意来源
	CORSOrigins []string
}

// LoadStub 加载桩服务配置
func LoadStub() StubConfig {
	LoadDotEnv()

	return StubConfig{
		Addr:             GetEnvOrDefault("STUB_ADDR", ":8080"),
		FixedOTP:         GetEnvOrDefault("STUB_FIXED_OTP", ""),
		Environment:      GetEnvOrDefault("APP_ENV", "development"),
		LogLevel:         GetEnvOrDefault("LOG_LEVEL", "info"),
		RedisAddr:        GetEnvOrDefault("STUB_REDIS_ADDR", ""),
		RedisPassword:    GetEnvOrDefault("STUB_REDIS_PASSWORD", ""),
		RedisDB:          GetIntOrDefault("STUB_REDIS_DB", 0),
		TokenTTL:         GetDurationOrDefault("STUB_TOKEN_TTL", 24*time.Hour),
		OTPRatePerMinute: GetIntOrDefault("STUB_OTP_RATE_PER_MINUTE", 6),
		CleanupSchedule:  GetEnvOrDefault("STUB_CLEANUP_SCHEDULE", "0 */5 * * * *"),
		CORSOrigins:      GetListOrDefault("STUB_CORS_ORIGINS", nil),
	}
}

// LogFields 返回可安全写入日志的配置
func (c StubConfig) LogFields() map[string]any {
	return SanitizeConfigForLog(map[string]any{
		"addr":                c.Addr,
		"fixed_otp":           c.FixedOTP,
		"environment":         c.Environment,
		"log_level":           c.LogLevel,
		"redis_addr":          c.RedisAddr,
		"redis_password":      c.RedisPassword,
		"redis_db":            c.RedisDB,
		"session_ttl":         c.TokenTTL.String(),
		"send_rate_per_min":   c.OTPRatePerMinute,
		"cleanup_schedule":    c.CleanupSchedule,
		"cors_origins":        c.CORSOrigins,
	})
}
