package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv 加载 .env 文件（可选）
// 已存在的环境变量优先，文件不存在时静默跳过
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			slog.Warn("加载 .env 文件失败", "file", f, "error", err)
		}
	}
}

// GetEnvOrDefault 获取环境变量，如果不存在则返回默认值
// 这是配置加载的核心函数：环境变量 > 默认值
func GetEnvOrDefault(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

// GetIntOrDefault 读取整数环境变量，非法值回退到默认值并告警
func GetIntOrDefault(key string, defaultValue int) int {
	raw := GetEnvOrDefault(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("环境变量不是合法整数，使用默认值", "key", key, "value", raw, "default", defaultValue)
		return defaultValue
	}
	return v
}

// GetDurationOrDefault 读取时长环境变量（如 "5s"、"24h"），负数或非法值回退到默认值
func GetDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	raw := GetEnvOrDefault(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		slog.Warn("环境变量不是合法时长，使用默认值", "key", key, "value", raw, "default", defaultValue.String())
		return defaultValue
	}
	return d
}

// GetChoiceOrDefault 读取枚举环境变量，不在候选列表中时回退到默认值
func GetChoiceOrDefault(key, defaultValue string, choices ...string) string {
	raw := strings.ToLower(GetEnvOrDefault(key, defaultValue))
	for _, c := range choices {
		if raw == c {
			return raw
		}
	}
	slog.Warn("环境变量取值不受支持，使用默认值", "key", key, "value", raw, "allowed", choices)
	return defaultValue
}

// GetListOrDefault 逗号分隔的列表，忽略空项
func GetListOrDefault(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// SanitizeConfigForLog 清理配置中的敏感信息，用于日志输出
func SanitizeConfigForLog(config map[string]any) map[string]any {
	sanitized := make(map[string]any, len(config))
	for k, v := range config {
		if isSensitiveKey(k) {
			if s, ok := v.(string); ok && s == "" {
				sanitized[k] = ""
				continue
			}
			sanitized[k] = "***REDACTED***"
		} else {
			sanitized[k] = v
		}
	}
	return sanitized
}

// isSensitiveKey 判断是否是敏感配置项
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	sensitiveKeywords := []string{
		"password", "secret", "token", "otp",
		"credential", "private", "api_key",
	}

	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lowerKey, keyword) {
			return true
		}
	}
	return false
}
