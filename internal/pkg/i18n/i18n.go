// File: internal/pkg/i18n/i18n.go
package i18n

import (
	"context"
	"strings"

	"expense-tracker/internal/pkg/ctxkey"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// 支持的语言
var (
	// 默认语言为英文，与原始界面文案保持一致
	DefaultLanguage = language.English
	// 支持的语言列表
	SupportedLanguages = []language.Tag{
		language.English, // en
		language.Chinese, // zh
	}
	// 语言匹配器
	matcher = language.NewMatcher(SupportedLanguages)
)

// WithLanguage 在 context 中设置语言偏好
func WithLanguage(ctx context.Context, lang language.Tag) context.Context {
	return context.WithValue(ctx, ctxkey.Language, lang)
}

// GetLanguage 从 context 中获取语言偏好
func GetLanguage(ctx context.Context) language.Tag {
	if ctx == nil {
		return DefaultLanguage
	}
	if lang, ok := ctx.Value(ctxkey.Language).(language.Tag); ok {
		return lang
	}
	return DefaultLanguage
}

// ParseLanguageCode 从语言代码解析 Tag
// 支持: "zh", "zh-CN", "en", "en-US" 等，无法识别时返回默认语言
func ParseLanguageCode(code string) language.Tag {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return DefaultLanguage
	}

	tag, err := language.Parse(code)
	if err != nil {
		return DefaultLanguage
	}

	// 返回支持列表中的原始 Tag，避免匹配结果携带 -u-rg 扩展
	_, idx, confidence := matcher.Match(tag)
	if confidence == language.No {
		return DefaultLanguage
	}
	return SupportedLanguages[idx]
}

// T 翻译函数 - 从 context 中获取语言并翻译
func T(ctx context.Context, key Key, args ...interface{}) string {
	return Translate(GetLanguage(ctx), key, args...)
}

// Translate 直接翻译（不依赖 context）
func Translate(lang language.Tag, key Key, args ...interface{}) string {
	p := message.NewPrinter(lang)
	return p.Sprintf(string(key), args...)
}

// IsSupported 检查语言是否被支持
func IsSupported(lang language.Tag) bool {
	for _, supported := range SupportedLanguages {
		if lang == supported {
			return true
		}
	}
	return false
}

// GetLanguageCode 获取语言代码 (zh, en)
func GetLanguageCode(lang language.Tag) string {
	base, _ := lang.Base()
	return base.String()
}
