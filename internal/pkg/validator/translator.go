package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError 验证错误详情
type ValidationError struct {
	Field   string `json:"field"`   // 字段名
	Message string `json:"message"` // 错误消息
	Tag     string `json:"tag"`     // 验证标签（如：required, email）
}

// TranslateValidationErrors 翻译所有验证错误（返回详细列表）
// 不回显字段值，避免泄露密码、验证码
func TranslateValidationErrors(err error) []ValidationError {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []ValidationError{
			{
				Field:   "request",
				Message: err.Error(),
				Tag:     "unknown",
			},
		}
	}

	result := make([]ValidationError, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		result = append(result, ValidationError{
			Field:   fieldErr.Field(),
			Message: translateFieldError(fieldErr),
			Tag:     fieldErr.Tag(),
		})
	}
	return result
}

// TranslateValidationError 返回第一个错误的消息
func TranslateValidationError(err error) string {
	if err == nil {
		return ""
	}
	errs := TranslateValidationErrors(err)
	if len(errs) > 0 {
		return errs[0].Message
	}
	return err.Error()
}

// translateFieldError 翻译单个字段验证错误
func translateFieldError(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Please enter a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "numeric":
		return fmt.Sprintf("%s must contain digits only", field)
	case "otp_code":
		return fmt.Sprintf("%s must be 6 digits", field)
	case "phone_number", "e164":
		return fmt.Sprintf("%s must be a valid phone number", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// getFieldName 将 json 字段名转换为展示名称
func getFieldName(field string) string {
	fieldNames := map[string]string{
		"email":        "Email",
		"password":     "Password",
		"name":         "Name",
		"phone_number": "Phone number",
		"otp":          "OTP",
	}
	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
