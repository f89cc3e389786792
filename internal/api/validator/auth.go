package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 \-()]{4,30}$`)

// RegisterAuthValidators 注册认证相关的自定义验证器
func RegisterAuthValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("otp_code", validateOTPCode); err != nil {
		return err
	}
	return v.RegisterValidation("phone_number", validatePhoneNumber)
}

// validateOTPCode 6 位数字验证码
func validateOTPCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// validatePhoneNumber 宽松的电话号码格式：数字、空格、横线、括号，可带 + 前缀
func validatePhoneNumber(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}
