package validator

import (
	"reflect"
	"strings"

	apivalidator "expense-tracker/internal/api/validator"
	"expense-tracker/internal/pkg/xerrors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator wraps go-playground validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface
// 失败时返回带字段明细的 xerrors 校验错误
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		fields := make(map[string]string)
		for _, fe := range TranslateValidationErrors(err) {
			if _, exists := fields[fe.Field]; !exists {
				fields[fe.Field] = fe.Message
			}
		}
		return xerrors.NewValidationError(fields)
	}
	return nil
}

// New creates a new custom validator instance
// 字段名取 json tag，使错误明细与请求体字段一致
func New() echo.Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// 自定义规则名固定，注册只会在编码错误时失败
	if err := apivalidator.RegisterAuthValidators(v); err != nil {
		panic(err)
	}
	return &CustomValidator{validator: v}
}
