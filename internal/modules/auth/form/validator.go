package form

import (
	"errors"
	"regexp"
	"strings"

	"expense-tracker/internal/pkg/i18n"
	"expense-tracker/internal/pkg/xerrors"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
)

// Validator 表单校验器，纯函数式、无 I/O，一次报告全部失败字段
type Validator struct {
	validate *validator.Validate
	lang     language.Tag
}

// accountEmailRe local@domain.tld：local 不含引号与空格，顶级域至少两个字母
var accountEmailRe = regexp.MustCompile(`^[A-Za-z0-9_'+\-.]*[A-Za-z0-9_+\-]@([A-Za-z0-9][A-Za-z0-9\-]*\.)+[A-Za-z]{2,}$`)

func isAccountEmail(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.HasPrefix(s, ".") || strings.Contains(s, "..") {
		return false
	}
	return accountEmailRe.MatchString(s)
}

// NewValidator 创建校验器，lang 决定提示文案语言
func NewValidator(lang language.Tag) *Validator {
	validate := validator.New()
	if err := validate.RegisterValidation("account_email", isAccountEmail); err != nil {
		panic(err)
	}
	return &Validator{
		validate: validate,
		lang:     lang,
	}
}

// ValidateLogin 校验登录表单，成功时原样返回
func (v *Validator) ValidateLogin(c LoginCredentials) (LoginCredentials, error) {
	if errs := v.check(LoginFields, c.Get); len(errs) > 0 {
		return c, newValidationError(errs)
	}
	return c, nil
}

// ValidateRegistration 校验注册表单，成功时原样返回
func (v *Validator) ValidateRegistration(d RegistrationDraft) (RegistrationDraft, error) {
	if errs := v.check(RegisterFields, d.Get); len(errs) > 0 {
		return d, newValidationError(errs)
	}
	return d, nil
}

func (v *Validator) check(defs []FieldDef, get func(FieldName) string) FieldErrors {
	errs := FieldErrors{}
	for _, def := range defs {
		value := get(def.Name)

		if def.Rules != "" {
			if tag, failed := failedTag(v.validate.Var(value, def.Rules)); failed {
				errs[def.Name] = i18n.Translate(v.lang, def.Message(tag))
				continue
			}
		}

		if def.MatchField != "" {
			if tag, failed := failedTag(v.validate.VarWithValue(value, get(def.MatchField), "eqfield")); failed {
				errs[def.Name] = i18n.Translate(v.lang, def.Message(tag))
			}
		}
	}
	return errs
}

// failedTag 取出第一个失败的规则 tag
func failedTag(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Tag(), true
	}
	return "", true
}

func newValidationError(errs FieldErrors) *xerrors.AppError {
	fields := make(map[string]string, len(errs))
	for k, v := range errs {
		fields[string(k)] = v
	}
	return xerrors.NewValidationError(fields).WithService("auth-form", "validate")
}

// ErrorsOf 从校验错误中取出字段错误，其他错误返回 nil
func ErrorsOf(err error) FieldErrors {
	appErr, ok := xerrors.As(err)
	if !ok || appErr.Kind != xerrors.KindValidation || len(appErr.Fields) == 0 {
		return nil
	}
	out := make(FieldErrors, len(appErr.Fields))
	for k, v := range appErr.Fields {
		out[FieldName(k)] = v
	}
	return out
}
