// Package form 定义登录、注册表单的字段、取值与本地校验。
package form

import "expense-tracker/internal/pkg/i18n"

// FieldName 表单字段名，同时作为 FieldErrors 的 key
type FieldName string

const (
	FieldFullName        FieldName = "name"
	FieldEmail           FieldName = "email"
	FieldPhone           FieldName = "phone"
	FieldPassword        FieldName = "password"
	FieldConfirmPassword FieldName = "confirmPassword"
)

// InputKind 输入控件类型
type InputKind int

const (
	InputText InputKind = iota
	InputEmail
	InputTel
	InputPassword
)

// Masked 是否需要掩码显示
func (k InputKind) Masked() bool { return k == InputPassword }

// FieldDef 单个字段的定义，校验与渲染共用
type FieldDef struct {
	Name        FieldName
	Label       i18n.Key
	Placeholder string
	Kind        InputKind
	// Rules go-playground validator 规则，空字符串表示不校验
	Rules string
	// Messages 规则 tag -> 提示文案
	Messages map[string]i18n.Key
	// MatchField 非空时要求与该字段取值相同
	MatchField FieldName
}

// Message 返回 tag 对应的提示文案 key
func (d FieldDef) Message(tag string) i18n.Key {
	if key, ok := d.Messages[tag]; ok {
		return key
	}
	for _, key := range d.Messages {
		return key
	}
	return ""
}

var (
	emailField = FieldDef{
		Name:        FieldEmail,
		Label:       i18n.LabelEmail,
		Placeholder: "m@example.com",
		Kind:        InputEmail,
		Rules:       "required,email,account_email",
		Messages: map[string]i18n.Key{
			"required":      i18n.MsgInvalidEmail,
			"email":         i18n.MsgInvalidEmail,
			"account_email": i18n.MsgInvalidEmail,
		},
	}
	passwordField = FieldDef{
		Name:        FieldPassword,
		Label:       i18n.LabelPassword,
		Placeholder: "••••••",
		Kind:        InputPassword,
		Rules:       "required,min=6",
		Messages: map[string]i18n.Key{
			"required": i18n.MsgPasswordTooShort,
			"min":      i18n.MsgPasswordTooShort,
		},
	}
)

// LoginFields 登录表单字段（按显示顺序）
var LoginFields = []FieldDef{
	emailField,
	passwordField,
}

// RegisterFields 注册表单字段（按显示顺序）
var RegisterFields = []FieldDef{
	{
		Name:        FieldFullName,
		Label:       i18n.LabelName,
		Placeholder: "John Doe",
		Kind:        InputText,
		Rules:       "required,min=2",
		Messages: map[string]i18n.Key{
			"required": i18n.MsgNameTooShort,
			"min":      i18n.MsgNameTooShort,
		},
	},
	emailField,
	{
		Name:        FieldPhone,
		Label:       i18n.LabelPhone,
		Placeholder: "+1 555 000 0000",
		Kind:        InputTel,
	},
	passwordField,
	{
		Name:        FieldConfirmPassword,
		Label:       i18n.LabelConfirmPassword,
		Placeholder: "••••••",
		Kind:        InputPassword,
		Messages: map[string]i18n.Key{
			"eqfield": i18n.MsgPasswordMismatch,
		},
		MatchField: FieldPassword,
	},
}
