// Package flow 实现登录 / 注册的客户端认证流程控制器。
package flow

import (
	"context"
	"strings"

	"expense-tracker/internal/modules/auth/client"
	"expense-tracker/internal/modules/auth/form"
	"expense-tracker/internal/modules/auth/session"
)

// Mode 表单模式
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

func (m Mode) String() string {
	if m == ModeRegister {
		return "register"
	}
	return "login"
}

// Phase 当前流程所处阶段
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseRequestingOTP
	PhaseOTPDialogOpen
	PhaseVerifyingOTP
	PhaseCreatingAccount
)

func (p Phase) String() string {
	switch p {
	case PhaseSubmitting:
		return "submitting"
	case PhaseRequestingOTP:
		return "requesting_otp"
	case PhaseOTPDialogOpen:
		return "otp_dialog_open"
	case PhaseVerifyingOTP:
		return "verifying_otp"
	case PhaseCreatingAccount:
		return "creating_account"
	default:
		return "idle"
	}
}

// Route 导航目标
type Route string

const RouteDashboard Route = "/dashboard"

// Navigator 导航能力，由界面层注入
type Navigator interface {
	Navigate(ctx context.Context, route Route)
}

// NavigatorFunc 函数适配器
type NavigatorFunc func(ctx context.Context, route Route)

// Navigate 实现 Navigator
func (f NavigatorFunc) Navigate(ctx context.Context, route Route) { f(ctx, route) }

// Backend 认证后端，*client.BackendClient 满足该接口
type Backend interface {
	SignIn(ctx context.Context, email, password string) (client.SignInResult, error)
	SendOTP(ctx context.Context, email string) (string, error)
	VerifyOTP(ctx context.Context, email, otp string) (string, error)
	SignUp(ctx context.Context, req client.SignUpRequest) (string, error)
}

// SessionSaver 登录成功后持久化凭据，*session.Writer 满足该接口
type SessionSaver interface {
	Save(ctx context.Context, a session.Artifacts) error
}

// VerifyPolicy 验证码校验失败后的处理策略
type VerifyPolicy int

const (
	// VerifyGate 校验失败即停止，对话框保持打开
	VerifyGate VerifyPolicy = iota
	// VerifyAdvisory 校验失败只提示，仍继续创建账号
	VerifyAdvisory
)

func (p VerifyPolicy) String() string {
	if p == VerifyAdvisory {
		return "advisory"
	}
	return "gate"
}

// ParseVerifyPolicy 解析配置值，无法识别时返回 VerifyGate
func ParseVerifyPolicy(s string) VerifyPolicy {
	if strings.EqualFold(strings.TrimSpace(s), "advisory") {
		return VerifyAdvisory
	}
	return VerifyGate
}

// OTPChallenge 验证码对话框打开期间存在
type OTPChallenge struct {
	Email string
	Code  string

	// 发送验证码时已通过校验的表单，创建账号只使用这份
	validated form.RegistrationDraft
}

// State 控制器状态快照，供界面渲染
type State struct {
	Mode      Mode
	Phase     Phase
	Login     form.LoginCredentials
	Draft     form.RegistrationDraft
	Errors    form.FieldErrors
	Challenge *OTPChallenge
	Loading   bool
}

// OTPDialogOpen 验证码对话框是否打开
func (s State) OTPDialogOpen() bool { return s.Challenge != nil }

// Fields 当前模式对应的字段定义
func (s State) Fields() []form.FieldDef {
	if s.Mode == ModeRegister {
		return form.RegisterFields
	}
	return form.LoginFields
}

// Value 当前模式下字段的取值
func (s State) Value(name form.FieldName) string {
	if s.Mode == ModeRegister {
		return s.Draft.Get(name)
	}
	return s.Login.Get(name)
}
