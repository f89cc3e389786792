package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"expense-tracker/internal/modules/auth/client"
	"expense-tracker/internal/modules/auth/form"
	"expense-tracker/internal/modules/auth/session"
	"expense-tracker/internal/pkg/ctxkey"
	"expense-tracker/internal/pkg/i18n"
	"expense-tracker/internal/pkg/log"
	"expense-tracker/internal/pkg/metrics"
	"expense-tracker/internal/pkg/notify"
	"expense-tracker/internal/pkg/trace"
	"expense-tracker/internal/pkg/xerrors"

	"golang.org/x/text/language"
)

// ErrSuperseded 请求返回时流程已被重置，结果被丢弃
var ErrSuperseded = errors.New("flow: response discarded after reset")

// 指标中的流程名
const (
	flowLogin    = "login"
	flowRegister = "register"
)

// Deps 控制器依赖
type Deps struct {
	Backend   Backend
	Session   SessionSaver
	Notifier  notify.Notifier
	Navigator Navigator
	Policy    VerifyPolicy
	Language  language.Tag
	Metrics   *metrics.AuthMetrics
	Logger    log.Logger
}

// Controller 认证流程控制器，并发安全
// mu 只保护状态，网络调用、通知、导航和存储写入都在锁外进行
type Controller struct {
	mu        sync.Mutex
	mode      Mode
	phase     Phase
	login     form.LoginCredentials
	draft     form.RegistrationDraft
	errors    form.FieldErrors
	challenge *OTPChallenge
	loading   bool
	epoch     uint64

	validator *form.Validator
	backend   Backend
	session   SessionSaver
	notifier  notify.Notifier
	navigator Navigator
	policy    VerifyPolicy
	lang      language.Tag
	metrics   *metrics.AuthMetrics
	logger    log.Logger
}

// New 创建控制器，初始为登录模式
func New(deps Deps) (*Controller, error) {
	if deps.Backend == nil {
		return nil, xerrors.New(xerrors.CodeInvalidParams, "flow: backend is required")
	}
	if deps.Session == nil {
		return nil, xerrors.New(xerrors.CodeInvalidParams, "flow: session saver is required")
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Discard
	}
	if deps.Navigator == nil {
		deps.Navigator = NavigatorFunc(func(context.Context, Route) {})
	}
	if deps.Language == language.Und {
		deps.Language = i18n.DefaultLanguage
	}
	if deps.Logger == nil {
		deps.Logger = log.GetLogger()
	}

	return &Controller{
		mode:      ModeLogin,
		validator: form.NewValidator(deps.Language),
		backend:   deps.Backend,
		session:   deps.Session,
		notifier:  deps.Notifier,
		navigator: deps.Navigator,
		policy:    deps.Policy,
		lang:      deps.Language,
		metrics:   deps.Metrics,
		logger:    deps.Logger.With("component", "auth_flow"),
	}, nil
}

// Snapshot 返回状态的深拷贝
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		Mode:    c.mode,
		Phase:   c.phase,
		Login:   c.login,
		Draft:   c.draft,
		Errors:  c.errors.Clone(),
		Loading: c.loading,
	}
	if c.challenge != nil {
		s.Challenge = &OTPChallenge{Email: c.challenge.Email, Code: c.challenge.Code}
	}
	return s
}

// Policy 返回验证码校验策略
func (c *Controller) Policy() VerifyPolicy { return c.policy }

// SwitchMode 切换登录 / 注册，并清空全部临时状态
func (c *Controller) SwitchMode() Mode {
	c.mu.Lock()
	if c.mode == ModeLogin {
		c.mode = ModeRegister
	} else {
		c.mode = ModeLogin
	}
	c.resetLocked()
	mode := c.mode
	c.mu.Unlock()

	c.metrics.IncTransition(mode.String(), "mode_switched")
	return mode
}

// SetField 修改当前模式下的字段
func (c *Controller) SetField(name form.FieldName, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading {
		return xerrors.FromCode(xerrors.CodeOperationInProgress)
	}
	var ok bool
	if c.mode == ModeRegister {
		ok = c.draft.Set(name, value)
	} else {
		ok = c.login.Set(name, value)
	}
	if !ok {
		return xerrors.New(xerrors.CodeWrongMode, fmt.Sprintf("field %q not in %s form", name, c.mode))
	}
	return nil
}

// SetOTPCode 修改验证码输入
func (c *Controller) SetOTPCode(code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading {
		return xerrors.FromCode(xerrors.CodeOperationInProgress)
	}
	if c.challenge == nil {
		return xerrors.FromCode(xerrors.CodeNoOTPChallenge)
	}
	c.challenge.Code = code
	return nil
}

// CloseOTPDialog 关闭验证码对话框，注册表单保留以便重试
func (c *Controller) CloseOTPDialog() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading {
		return xerrors.FromCode(xerrors.CodeOperationInProgress)
	}
	c.challenge = nil
	if c.phase == PhaseOTPDialogOpen {
		c.phase = PhaseIdle
	}
	return nil
}

// SubmitLogin 校验登录表单并登录，成功后保存会话并跳转到仪表盘
func (c *Controller) SubmitLogin(ctx context.Context) error {
	ctx = c.prepareContext(ctx, "submit_login")

	c.mu.Lock()
	if err := c.guardLocked(ModeLogin); err != nil {
		c.mu.Unlock()
		return err
	}
	creds, err := c.validator.ValidateLogin(c.login)
	if err != nil {
		c.failValidationLocked(err)
		c.mu.Unlock()
		c.reportValidation(ctx, flowLogin, err, form.LoginFields)
		return err
	}
	epoch := c.beginLocked(PhaseSubmitting)
	c.mu.Unlock()
	defer c.finish(epoch)

	c.metrics.IncTransition(flowLogin, PhaseSubmitting.String())
	c.logger.InfoContext(ctx, "开始登录", log.String("email", creds.Email))

	var result client.SignInResult
	err = c.call(func() error {
		var callErr error
		result, callErr = c.backend.SignIn(ctx, creds.Email, creds.Password)
		return callErr
	})
	if c.stale(epoch) {
		return ErrSuperseded
	}
	if err == nil {
		err = c.session.Save(ctx, session.Artifacts{UserID: result.UserID, Token: result.Token})
	}
	if err != nil {
		return c.loginFailed(ctx, epoch, err)
	}

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return ErrSuperseded
	}
	c.login = form.LoginCredentials{}
	c.mu.Unlock()

	c.metrics.IncTransition(flowLogin, "success")
	c.logger.InfoContext(ctx, "登录成功", log.String("user_id", result.UserID))
	c.notify(ctx, notify.SeveritySuccess, i18n.Translate(c.lang, i18n.MsgLoginSuccess))
	c.navigator.Navigate(ctx, RouteDashboard)
	return nil
}

func (c *Controller) loginFailed(ctx context.Context, epoch uint64, err error) error {
	if c.stale(epoch) {
		return ErrSuperseded
	}
	c.metrics.IncTransition(flowLogin, "failure")
	logFailure(ctx, c.logger, "登录失败", err)

	key := i18n.MsgLoginUnavailable
	if xerrors.IsRequestFailed(err) {
		key = i18n.MsgLoginRejected
	}
	c.notify(ctx, notify.SeverityError, i18n.Translate(c.lang, key))
	return err
}

// SubmitRegistration 校验注册表单并请求发送验证码
func (c *Controller) SubmitRegistration(ctx context.Context) error {
	ctx = c.prepareContext(ctx, "submit_registration")

	c.mu.Lock()
	if err := c.guardLocked(ModeRegister); err != nil {
		c.mu.Unlock()
		return err
	}
	draft, err := c.validator.ValidateRegistration(c.draft)
	if err != nil {
		c.failValidationLocked(err)
		c.mu.Unlock()
		c.reportValidation(ctx, flowRegister, err, form.RegisterFields)
		return err
	}
	epoch := c.beginLocked(PhaseRequestingOTP)
	c.mu.Unlock()
	defer c.finish(epoch)

	c.metrics.IncTransition(flowRegister, PhaseRequestingOTP.String())
	c.logger.InfoContext(ctx, "请求发送验证码", log.String("email", draft.Email))

	err = c.call(func() error {
		_, callErr := c.backend.SendOTP(ctx, draft.Email)
		return callErr
	})
	if c.stale(epoch) {
		return ErrSuperseded
	}
	if err != nil {
		c.metrics.IncTransition(flowRegister, "failure")
		logFailure(ctx, c.logger, "发送验证码失败", err)
		c.notify(ctx, notify.SeverityError, c.message(err, i18n.MsgOTPSendFailed))
		return err
	}

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return ErrSuperseded
	}
	c.challenge = &OTPChallenge{Email: draft.Email, validated: draft}
	c.phase = PhaseOTPDialogOpen
	c.mu.Unlock()

	c.metrics.IncTransition(flowRegister, PhaseOTPDialogOpen.String())
	c.notify(ctx, notify.SeveritySuccess, i18n.Translate(c.lang, i18n.MsgOTPSent, draft.Email))
	return nil
}

// SubmitOTP 校验验证码并创建账号，成功后回到登录模式
func (c *Controller) SubmitOTP(ctx context.Context) error {
	ctx = c.prepareContext(ctx, "submit_otp")

	c.mu.Lock()
	if err := c.guardLocked(ModeRegister); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.challenge == nil {
		c.mu.Unlock()
		return xerrors.FromCode(xerrors.CodeNoOTPChallenge)
	}
	code := strings.TrimSpace(c.challenge.Code)
	if code == "" {
		c.mu.Unlock()
		c.notify(ctx, notify.SeverityInfo, i18n.Translate(c.lang, i18n.MsgOTPRequired))
		return xerrors.FromCode(xerrors.CodeOTPRequired)
	}
	email := c.challenge.Email
	draft := c.challenge.validated
	epoch := c.beginLocked(PhaseVerifyingOTP)
	c.mu.Unlock()
	defer c.finish(epoch)

	c.metrics.IncTransition(flowRegister, PhaseVerifyingOTP.String())
	c.logger.InfoContext(ctx, "校验验证码", log.String("email", email))

	err := c.call(func() error {
		_, callErr := c.backend.VerifyOTP(ctx, email, code)
		return callErr
	})
	if c.stale(epoch) {
		return ErrSuperseded
	}
	if err != nil {
		logFailure(ctx, c.logger, "验证码校验失败", err)
		c.notify(ctx, notify.SeverityError, c.message(err, i18n.MsgOTPVerifyFailed))
		if c.policy == VerifyGate {
			c.metrics.IncTransition(flowRegister, "failure")
			return err
		}
		c.logger.WarnContext(ctx, "验证码校验失败，按 advisory 策略继续注册", log.String("email", email))
	}

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return ErrSuperseded
	}
	c.phase = PhaseCreatingAccount
	c.mu.Unlock()
	c.metrics.IncTransition(flowRegister, PhaseCreatingAccount.String())

	err = c.call(func() error {
		_, callErr := c.backend.SignUp(ctx, client.SignUpRequest{
			Name:        draft.Name,
			Email:       email,
			Password:    draft.Password,
			PhoneNumber: draft.Phone,
		})
		return callErr
	})
	if c.stale(epoch) {
		return ErrSuperseded
	}
	if err != nil {
		c.metrics.IncTransition(flowRegister, "failure")
		logFailure(ctx, c.logger, "创建账号失败", err)
		c.notify(ctx, notify.SeverityError, c.message(err, i18n.MsgRegistrationFailed))
		return err
	}

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return ErrSuperseded
	}
	c.resetLocked()
	c.mode = ModeLogin
	c.mu.Unlock()

	c.metrics.IncTransition(flowRegister, "completed")
	c.logger.InfoContext(ctx, "注册完成", log.String("email", email))
	c.notify(ctx, notify.SeveritySuccess, i18n.Translate(c.lang, i18n.MsgRegistrationComplete))
	return nil
}

// guardLocked 检查模式与互斥，调用方持有锁
func (c *Controller) guardLocked(mode Mode) error {
	if c.loading {
		return xerrors.FromCode(xerrors.CodeOperationInProgress)
	}
	if c.mode != mode {
		return xerrors.New(xerrors.CodeWrongMode, fmt.Sprintf("operation requires %s mode", mode))
	}
	return nil
}

// beginLocked 进入网络调用阶段，返回当前 epoch
func (c *Controller) beginLocked(phase Phase) uint64 {
	c.errors = nil
	c.loading = true
	c.phase = phase
	return c.epoch
}

// finish 网络调用结束后的清理，epoch 已变化说明状态被重置过，不再修改
func (c *Controller) finish(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return
	}
	c.loading = false
	if c.challenge != nil {
		c.phase = PhaseOTPDialogOpen
	} else {
		c.phase = PhaseIdle
	}
}

func (c *Controller) stale(epoch uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch != epoch
}

// resetLocked 清空全部临时状态，并使进行中的请求失效
func (c *Controller) resetLocked() {
	c.login = form.LoginCredentials{}
	c.draft = form.RegistrationDraft{}
	c.errors = nil
	c.challenge = nil
	c.loading = false
	c.phase = PhaseIdle
	c.epoch++
}

func (c *Controller) failValidationLocked(err error) {
	c.errors = form.ErrorsOf(err)
	if c.challenge == nil {
		c.phase = PhaseIdle
	}
}

func (c *Controller) reportValidation(ctx context.Context, flow string, err error, defs []form.FieldDef) {
	names := form.ErrorsOf(err).Names(defs)
	c.metrics.IncValidationFailure(flow, names...)
	c.logger.InfoContext(ctx, "表单校验未通过", log.Any("fields", names))
	c.notify(ctx, notify.SeverityError, c.message(err, i18n.MsgFixFields))
}

// call 执行后端调用，panic 转换为错误，保证 Loading 能被清理且进程不崩溃
func (c *Controller) call(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = xerrors.NewWithError(xerrors.CodeInternalError, "backend call panicked", fmt.Errorf("%v", r))
		}
	}()
	return fn()
}

func (c *Controller) message(err error, fallback i18n.Key) string {
	return displayMessage(c.lang, err, i18n.Translate(c.lang, fallback))
}

func (c *Controller) notify(ctx context.Context, severity notify.Severity, message string) {
	c.notifier.Notify(ctx, notify.New(severity, message))
}

func (c *Controller) prepareContext(ctx context.Context, operation string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, _ = trace.Ensure(ctx)
	ctx = i18n.WithLanguage(ctx, c.lang)
	return ctxkey.WithValue(ctx, ctxkey.Operation, operation)
}

func logFailure(ctx context.Context, logger log.Logger, msg string, err error) {
	if appErr, ok := xerrors.As(err); ok {
		log.LogAppError(ctx, logger, msg, appErr)
		return
	}
	logger.ErrorContext(ctx, msg, log.Err(err))
}
