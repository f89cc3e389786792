// Package expenseclient 终端界面：登录 / 注册 / 验证码对话框与仪表盘
package expenseclient

import (
	"context"
	"time"

	"expense-tracker/internal/modules/auth/flow"
	"expense-tracker/internal/modules/auth/form"
	"expense-tracker/internal/modules/dashboard"
	"expense-tracker/internal/pkg/log"
	"expense-tracker/internal/pkg/notify"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"
)

type screen int

const (
	screenAuth screen = iota
	screenDashboard
)

// SessionClearer 退出登录时清除会话
type SessionClearer interface {
	Clear(ctx context.Context) error
}

// Deps 界面依赖
type Deps struct {
	Controller *flow.Controller
	Dashboard  *dashboard.Service
	Notes      *notify.Queue
	Router     *Router
	Session    SessionClearer
	Language   language.Tag
	Logger     log.Logger
	// Timeout 单次操作超时，<=0 时不限制
	Timeout time.Duration
}

// flowDoneMsg 流程命令结束
type flowDoneMsg struct{ err error }

// overviewMsg 仪表盘数据加载结束
type overviewMsg struct {
	overview *dashboard.Overview
	err      error
}

// Model bubbletea 模型
type Model struct {
	deps Deps

	screen  screen
	state   flow.State
	inputs  []textinput.Model
	otp     textinput.Model
	focus   int
	spinner spinner.Model
	pending bool
	toast   *notify.Notification

	overview    *dashboard.Overview
	overviewErr error
	loadingDash bool

	width, height int
}

// New 创建模型
func New(deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = log.GetLogger()
	}
	if deps.Notes == nil {
		deps.Notes = notify.NewQueue(16)
	}
	if deps.Router == nil {
		deps.Router = &Router{}
	}

	otp := textinput.New()
	otp.Placeholder = "123456"
	otp.CharLimit = 6

	m := Model{
		deps:    deps,
		otp:     otp,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.resync()
	return m
}

// Init 实现 tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// resync 用控制器快照重建输入框
func (m *Model) resync() {
	prev := m.state
	m.state = m.deps.Controller.Snapshot()

	defs := m.state.Fields()
	if prev.Mode != m.state.Mode || len(m.inputs) != len(defs) {
		m.inputs = make([]textinput.Model, len(defs))
		for i, def := range defs {
			in := textinput.New()
			in.Placeholder = def.Placeholder
			in.CharLimit = 128
			if def.Kind.Masked() {
				in.EchoMode = textinput.EchoPassword
				in.EchoCharacter = '•'
			}
			m.inputs[i] = in
		}
		m.focus = 0
	}
	for i, def := range defs {
		if v := m.state.Value(def.Name); m.inputs[i].Value() != v {
			m.inputs[i].SetValue(v)
		}
	}

	if m.state.OTPDialogOpen() {
		if m.otp.Value() != m.state.Challenge.Code {
			m.otp.SetValue(m.state.Challenge.Code)
		}
		m.otp.Focus()
		for i := range m.inputs {
			m.inputs[i].Blur()
		}
		return
	}
	m.otp.Blur()
	m.otp.SetValue("")
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *Model) opContext() (context.Context, context.CancelFunc) {
	if m.deps.Timeout > 0 {
		return context.WithTimeout(context.Background(), m.deps.Timeout)
	}
	return context.WithCancel(context.Background())
}

// run 在命令中执行流程操作
func (m *Model) run(op func(ctx context.Context) error) tea.Cmd {
	m.pending = true
	return func() tea.Msg {
		ctx, cancel := m.opContext()
		defer cancel()
		return flowDoneMsg{err: op(ctx)}
	}
}

func (m *Model) loadOverview() tea.Cmd {
	if m.deps.Dashboard == nil {
		return nil
	}
	m.loadingDash = true
	svc := m.deps.Dashboard
	return func() tea.Msg {
		ctx, cancel := m.opContext()
		defer cancel()
		ov, err := svc.Overview(ctx)
		return overviewMsg{overview: ov, err: err}
	}
}

func (m *Model) latestToast() {
	if n, ok := m.deps.Notes.Latest(); ok {
		m.toast = &n
	}
}

// Update 实现 tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case flowDoneMsg:
		m.pending = false
		m.resync()
		m.latestToast()
		if route, ok := m.deps.Router.Take(); ok && route == flow.RouteDashboard {
			m.screen = screenDashboard
			return m, m.loadOverview()
		}
		return m, nil

	case overviewMsg:
		m.loadingDash = false
		m.overview, m.overviewErr = msg.overview, msg.err
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.screen == screenDashboard {
			return m.updateDashboard(msg)
		}
		return m.updateAuth(msg)
	}
	return m, nil
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		if !m.loadingDash {
			return m, m.loadOverview()
		}
	case "ctrl+l":
		if m.deps.Session != nil {
			if err := m.deps.Session.Clear(context.Background()); err != nil {
				m.deps.Logger.Error("清除会话失败", err)
			}
		}
		m.screen = screenAuth
		m.overview, m.overviewErr = nil, nil
		m.resync()
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// 请求进行中只响应退出
	if m.pending || m.state.Loading {
		return m, nil
	}
	ctrl := m.deps.Controller

	switch msg.String() {
	case "ctrl+s":
		ctrl.SwitchMode()
		m.toast = nil
		m.resync()
		return m, nil

	case "esc":
		if m.state.OTPDialogOpen() {
			_ = ctrl.CloseOTPDialog()
			m.resync()
		}
		return m, nil

	case "enter":
		switch {
		case m.state.OTPDialogOpen():
			return m, m.run(ctrl.SubmitOTP)
		case m.state.Mode == flow.ModeLogin:
			return m, m.run(ctrl.SubmitLogin)
		default:
			return m, m.run(ctrl.SubmitRegistration)
		}

	case "tab", "down":
		if !m.state.OTPDialogOpen() {
			m.moveFocus(1)
		}
		return m, nil

	case "shift+tab", "up":
		if !m.state.OTPDialogOpen() {
			m.moveFocus(-1)
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.state.OTPDialogOpen() {
		m.otp, cmd = m.otp.Update(msg)
		if err := ctrl.SetOTPCode(m.otp.Value()); err != nil {
			m.deps.Logger.Debug("更新验证码失败", "error", err)
		}
	} else if len(m.inputs) > 0 {
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		def := m.state.Fields()[m.focus]
		if err := ctrl.SetField(def.Name, m.inputs[m.focus].Value()); err != nil {
			m.deps.Logger.Debug("更新字段失败", "field", string(def.Name), "error", err)
		}
	}
	m.state = ctrl.Snapshot()
	return m, cmd
}

func (m *Model) moveFocus(delta int) {
	if len(m.inputs) == 0 {
		return
	}
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

// fieldError 字段的错误提示
func (m Model) fieldError(name form.FieldName) string {
	return m.state.Errors[name]
}
