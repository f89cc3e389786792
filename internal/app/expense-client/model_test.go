package expenseclient

import (
	"context"
	"testing"

	"expense-tracker/internal/modules/auth/client"
	"expense-tracker/internal/modules/auth/flow"
	"expense-tracker/internal/modules/auth/form"
	"expense-tracker/internal/modules/auth/session"
	"expense-tracker/internal/pkg/log"
	"expense-tracker/internal/pkg/notify"
	"expense-tracker/internal/pkg/xerrors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type fakeBackend struct {
	signInErr error
}

func (f *fakeBackend) SignIn(context.Context, string, string) (client.SignInResult, error) {
	if f.signInErr != nil {
		return client.SignInResult{}, f.signInErr
	}
	return client.SignInResult{UserID: "u1", Token: "t1"}, nil
}

func (f *fakeBackend) SendOTP(context.Context, string) (string, error) { return "sent", nil }

func (f *fakeBackend) VerifyOTP(context.Context, string, string) (string, error) {
	return "ok", nil
}

func (f *fakeBackend) SignUp(context.Context, client.SignUpRequest) (string, error) {
	return "created", nil
}

func newTestModel(t *testing.T, backend flow.Backend) (Model, *session.MemoryStorage) {
	t.Helper()
	storage := session.NewMemoryStorage()
	writer := session.NewWriter(storage, log.Discard())
	notes := notify.NewQueue(8)
	router := &Router{}
	ctrl, err := flow.New(flow.Deps{
		Backend:   backend,
		Session:   writer,
		Notifier:  notes,
		Navigator: router,
		Language:  language.English,
		Logger:    log.Discard(),
	})
	require.NoError(t, err)
	return New(Deps{
		Controller: ctrl,
		Notes:      notes,
		Router:     router,
		Session:    writer,
		Language:   language.English,
		Logger:     log.Discard(),
	}), storage
}

func typeText(m Model, s string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(Model)
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(Model), cmd
}

// finish 执行命令并把结果交回模型
func finish(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(Model)
}

func TestModel_LoginNavigatesToDashboard(t *testing.T) {
	m, storage := newTestModel(t, &fakeBackend{})

	m = typeText(m, "a@b.com")
	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "secret1")
	assert.Equal(t, form.LoginCredentials{Email: "a@b.com", Password: "secret1"}, m.state.Login)

	m, cmd := press(m, tea.KeyEnter)
	assert.True(t, m.pending)
	m = finish(t, m, cmd)

	assert.Equal(t, screenDashboard, m.screen)
	token, ok, err := storage.GetItem(context.Background(), session.KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t1", token)
	require.NotNil(t, m.toast)
	assert.Equal(t, notify.SeveritySuccess, m.toast.Severity)
	assert.Contains(t, m.View(), "Dashboard")

	// 退出登录回到登录页并清除会话
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = next.(Model)
	assert.Equal(t, screenAuth, m.screen)
	_, ok, _ = storage.GetItem(context.Background(), session.KeyToken)
	assert.False(t, ok)
}

func TestModel_LoginFailureStaysOnForm(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{signInErr: xerrors.NewRequestFailed(client.OpSignIn, 401, "nope")})

	m = typeText(m, "a@b.com")
	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "secret1")
	m, cmd := press(m, tea.KeyEnter)
	m = finish(t, m, cmd)

	assert.Equal(t, screenAuth, m.screen)
	require.NotNil(t, m.toast)
	assert.Equal(t, notify.SeverityError, m.toast.Severity)
	assert.Contains(t, m.View(), "Login failed. Please check your credentials")
}

func TestModel_ValidationErrorsRendered(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{})
	m = typeText(m, "nope")

	m, cmd := press(m, tea.KeyEnter)
	m = finish(t, m, cmd)

	view := m.View()
	assert.Contains(t, view, "Please enter a valid email address")
	assert.Contains(t, view, "Password must be at least 6 characters")
}

func TestModel_RegistrationOpensOTPDialog(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{})
	m, _ = press(m, tea.KeyCtrlS)
	require.Equal(t, flow.ModeRegister, m.state.Mode)
	require.Len(t, m.inputs, len(form.RegisterFields))

	for i, v := range []string{"Al", "a@b.com", "", "secret1", "secret1"} {
		if v != "" {
			m = typeText(m, v)
		}
		if i < len(form.RegisterFields)-1 {
			m, _ = press(m, tea.KeyTab)
		}
	}

	m, cmd := press(m, tea.KeyEnter)
	m = finish(t, m, cmd)
	require.True(t, m.state.OTPDialogOpen())
	assert.Contains(t, m.View(), "a@b.com")

	m = typeText(m, "123456")
	assert.Equal(t, "123456", m.state.Challenge.Code)

	m, cmd = press(m, tea.KeyEnter)
	m = finish(t, m, cmd)
	assert.Equal(t, flow.ModeLogin, m.state.Mode)
	assert.False(t, m.state.OTPDialogOpen())
	assert.Contains(t, m.View(), "Registration complete! Please log in.")
}

func TestModel_KeysIgnoredWhilePending(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{})
	m.pending = true

	m, cmd := press(m, tea.KeyCtrlS)
	assert.Nil(t, cmd)
	assert.Equal(t, flow.ModeLogin, m.state.Mode)

	_, cmd = press(m, tea.KeyCtrlC)
	assert.NotNil(t, cmd)
}
