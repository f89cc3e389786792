package flow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"expense-tracker/internal/modules/auth/client"
	"expense-tracker/internal/modules/auth/form"
	"expense-tracker/internal/modules/auth/session"
	"expense-tracker/internal/pkg/log"
	"expense-tracker/internal/pkg/metrics"
	"expense-tracker/internal/pkg/notify"
	"expense-tracker/internal/pkg/xerrors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

// fakeBackend 可编程的后端替身
type fakeBackend struct {
	mu sync.Mutex

	signInResult client.SignInResult
	signInErr    error
	sendOTPErr   error
	verifyErr    error
	signUpErr    error

	// 非 nil 时调用会阻塞直到收到信号
	gate chan struct{}
	// 调用开始时通知
	started chan string

	calls     []string
	signIns   [][2]string
	sendOTPs  []string
	verifies  [][2]string
	signUps   []client.SignUpRequest
	panicOnIn bool
}

func (f *fakeBackend) enter(op string) {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	gate, started := f.gate, f.started
	f.mu.Unlock()
	if started != nil {
		started <- op
	}
	if gate != nil {
		<-gate
	}
}

func (f *fakeBackend) SignIn(ctx context.Context, email, password string) (client.SignInResult, error) {
	f.enter("sign_in")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicOnIn {
		panic("transport exploded")
	}
	f.signIns = append(f.signIns, [2]string{email, password})
	return f.signInResult, f.signInErr
}

func (f *fakeBackend) SendOTP(ctx context.Context, email string) (string, error) {
	f.enter("send_otp")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendOTPs = append(f.sendOTPs, email)
	return "sent", f.sendOTPErr
}

func (f *fakeBackend) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	f.enter("verify_otp")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifies = append(f.verifies, [2]string{email, otp})
	return "verified", f.verifyErr
}

func (f *fakeBackend) SignUp(ctx context.Context, req client.SignUpRequest) (string, error) {
	f.enter("sign_up")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signUps = append(f.signUps, req)
	return "created", f.signUpErr
}

func (f *fakeBackend) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeNavigator struct {
	mu     sync.Mutex
	routes []Route
}

func (n *fakeNavigator) Navigate(_ context.Context, r Route) {
	n.mu.Lock()
	n.routes = append(n.routes, r)
	n.mu.Unlock()
}

func (n *fakeNavigator) all() []Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Route(nil), n.routes...)
}

type harness struct {
	ctrl     *Controller
	backend  *fakeBackend
	storage  *session.MemoryStorage
	notes    *notify.Queue
	nav      *fakeNavigator
	metrics  *metrics.AuthMetrics
	registry *prometheus.Registry
}

func newHarness(t *testing.T, policy VerifyPolicy) *harness {
	t.Helper()
	h := &harness{
		backend:  &fakeBackend{signInResult: client.SignInResult{UserID: "u1", Token: "t1"}},
		storage:  session.NewMemoryStorage(),
		notes:    notify.NewQueue(32),
		nav:      &fakeNavigator{},
		registry: prometheus.NewRegistry(),
	}
	h.metrics = metrics.NewAuthMetricsWithRegistry("test", h.registry)

	ctrl, err := New(Deps{
		Backend:   h.backend,
		Session:   session.NewWriter(h.storage, log.Discard()),
		Notifier:  h.notes,
		Navigator: h.nav,
		Policy:    policy,
		Language:  language.English,
		Metrics:   h.metrics,
		Logger:    log.Discard(),
	})
	require.NoError(t, err)
	h.ctrl = ctrl
	return h
}

func (h *harness) stored(key string) (string, bool) {
	v, ok, _ := h.storage.GetItem(context.Background(), key)
	return v, ok
}

func (h *harness) lastNote(t *testing.T) notify.Notification {
	t.Helper()
	n, ok := h.notes.Latest()
	require.True(t, ok, "expected a notification")
	return n
}

func (h *harness) fillLogin(t *testing.T, email, password string) {
	t.Helper()
	require.NoError(t, h.ctrl.SetField(form.FieldEmail, email))
	require.NoError(t, h.ctrl.SetField(form.FieldPassword, password))
}

func (h *harness) fillRegister(t *testing.T, d form.RegistrationDraft) {
	t.Helper()
	for _, def := range form.RegisterFields {
		require.NoError(t, h.ctrl.SetField(def.Name, d.Get(def.Name)))
	}
}

func validDraft() form.RegistrationDraft {
	return form.RegistrationDraft{Name: "Al", Email: "a@b.com", Password: "secret1", ConfirmPassword: "secret1"}
}

func TestNew_RequiresDeps(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)
	_, err = New(Deps{Backend: &fakeBackend{}})
	assert.Error(t, err)
}

func TestSwitchMode_ResetsEverything(t *testing.T) {
	h := newHarness(t, VerifyGate)
	h.fillLogin(t, "bad", "1")
	_ = h.ctrl.SubmitLogin(context.Background())
	require.NotEmpty(t, h.ctrl.Snapshot().Errors)

	assert.Equal(t, ModeRegister, h.ctrl.SwitchMode())
	s := h.ctrl.Snapshot()
	assert.Equal(t, form.LoginCredentials{}, s.Login)
	assert.Equal(t, form.RegistrationDraft{}, s.Draft)
	assert.Empty(t, s.Errors)
	assert.False(t, s.Loading)
	assert.False(t, s.OTPDialogOpen())

	assert.Equal(t, ModeLogin, h.ctrl.SwitchMode())
	first := h.ctrl.Snapshot()
	h.ctrl.SwitchMode()
	h.ctrl.SwitchMode()
	assert.Equal(t, first, h.ctrl.Snapshot())
}

func TestSwitchMode_ClosesOTPDialog(t *testing.T) {
	h := newHarness(t, VerifyGate)
	h.ctrl.SwitchMode()
	h.fillRegister(t, validDraft())
	require.NoError(t, h.ctrl.SubmitRegistration(context.Background()))
	require.True(t, h.ctrl.Snapshot().OTPDialogOpen())

	h.ctrl.SwitchMode()
	s := h.ctrl.Snapshot()
	assert.False(t, s.OTPDialogOpen())
	assert.Equal(t, ModeLogin, s.Mode)
	assert.Equal(t, PhaseIdle, s.Phase)
}

func TestSubmitLogin_Success(t *testing.T) {
	h := newHarness(t, VerifyGate)
	h.fillLogin(t, "a@b.com", "secret1")

	require.NoError(t, h.ctrl.SubmitLogin(context.Background()))

	uid, _ := h.stored(session.KeyUserID)
	tok, _ := h.stored(session.KeyToken)
	assert.Equal(t, "u1", uid)
	assert.Equal(t, "t1", tok)
	assert.Equal(t, []Route{RouteDashboard}, h.nav.all())
	assert.Equal(t, [][2]string{{"a@b.com", "secret1"}}, h.backend.signIns)

	n := h.lastNote(t)
	assert.Equal(t, notify.SeveritySuccess, n.Severity)
	assert.Equal(t, "Login successful. Welcome back!", n.Message)

	s := h.ctrl.Snapshot()
	assert.Equal(t, form.LoginCredentials{}, s.Login)
	assert.False(t, s.Loading)
	assert.Equal(t, float64(1), testutil.ToFloat64(h.metrics.FlowTransitions.WithLabelValues("login", "success")))
}

func TestSubmitLogin_Failures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		result  client.SignInResult
		message string
	}{
		{
			name:    "后端拒绝",
			err:     xerrors.NewRequestFailed(client.OpSignIn, 401, "Invalid credentials"),
			message: "Login failed. Please check your credentials",
		},
		{
			name:    "网络错误",
			err:     xerrors.NewNetworkError(client.OpSignIn, errors.New("connection reset")),
			message: "Login failed. Please try again later",
		},
		{
			name:    "响应缺字段",
			err:     xerrors.NewMalformedResponse(client.OpSignIn, errors.New("missing token")),
			message: "Login failed. Please try again later",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, VerifyGate)
			h.backend.signInErr = tt.err
			h.fillLogin(t, "a@b.com", "secret1")

			err := h.ctrl.SubmitLogin(context.Background())
			require.Error(t, err)

			_, ok := h.stored(session.KeyUserID)
			assert.False(t, ok)
			_, ok = h.stored(session.KeyToken)
			assert.False(t, ok)
			assert.Empty(t, h.nav.all())

			n := h.lastNote(t)
			assert.Equal(t, notify.SeverityError, n.Severity)
			assert.Equal(t, tt.message, n.Message)

			s := h.ctrl.Snapshot()
			assert.Equal(t, form.LoginCredentials{Email: "a@b.com", Password: "secret1"}, s.Login)
			assert.False(t, s.Loading)
		})
	}
}

type brokenSaver struct{}

func (brokenSaver) Save(context.Context, session.Artifacts) error {
	return xerrors.NewStorageError("save", errors.New("read-only fs"))
}

func TestSubmitLogin_StorageFailureIsLoginFailure(t *testing.T) {
	nav := &fakeNavigator{}
	notes := notify.NewQueue(4)
	ctrl, err := New(Deps{
		Backend:   &fakeBackend{signInResult: client.SignInResult{UserID: "u1", Token: "t1"}},
		Session:   brokenSaver{},
		Notifier:  notes,
		Navigator: nav,
		Logger:    log.Discard(),
	})
	require.NoError(t, err)
	require.NoError(t, ctrl.SetField(form.FieldEmail, "a@b.com"))
	require.NoError(t, ctrl.SetField(form.FieldPassword, "secret1"))

	err = ctrl.SubmitLogin(context.Background())
	assert.Equal(t, xerrors.CodeStorageError, xerrors.CodeOf(err))
	assert.Empty(t, nav.all())
	n, _ := notes.Latest()
	assert.Equal(t, "Login failed. Please try again later", n.Message)
}

func TestSubmitLogin_ValidationNeverHitsNetwork(t *testing.T) {
	h := newHarness(t, VerifyGate)
	h.fillLogin(t, "nope", "123")

	err := h.ctrl.SubmitLogin(context.Background())
	assert.True(t, xerrors.IsValidation(err))
	assert.Empty(t, h.backend.callLog())

	s := h.ctrl.Snapshot()
	assert.Equal(t, "Please enter a valid email address", s.Errors[form.FieldEmail])
	assert.Equal(t, "Password must be at least 6 characters", s.Errors[form.FieldPassword])
	assert.Equal(t, "Please correct the highlighted fields", h.lastNote(t).Message)
	assert.Equal(t, float64(1), testutil.ToFloat64(h.metrics.ValidationFailures.WithLabelValues("login", "email")))
}

func TestSubmitLogin_PanicDoesNotLeaveLoading(t *testing.T) {
	h := newHarness(t, VerifyGate)
	h.backend.panicOnIn = true
	h.fillLogin(t, "a@b.com", "secret1")

	var err error
	assert.NotPanics(t, func() { err = h.ctrl.SubmitLogin(context.Background()) })
	assert.Error(t, err)
	assert.False(t, h.ctrl.Snapshot().Loading)
}

func TestSubmit_WrongMode(t *testing.T) {
	h := newHarness(t, VerifyGate)
	assert.True(t, xerrors.Is(h.ctrl.SubmitRegistration(context.Background()), xerrors.CodeWrongMode))
	assert.True(t, xerrors.Is(h.ctrl.SubmitOTP(context.Background()), xerrors.CodeWrongMode))
	assert.True(t, xerrors.Is(h.ctrl.SetField(form.FieldFullName, "x"), xerrors.CodeWrongMode))

	h.ctrl.SwitchMode()
	assert.True(t, xerrors.Is(h.ctrl.SubmitLogin(context.Background()), xerrors.CodeWrongMode))
	assert.True(t, xerrors.Is(h.ctrl.SubmitOTP(context.Background()), xerrors.CodeNoOTPChallenge))
	assert.True(t, xerrors.Is(h.ctrl.SetOTPCode("1"), xerrors.CodeNoOTPChallenge))
}

func TestSubmitRegistration_OpensDialog(t *testing.T) {
	h := newHarness(t, VerifyGate)
	h.ctrl.SwitchMode()
	h.fillRegister(t, validDraft())

	require.NoError(t, h.ctrl.SubmitRegistration(context.Background()))

	assert.Equal(t, []string{"a@b.com"}, h.backend.sendOTPs)
	s := h.ctrl.Snapshot()
	require.True(t, s.OTPDialogOpen())
	assert.Equal(t, "a@b.com", s.Challenge.Email)
	assert.Equal(t, "", s.Challenge.Code)
	assert.Equal(t, PhaseOTPDialogOpen, s.Phase)
	assert.False(t, s.Loading)
	assert.Equal(t, "OTP sent to a@b.com", h.lastNote(t).Message)
}

func TestSubmitRegistration_MismatchOnlyConfirm(t *testing.T) {
	h := newHarness(t, VerifyGate)
	h.ctrl.SwitchMode()
	d := validDraft()
	d.ConfirmPassword = "secret2"
	h.fillRegister(t, d)

	err := h.ctrl.SubmitRegistration(context.Background())
	assert.True(t, xerrors.IsValidation(err))
	assert.Equal(t, form.FieldErrors{form.FieldConfirmPassword: "Passwords do not match"}, h.ctrl.Snapshot().Errors)
	assert.Empty(t, h.backend.callLog())
}

func TestSubmitRegistration_SendFailureKeepsDraft(t *testing.T) {
	h := newHarness(t, VerifyGate)
	h.backend.sendOTPErr = xerrors.NewRequestFailed(client.OpSendOTP, 429, "Too many requests")
	h.ctrl.SwitchMode()
	h.fillRegister(t, validDraft())

	require.Error(t, h.ctrl.SubmitRegistration(context.Background()))
	s := h.ctrl.Snapshot()
	assert.Equal(t, validDraft(), s.Draft)
	assert.False(t, s.OTPDialogOpen())
	assert.Equal(t, "Too many requests", h.lastNote(t).Message)

	h.backend.sendOTPErr = xerrors.NewNetworkError(client.OpSendOTP, errors.New("dns"))
	require.Error(t, h.ctrl.SubmitRegistration(context.Background()))
	assert.Equal(t, "Could not send OTP. Please try again", h.lastNote(t).Message)
}

func openDialog(t *testing.T, h *harness) {
	t.Helper()
	h.ctrl.SwitchMode()
	h.fillRegister(t, validDraft())
	require.NoError(t, h.ctrl.SubmitRegistration(context.Background()))
}

func TestSubmitOTP_EmptyCode(t *testing.T) {
	h := newHarness(t, VerifyGate)
	openDialog(t, h)
	require.NoError(t, h.ctrl.SetOTPCode("   "))
	before := len(h.backend.callLog())

	err := h.ctrl.SubmitOTP(context.Background())
	assert.True(t, xerrors.Is(err, xerrors.CodeOTPRequired))
	assert.Len(t, h.backend.callLog(), before)

	n := h.lastNote(t)
	assert.Equal(t, notify.SeverityInfo, n.Severity)
	assert.Equal(t, "Please enter OTP", n.Message)
	assert.True(t, h.ctrl.Snapshot().OTPDialogOpen())
}

func TestSubmitOTP_HappyPath(t *testing.T) {
	h := newHarness(t, VerifyGate)
	openDialog(t, h)
	require.NoError(t, h.ctrl.SetOTPCode("123456"))

	require.NoError(t, h.ctrl.SubmitOTP(context.Background()))

	assert.Equal(t, []string{"send_otp", "verify_otp", "sign_up"}, h.backend.callLog())
	assert.Equal(t, [][2]string{{"a@b.com", "123456"}}, h.backend.verifies)
	assert.Equal(t, []client.SignUpRequest{{Name: "Al", Email: "a@b.com", Password: "secret1"}}, h.backend.signUps)

	s := h.ctrl.Snapshot()
	assert.Equal(t, ModeLogin, s.Mode)
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Equal(t, form.LoginCredentials{}, s.Login)
	assert.Equal(t, form.RegistrationDraft{}, s.Draft)
	assert.Empty(t, s.Errors)
	assert.False(t, s.OTPDialogOpen())
	assert.False(t, s.Loading)

	n := h.lastNote(t)
	assert.Equal(t, notify.SeveritySuccess, n.Severity)
	assert.Equal(t, "Registration complete! Please log in.", n.Message)

	// 注册不写会话
	_, ok := h.stored(session.KeyToken)
	assert.False(t, ok)
}

// 对话框打开后再改表单，创建账号仍使用发送验证码时校验过的内容
func TestSubmitOTP_SignsUpWithValidatedDraft(t *testing.T) {
	h := newHarness(t, VerifyGate)
	openDialog(t, h)

	require.NoError(t, h.ctrl.SetField(form.FieldPassword, "x"))
	require.NoError(t, h.ctrl.SetField(form.FieldFullName, ""))
	require.NoError(t, h.ctrl.SetOTPCode("123456"))
	require.NoError(t, h.ctrl.SubmitOTP(context.Background()))

	assert.Equal(t, []client.SignUpRequest{{Name: "Al", Email: "a@b.com", Password: "secret1"}}, h.backend.signUps)
}

func TestSnapshot_HidesValidatedDraft(t *testing.T) {
	h := newHarness(t, VerifyGate)
	openDialog(t, h)

	s := h.ctrl.Snapshot()
	require.NotNil(t, s.Challenge)
	assert.Equal(t, OTPChallenge{Email: "a@b.com"}, *s.Challenge)
}

func TestSubmitOTP_GatePolicyStopsOnVerifyFailure(t *testing.T) {
	h := newHarness(t, VerifyGate)
	h.backend.verifyErr = xerrors.NewRequestFailed(client.OpVerifyOTP, 400, "Invalid or expired OTP")
	openDialog(t, h)
	require.NoError(t, h.ctrl.SetOTPCode("000000"))

	require.Error(t, h.ctrl.SubmitOTP(context.Background()))

	assert.Equal(t, []string{"send_otp", "verify_otp"}, h.backend.callLog())
	s := h.ctrl.Snapshot()
	require.True(t, s.OTPDialogOpen())
	assert.Equal(t, "000000", s.Challenge.Code)
	assert.Equal(t, PhaseOTPDialogOpen, s.Phase)
	assert.Equal(t, ModeRegister, s.Mode)
	assert.False(t, s.Loading)
	assert.Equal(t, "Invalid or expired OTP", h.lastNote(t).Message)
}

func TestSubmitOTP_AdvisoryPolicyContinues(t *testing.T) {
	h := newHarness(t, VerifyAdvisory)
	h.backend.verifyErr = xerrors.NewNetworkError(client.OpVerifyOTP, errors.New("timeout"))
	openDialog(t, h)
	require.NoError(t, h.ctrl.SetOTPCode("000000"))

	require.NoError(t, h.ctrl.SubmitOTP(context.Background()))

	assert.Equal(t, []string{"send_otp", "verify_otp", "sign_up"}, h.backend.callLog())
	assert.Equal(t, ModeLogin, h.ctrl.Snapshot().Mode)

	var messages []string
	for _, n := range h.notes.All() {
		messages = append(messages, n.Message)
	}
	assert.Contains(t, messages, "OTP verification failed")
	assert.Contains(t, messages, "Registration complete! Please log in.")
}

func TestSubmitOTP_SignUpFailureKeepsDialog(t *testing.T) {
	h := newHarness(t, VerifyGate)
	h.backend.signUpErr = xerrors.NewRequestFailed(client.OpSignUp, 409, "")
	openDialog(t, h)
	require.NoError(t, h.ctrl.SetOTPCode("123456"))

	require.Error(t, h.ctrl.SubmitOTP(context.Background()))
	s := h.ctrl.Snapshot()
	assert.True(t, s.OTPDialogOpen())
	assert.Equal(t, validDraft(), s.Draft)
	assert.Equal(t, PhaseOTPDialogOpen, s.Phase)
	assert.Equal(t, "Registration failed. Please try again", h.lastNote(t).Message)
}

func TestCloseOTPDialog_KeepsDraft(t *testing.T) {
	h := newHarness(t, VerifyGate)
	openDialog(t, h)

	require.NoError(t, h.ctrl.CloseOTPDialog())
	s := h.ctrl.Snapshot()
	assert.False(t, s.OTPDialogOpen())
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Equal(t, validDraft(), s.Draft)
}

// waitStarted 等待后端调用开始
func waitStarted(t *testing.T, ch chan string, want string) {
	t.Helper()
	select {
	case op := <-ch:
		require.Equal(t, want, op)
	case <-time.After(2 * time.Second):
		t.Fatalf("backend call %s did not start", want)
	}
}

func TestLoadingSpansEachCall(t *testing.T) {
	for _, failing := range []bool{false, true} {
		h := newHarness(t, VerifyGate)
		h.backend.gate = make(chan struct{})
		h.backend.started = make(chan string)
		if failing {
			h.backend.signInErr = xerrors.NewNetworkError(client.OpSignIn, errors.New("down"))
		}

		h.fillLogin(t, "a@b.com", "secret1")
		done := make(chan error, 1)
		go func() { done <- h.ctrl.SubmitLogin(context.Background()) }()

		waitStarted(t, h.backend.started, "sign_in")
		s := h.ctrl.Snapshot()
		assert.True(t, s.Loading)
		assert.Equal(t, PhaseSubmitting, s.Phase)

		// 进行中的再次提交被拒绝
		assert.True(t, xerrors.Is(h.ctrl.SubmitLogin(context.Background()), xerrors.CodeOperationInProgress))
		assert.True(t, xerrors.Is(h.ctrl.SetField(form.FieldEmail, "x"), xerrors.CodeOperationInProgress))

		h.backend.gate <- struct{}{}
		err := <-done
		assert.Equal(t, failing, err != nil)
		assert.False(t, h.ctrl.Snapshot().Loading)
	}
}

func TestLoadingSpansRegistrationCalls(t *testing.T) {
	h := newHarness(t, VerifyGate)
	h.backend.gate = make(chan struct{})
	h.backend.started = make(chan string)
	h.ctrl.SwitchMode()
	h.fillRegister(t, validDraft())

	done := make(chan error, 1)
	go func() { done <- h.ctrl.SubmitRegistration(context.Background()) }()
	waitStarted(t, h.backend.started, "send_otp")
	assert.True(t, h.ctrl.Snapshot().Loading)
	assert.Equal(t, PhaseRequestingOTP, h.ctrl.Snapshot().Phase)
	h.backend.gate <- struct{}{}
	require.NoError(t, <-done)
	assert.False(t, h.ctrl.Snapshot().Loading)

	require.NoError(t, h.ctrl.SetOTPCode("123456"))
	go func() { done <- h.ctrl.SubmitOTP(context.Background()) }()

	waitStarted(t, h.backend.started, "verify_otp")
	assert.True(t, h.ctrl.Snapshot().Loading)
	assert.Equal(t, PhaseVerifyingOTP, h.ctrl.Snapshot().Phase)
	assert.True(t, xerrors.Is(h.ctrl.CloseOTPDialog(), xerrors.CodeOperationInProgress))
	h.backend.gate <- struct{}{}

	waitStarted(t, h.backend.started, "sign_up")
	assert.True(t, h.ctrl.Snapshot().Loading)
	assert.Equal(t, PhaseCreatingAccount, h.ctrl.Snapshot().Phase)
	h.backend.gate <- struct{}{}

	require.NoError(t, <-done)
	assert.False(t, h.ctrl.Snapshot().Loading)
}

func TestSwitchModeDuringFlightDiscardsResponse(t *testing.T) {
	h := newHarness(t, VerifyGate)
	h.backend.gate = make(chan struct{})
	h.backend.started = make(chan string)
	h.fillLogin(t, "a@b.com", "secret1")

	done := make(chan error, 1)
	go func() { done <- h.ctrl.SubmitLogin(context.Background()) }()
	waitStarted(t, h.backend.started, "sign_in")

	h.ctrl.SwitchMode()
	notesBefore := len(h.notes.All())
	h.backend.gate <- struct{}{}

	assert.ErrorIs(t, <-done, ErrSuperseded)
	_, ok := h.stored(session.KeyToken)
	assert.False(t, ok)
	assert.Empty(t, h.nav.all())
	assert.Len(t, h.notes.All(), notesBefore)

	s := h.ctrl.Snapshot()
	assert.Equal(t, ModeRegister, s.Mode)
	assert.False(t, s.Loading)
}

func TestDisplayMessage(t *testing.T) {
	assert.Equal(t, "backend says", DisplayMessage(xerrors.NewRequestFailed("op", 400, "backend says"), "fb"))
	assert.Equal(t, "fb", DisplayMessage(xerrors.NewRequestFailed("op", 500, ""), "fb"))
	assert.Equal(t, "fb", DisplayMessage(xerrors.NewNetworkError("op", errors.New("x")), "fb"))
	assert.Equal(t, "Please correct the highlighted fields", DisplayMessage(xerrors.NewValidationError(nil), "fb"))
	assert.Equal(t, "fb", DisplayMessage(errors.New("plain"), "fb"))
}

func TestParseVerifyPolicy(t *testing.T) {
	assert.Equal(t, VerifyAdvisory, ParseVerifyPolicy(" Advisory "))
	assert.Equal(t, VerifyGate, ParseVerifyPolicy("gate"))
	assert.Equal(t, VerifyGate, ParseVerifyPolicy(""))
}
