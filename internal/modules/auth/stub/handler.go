package stub

import (
	"net/http"
	"strings"
	"time"

	authreq "expense-tracker/internal/api/request/auth"
	authresp "expense-tracker/internal/api/response/auth"
	"expense-tracker/internal/pkg/response"
	"expense-tracker/internal/pkg/xerrors"

	"github.com/labstack/echo/v4"
)

// Handler 桩服务 HTTP 处理器
type Handler struct {
	service    *Service
	respWriter response.Writer
	clock      func() time.Time
}

// NewHandler 创建处理器
func NewHandler(service *Service, respWriter response.Writer) *Handler {
	return &Handler{service: service, respWriter: respWriter, clock: time.Now}
}

// bind 解析并校验请求体
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return xerrors.New(xerrors.CodeInvalidRequest, "Invalid request body")
	}
	return c.Validate(req)
}

// SignIn 登录并签发 token
// @Summary 登录
// @Tags auth
// @Accept json
// @Produce json
// @Param body body authreq.SignInRequest true "邮箱与密码"
// @Success 200 {object} authresp.SignInResult
// @Failure 400 {object} response.ErrorBody "请求参数错误"
// @Failure 401 {object} response.ErrorBody "邮箱或密码错误"
// @Router /api/auth/sign-in [post]
func (h *Handler) SignIn(c echo.Context) error {
	var req authreq.SignInRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.service.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return response.EchoOK(c, h.respWriter, authresp.SignInResult{
		User:  authresp.SignInUser{UserID: out.UserID},
		Token: out.Token,
	})
}

// SendOTP 生成验证码，开发环境只写日志
// @Summary 发送验证码
// @Tags auth
// @Accept json
// @Produce json
// @Param body body authreq.SendOTPRequest true "邮箱"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.ErrorBody "请求参数错误"
// @Failure 429 {object} response.ErrorBody "发送过于频繁"
// @Router /api/auth/send-otp [post]
func (h *Handler) SendOTP(c echo.Context) error {
	var req authreq.SendOTPRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.service.SendOTP(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return response.EchoMessage(c, h.respWriter, "OTP sent to "+req.Email)
}

// VerifyOTP
// @Summary 校验验证码
// @Tags auth
// @Accept json
// @Produce json
// @Param body body authreq.VerifyOTPRequest true "邮箱与 6 位验证码"
// @Success 200 {object} response.Message
// @Failure 401 {object} response.ErrorBody "验证码错误或过期"
// @Router /api/auth/verify-otp [post]
func (h *Handler) VerifyOTP(c echo.Context) error {
	var req authreq.VerifyOTPRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.service.VerifyOTP(c.Request().Context(), req.Email, req.OTP); err != nil {
		return err
	}
	return response.EchoMessage(c, h.respWriter, "Email verified")
}

// SignUp 邮箱需在 10 分钟内通过 verify-otp
// @Summary 创建账号
// @Tags auth
// @Accept json
// @Produce json
// @Param body body authreq.SignUpRequest true "注册信息"
// @Success 201 {object} response.Message
// @Failure 403 {object} response.ErrorBody "邮箱未验证"
// @Failure 409 {object} response.ErrorBody "邮箱已注册"
// @Router /api/auth/sign-up [post]
func (h *Handler) SignUp(c echo.Context) error {
	var req authreq.SignUpRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	_, err := h.service.SignUp(c.Request().Context(), SignUpInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}
	return response.EchoCreated(c, h.respWriter, response.Message{Message: "Account created"})
}

// RecentExpenses
// @Summary 最近支出
// @Tags expense
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "用户 ID (UUID)"
// @Success 200 {array} Expense
// @Failure 401 {object} response.ErrorBody "token 无效"
// @Router /api/expense/recent/{user_id} [get]
func (h *Handler) RecentExpenses(c echo.Context) error {
	return response.EchoOK(c, h.respWriter, demoExpenses(h.clock()))
}

// MonthlyExpenses
// @Summary 近六个月支出
// @Tags expense
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "用户 ID (UUID)"
// @Success 200 {array} MonthlyTotal
// @Router /api/expense/monthly/{user_id} [get]
func (h *Handler) MonthlyExpenses(c echo.Context) error {
	return response.EchoOK(c, h.respWriter, demoMonthly(h.clock()))
}

// CategoryExpenses
// @Summary 按分类汇总
// @Tags expense
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "用户 ID (UUID)"
// @Success 200 {array} CategoryTotal
// @Router /api/expense/categories/{user_id} [get]
func (h *Handler) CategoryExpenses(c echo.Context) error {
	return response.EchoOK(c, h.respWriter, demoCategories())
}

// Health GET /health
func (h *Handler) Health(c echo.Context) error {
	status := map[string]any{
		"status":    "ok",
		"timestamp": h.clock().UTC(),
		"services": map[string]string{
			"otp_store": h.checkOTPStore(c),
		},
		"users": h.service.users.Count(),
	}
	return c.JSON(http.StatusOK, status)
}

func (h *Handler) checkOTPStore(c echo.Context) string {
	if _, err := h.service.kv.Exists(c.Request().Context(), "stub:health"); err != nil {
		return "error"
	}
	return "ok"
}

// RequireToken 校验 Bearer token，且路径中的 user_id 必须属于该 token
func (h *Handler) RequireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return xerrors.New(xerrors.CodeInvalidToken, "Missing bearer token")
		}
		session, err := h.service.Authorize(c.Request().Context(), strings.TrimSpace(token))
		if err != nil {
			return err
		}
		if id := c.Param("user_id"); id != "" && id != session.UserID {
			return xerrors.New(xerrors.CodeInvalidToken, "Token does not belong to this user")
		}
		return next(c)
	}
}
