package stub

import (
	"expense-tracker/internal/middleware"
	_ "expense-tracker/internal/modules/auth/stub/docs"
	"expense-tracker/internal/pkg/log"
	"expense-tracker/internal/pkg/metrics"
	"expense-tracker/internal/pkg/response"
	"expense-tracker/internal/pkg/validation"
	"expense-tracker/internal/pkg/validator"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// ServerOptions 构建 echo 实例所需依赖
type ServerOptions struct {
	Service *Service
	Logger  log.Logger
	// Registry 为 nil 时不挂载 /metrics
	Registry *prometheus.Registry
	// OTPRatePerMinute <=0 时不限流
	OTPRatePerMinute int
	// CORSOrigins 为空时允许任意来源
	CORSOrigins []string
}

// NewServer 组装中间件与路由
func NewServer(opts ServerOptions) *echo.Echo {
	logger := opts.Logger
	if logger == nil {
		logger = log.GetLogger()
	}
	respWriter := response.NewJSONWriter(logger)
	h := NewHandler(opts.Service, respWriter)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.HTTPErrorHandler(respWriter, logger)

	e.Use(middleware.TraceMiddleware())
	e.Use(middleware.LoggingMiddleware(logger))
	e.Use(middleware.ErrorMiddleware(respWriter, logger))
	e.Use(middleware.RecoveryMiddleware(respWriter, logger))
	e.Use(middleware.CORSMiddleware(opts.CORSOrigins...))
	e.Use(middleware.SecurityMiddleware())

	if opts.Registry != nil {
		e.Use(metrics.Middleware(metrics.NewHTTPMetricsWithRegistry("auth_stub", opts.Registry)))
		e.GET("/metrics", metrics.EchoHandler(opts.Registry))
	}
	e.GET("/health", h.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	auth := e.Group("/api/auth", middleware.NoStoreMiddleware())
	auth.POST("/sign-in", h.SignIn)
	if opts.OTPRatePerMinute > 0 {
		auth.POST("/send-otp", h.SendOTP, middleware.RateLimitMiddleware(float64(opts.OTPRatePerMinute)/60, opts.OTPRatePerMinute))
	} else {
		auth.POST("/send-otp", h.SendOTP)
	}
	auth.POST("/verify-otp", h.VerifyOTP)
	auth.POST("/sign-up", h.SignUp)

	expense := e.Group("/api/expense", middleware.NoStoreMiddleware(), validation.UUIDParamMiddleware("user_id"), h.RequireToken)
	expense.GET("/recent/:user_id", h.RecentExpenses)
	expense.GET("/monthly/:user_id", h.MonthlyExpenses)
	expense.GET("/categories/:user_id", h.CategoryExpenses)

	return e
}
