package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func withServiceName(t *testing.T, name string) {
	original := GetServiceName()
	SetServiceName(name)
	t.Cleanup(func() {
		SetServiceName(original)
	})
}

// TestMiddleware_RouteTemplate 验证中间件使用路由模板作为标签
func TestMiddleware_RouteTemplate(t *testing.T) {
	withServiceName(t, "test-service")
	reg := prometheus.NewRegistry()
	m := NewHTTPMetricsWithRegistry("test", reg)

	e := echo.New()
	e.Use(Middleware(m))
	e.GET("/api/expense/recent/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.POST("/api/auth/sign-in", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusUnauthorized, "nope")
	})

	for _, p := range []string{"/api/expense/recent/1", "/api/expense/recent/2"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/sign-in", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Equal(t, float64(2), testutil.ToFloat64(
		m.RequestsTotal.WithLabelValues("test-service", "/api/expense/recent/:id", "GET", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.RequestsTotal.WithLabelValues("test-service", "/api/auth/sign-in", "POST", "401")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.RequestsInProgress.WithLabelValues("test-service")))
}

// TestMiddleware_SkipsHealthCheck 健康检查不计入指标
func TestMiddleware_SkipsHealthCheck(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetricsWithRegistry("test", reg)

	e := echo.New()
	e.Use(Middleware(m))
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, 0, testutil.CollectAndCount(m.RequestsTotal))
}

func TestEchoHandler_ExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAuthMetricsWithRegistry("test", reg)
	m.IncTransition("login", "success")

	e := echo.New()
	e.GET("/metrics", EchoHandler(reg))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_auth_flow_transitions_total")
}
