// File: internal/pkg/metrics/middleware.go
package metrics

import (
	"errors"
	"net/http"
	"time"

	"expense-tracker/internal/pkg/xerrors"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Middleware Echo 中间件 - 按路由模板记录请求数与耗时
func Middleware(m *HTTPMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil || IsHealthCheckEndpoint(c.Request().URL.Path) {
				return next(c)
			}

			service := GetServiceName()
			m.RequestsInProgress.WithLabelValues(service).Inc()
			defer m.RequestsInProgress.WithLabelValues(service).Dec()

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else if appErr, ok := xerrors.As(err); ok {
					status = xerrors.GetHTTPStatus(appErr.Code)
				} else if !c.Response().Committed {
					status = http.StatusInternalServerError
				}
			}
			m.RecordRequest(service, c.Path(), c.Request().Method, status, time.Since(start))
			return err
		}
	}
}

// EchoHandler 暴露指定 registry 的 /metrics 端点
func EchoHandler(gatherer prometheus.Gatherer) echo.HandlerFunc {
	h := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	return echo.WrapHandler(h)
}

// Handler 返回指定 registry 的 net/http 处理器，供客户端的 METRICS_ADDR 使用
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
