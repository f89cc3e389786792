// File: internal/pkg/metrics/http_metrics.go
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics 桩服务 HTTP 指标收集器
type HTTPMetrics struct {
	// HTTP 请求总数（按路由模板、方法、状态码分组）
	RequestsTotal *prometheus.CounterVec

	// HTTP 请求延迟直方图（按路由模板分组）
	RequestDuration *prometheus.HistogramVec

	// 当前进行中的请求数
	RequestsInProgress *prometheus.GaugeVec
}

// HTTPBuckets HTTP 请求延迟 buckets（秒）
var HTTPBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.2, 0.5, 1, 2}

// NewHTTPMetricsWithRegistry 创建新的 HTTP 指标收集器（使用自定义注册表）
func NewHTTPMetricsWithRegistry(namespace string, registerer prometheus.Registerer) *HTTPMetrics {
	if registerer == nil {
		registerer = GetRegisterer()
	}
	factory := promauto.With(registerer)

	return &HTTPMetrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by service, route template, method, and status code",
			},
			[]string{"service", "route", "method", "status_code"},
		),

		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency histogram by service and route template",
				Buckets:   HTTPBuckets,
			},
			[]string{"service", "route"},
		),

		RequestsInProgress: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_progress",
				Help:      "Current number of HTTP requests being processed by service",
			},
			[]string{"service"},
		),
	}
}

// RecordRequest 记录 HTTP 请求指标, route 为路由模板（如 "/api/expense/recent/:id"）
func (m *HTTPMetrics) RecordRequest(service, route, method string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	service = normalizeServiceName(service)
	route = NormalizeRoute(route)
	m.RequestsTotal.WithLabelValues(service, route, method, strconv.Itoa(statusCode)).Inc()
	m.RequestDuration.WithLabelValues(service, route).Observe(duration.Seconds())
}

// IsHealthCheckEndpoint 判断是否为健康检查端点，这些端点不计入指标
func IsHealthCheckEndpoint(path string) bool {
	switch path {
	case "/metrics", "/health", "/healthz", "/readyz", "/livez":
		return true
	}
	return false
}

// NormalizeRoute 未匹配路由统一为 unknown，防止标签基数爆炸。
func NormalizeRoute(route string) string {
	if route == "" {
		return "unknown"
	}
	return route
}
