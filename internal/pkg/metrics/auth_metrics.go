package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 后端调用结果标签
const (
	OutcomeSuccess       = "success"
	OutcomeRequestFailed = "request_failed"
	OutcomeNetworkError  = "network_error"
)

// AuthMetrics 追踪认证流程的客户端指标。
type AuthMetrics struct {
	RequestDuration    *prometheus.HistogramVec
	FlowTransitions    *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	InFlight           prometheus.Gauge
}

var authDurationBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.2, 0.3, 0.5, 1, 2, 5, 10}

// NewAuthMetricsWithRegistry 创建 AuthMetrics, 允许 tests 注入自定义 registry。
func NewAuthMetricsWithRegistry(namespace string, reg prometheus.Registerer) *AuthMetrics {
	if reg == nil {
		reg = GetRegisterer()
	}
	factory := promauto.With(reg)

	return &AuthMetrics{
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "auth_request_duration_seconds",
				Help:      "Latency histogram of auth backend calls by operation and outcome",
				Buckets:   authDurationBuckets,
			},
			[]string{"service", "operation", "outcome"},
		),

		FlowTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_flow_transitions_total",
				Help:      "Count of auth flow state transitions grouped by flow and target state",
			},
			[]string{"flow", "state"},
		),

		ValidationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_validation_failures_total",
				Help:      "Count of failed form fields grouped by form and field",
			},
			[]string{"form", "field"},
		),

		InFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "auth_requests_in_flight",
				Help:      "Number of auth backend calls currently in flight",
			},
		),
	}
}

// NewAuthMetrics 使用默认 registry 创建 AuthMetrics。
func NewAuthMetrics(namespace string) *AuthMetrics {
	return NewAuthMetricsWithRegistry(namespace, GetRegisterer())
}

// ObserveRequest 记录一次后端调用耗时。
func (m *AuthMetrics) ObserveRequest(operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = OutcomeSuccess
	}
	m.RequestDuration.WithLabelValues(GetServiceName(), operation, outcome).Observe(duration.Seconds())
}

// IncTransition 记录流程状态迁移。
func (m *AuthMetrics) IncTransition(flow, state string) {
	if m == nil {
		return
	}
	m.FlowTransitions.WithLabelValues(flow, state).Inc()
}

// IncValidationFailure 记录校验失败的字段。
func (m *AuthMetrics) IncValidationFailure(form string, fields ...string) {
	if m == nil {
		return
	}
	for _, f := range fields {
		m.ValidationFailures.WithLabelValues(form, f).Inc()
	}
}

// TrackInFlight 增加进行中计数，返回的函数负责递减。
func (m *AuthMetrics) TrackInFlight() func() {
	if m == nil {
		return func() {}
	}
	m.InFlight.Inc()
	return m.InFlight.Dec
}
