package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CacheMetrics 追踪会话缓存命中情况。
type CacheMetrics struct {
	Hit   *prometheus.CounterVec
	Miss  *prometheus.CounterVec
	Evict *prometheus.CounterVec
}

// NewCacheMetricsWithRegistry 创建 CacheMetrics, 允许 tests 注入自定义 registry。
func NewCacheMetricsWithRegistry(namespace string, reg prometheus.Registerer) *CacheMetrics {
	if reg == nil {
		reg = GetRegisterer()
	}
	factory := promauto.With(reg)

	return &CacheMetrics{
		Hit: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "session_cache_hits_total",
				Help:      "Count of session cache hits by service",
			},
			[]string{"service"},
		),
		Miss: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "session_cache_miss_total",
				Help:      "Count of session cache misses by service",
			},
			[]string{"service"},
		),
		Evict: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "session_cache_evict_total",
				Help:      "Count of session cache evictions grouped by service and reason",
			},
			[]string{"service", "reason"},
		),
	}
}

// IncHit 增加缓存命中次数。
func (m *CacheMetrics) IncHit(service string) {
	if m == nil {
		return
	}
	m.Hit.WithLabelValues(normalizeServiceName(service)).Inc()
}

// IncMiss 增加缓存未命中次数。
func (m *CacheMetrics) IncMiss(service string) {
	if m == nil {
		return
	}
	m.Miss.WithLabelValues(normalizeServiceName(service)).Inc()
}

// IncEvicted 记录缓存剔除次数。
func (m *CacheMetrics) IncEvicted(service, reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	m.Evict.WithLabelValues(normalizeServiceName(service), reason).Inc()
}
