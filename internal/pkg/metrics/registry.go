package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var defaultRegistryManager = &RegistryManager{
	registerer: prometheus.DefaultRegisterer,
}

// RegistryManager 管理默认的 Prometheus Registerer, 支持在测试中注入自定义实现。
type RegistryManager struct {
	mu         sync.RWMutex
	registerer prometheus.Registerer
}

// SetRegisterer 设置全局 Registerer。
func SetRegisterer(r prometheus.Registerer) {
	defaultRegistryManager.Set(r)
}

// GetRegisterer 返回当前的 Registerer。
func GetRegisterer() prometheus.Registerer {
	return defaultRegistryManager.Get()
}

// Set 设置 Registerer, nil 恢复为默认值。
func (m *RegistryManager) Set(r prometheus.Registerer) {
	if r == nil {
		r = prometheus.DefaultRegisterer
	}
	m.mu.Lock()
	m.registerer = r
	m.mu.Unlock()
}

// Get 获取 Registerer。
func (m *RegistryManager) Get() prometheus.Registerer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.registerer == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registerer
}

// NewProcessRegistry 创建独立 registry，并注册 Go 运行时与进程指标。
// 客户端与桩服务各自持有一份，避免与全局默认 registry 互相污染。
func NewProcessRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
