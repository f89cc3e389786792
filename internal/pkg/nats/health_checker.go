package nats

import (
	"context"
	"sync"
	"time"
)

// ConnState 连接状态探测接口，*nats.Conn 满足该接口
type ConnState interface {
	IsConnected() bool
	IsClosed() bool
}

// HealthChecker NATS连接健康检查器
type HealthChecker struct {
	conn      ConnState
	isHealthy bool
	mutex     sync.RWMutex
	stopOnce  sync.Once
	stopCh    chan struct{}
	interval  time.Duration
}

// NewHealthChecker 创建健康检查器
func NewHealthChecker(conn ConnState, checkInterval time.Duration) *HealthChecker {
	if checkInterval <= 0 {
		checkInterval = 10 * time.Second
	}

	hc := &HealthChecker{
		conn:     conn,
		stopCh:   make(chan struct{}),
		interval: checkInterval,
	}
	hc.checkHealth()
	return hc
}

// Start 启动健康检查，阻塞直到 ctx 结束或 Stop
func (hc *HealthChecker) Start(ctx context.Context) {
	ticker := time.NewTicker(hc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-hc.stopCh:
			return
		case <-ticker.C:
			hc.checkHealth()
		}
	}
}

// Stop 停止健康检查，可重复调用
func (hc *HealthChecker) Stop() {
	hc.stopOnce.Do(func() { close(hc.stopCh) })
}

// IsHealthy 检查连接是否健康
func (hc *HealthChecker) IsHealthy() bool {
	if hc == nil {
		return false
	}
	hc.mutex.RLock()
	defer hc.mutex.RUnlock()
	return hc.isHealthy
}

// checkHealth 执行健康检查
func (hc *HealthChecker) checkHealth() {
	healthy := hc.conn != nil && hc.conn.IsConnected() && !hc.conn.IsClosed()

	hc.mutex.Lock()
	hc.isHealthy = healthy
	hc.mutex.Unlock()
}
