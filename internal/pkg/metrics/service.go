package metrics

import "sync/atomic"

// 本仓库的两个进程，作为指标的 service 标签
const (
	ServiceClient = "expense-client"
	ServiceStub   = "auth-stub"
)

var serviceName atomic.Pointer[string]

// SetServiceName 进程启动时调用一次，空字符串恢复为 ServiceClient
func SetServiceName(name string) {
	if name == "" {
		name = ServiceClient
	}
	serviceName.Store(&name)
}

// GetServiceName 未设置时为 ServiceClient
func GetServiceName() string {
	if p := serviceName.Load(); p != nil {
		return *p
	}
	return ServiceClient
}

func normalizeServiceName(name string) string {
	if name == "" {
		return GetServiceName()
	}
	return name
}
