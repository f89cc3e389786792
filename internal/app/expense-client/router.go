package expenseclient

import (
	"context"
	"sync"

	"expense-tracker/internal/modules/auth/flow"
)

// Router 记录流程请求的跳转，由界面在命令完成后取走
type Router struct {
	mu      sync.Mutex
	pending flow.Route
}

// Navigate 实现 flow.Navigator
func (r *Router) Navigate(_ context.Context, route flow.Route) {
	r.mu.Lock()
	r.pending = route
	r.mu.Unlock()
}

// Take 取出并清空待处理的跳转
func (r *Router) Take() (flow.Route, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	route := r.pending
	r.pending = ""
	return route, route != ""
}
