package notify

import (
	"context"
	"sync"
	"time"
)

// Severity 通知级别
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification 面向用户的一条通知
type Notification struct {
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
}

// Notifier 通知能力，由界面层注入
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc 函数适配器
type NotifierFunc func(ctx context.Context, n Notification)

// Notify 实现 Notifier
func (f NotifierFunc) Notify(ctx context.Context, n Notification) {
	f(ctx, n)
}

// Fanout 将通知依次投递给多个 Notifier
type Fanout []Notifier

// Notify 实现 Notifier
func (f Fanout) Notify(ctx context.Context, n Notification) {
	for _, target := range f {
		if target != nil {
			target.Notify(ctx, n)
		}
	}
}

// New 构造带时间戳的通知
func New(severity Severity, message string) Notification {
	return Notification{Severity: severity, Message: message, At: time.Now()}
}

// Discard 丢弃所有通知
var Discard Notifier = NotifierFunc(func(context.Context, Notification) {})

// Queue 线程安全的通知队列，保留最近 limit 条
type Queue struct {
	mu    sync.Mutex
	items []Notification
	limit int
}

// NewQueue 创建通知队列，limit <= 0 时默认 16
func NewQueue(limit int) *Queue {
	if limit <= 0 {
		limit = 16
	}
	return &Queue{limit: limit}
}

// Notify 实现 Notifier
func (q *Queue) Notify(_ context.Context, n Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, n)
	if len(q.items) > q.limit {
		q.items = q.items[len(q.items)-q.limit:]
	}
}

// All 返回当前所有通知的副本
func (q *Queue) All() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}

// Latest 返回最近一条通知
func (q *Queue) Latest() (Notification, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Notification{}, false
	}
	return q.items[len(q.items)-1], true
}

// Clear 清空队列
func (q *Queue) Clear() {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
}
