package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"expense-tracker/internal/pkg/log"
	"expense-tracker/internal/pkg/trace"
)

// Publisher 消息发布接口，*nats.Conn 满足该接口
type Publisher interface {
	Publish(subject string, data []byte) error
}

// HealthFunc 返回发布通道当前是否可用
type HealthFunc func() bool

// DefaultSubject 默认通知主题
const DefaultSubject = "expense.client.notifications"

// NatsPublisher 将每条通知以 JSON 形式发布到 NATS
// 连接缺失或不健康时静默降级，不影响界面通知
type NatsPublisher struct {
	conn    Publisher
	subject string
	healthy HealthFunc
	logger  log.Logger
}

// natsEvent 发布的事件体
type natsEvent struct {
	Notification
	TraceID string `json:"trace_id,omitempty"`
}

// NewNatsPublisher 创建发布器, conn 为 nil 时所有发布为空操作
func NewNatsPublisher(conn Publisher, subject string, healthy HealthFunc, logger log.Logger) *NatsPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = log.GetLogger()
	}
	return &NatsPublisher{conn: conn, subject: subject, healthy: healthy, logger: logger}
}

// Notify 实现 Notifier
func (p *NatsPublisher) Notify(ctx context.Context, n Notification) {
	if err := p.Publish(ctx, n); err != nil {
		p.logger.WarnContext(ctx, "发布通知到 NATS 失败", log.String("subject", p.subject), log.Err(err))
	}
}

// Publish 发布单条通知
func (p *NatsPublisher) Publish(ctx context.Context, n Notification) error {
	if p == nil || p.conn == nil {
		return nil // 没有连接时静默降级
	}
	if p.healthy != nil && !p.healthy() {
		return nil
	}

	data, err := json.Marshal(natsEvent{Notification: n, TraceID: trace.GetTraceID(ctx)})
	if err != nil {
		return fmt.Errorf("marshal notification failed: %w", err)
	}
	return p.conn.Publish(p.subject, data)
}
