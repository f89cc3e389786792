package nats

import (
	"fmt"
	"time"

	"expense-tracker/internal/pkg/log"

	"github.com/nats-io/nats.go"
)

// Connect 连接 NATS，断线后自动重连
// url 为空时返回 nil 连接，调用方按"未启用"处理
func Connect(url, name string, logger log.Logger) (*nats.Conn, error) {
	if url == "" {
		return nil, nil
	}
	if logger == nil {
		logger = log.GetLogger()
	}

	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.Timeout(3*time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS 连接断开", log.Err(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS 已重新连接", log.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("NATS 连接失败: %w", err)
	}
	return conn, nil
}
