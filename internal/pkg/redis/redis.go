package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound 键不存在
var ErrNotFound = errors.New("redis: key not found")

// Config Redis 配置
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Client Redis 客户端封装
type Client struct {
	*redis.Client
}

// NewClient 创建 Redis 客户端并测试连接
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	return &Client{Client: rdb}, nil
}

// SetWithTTL 设置键值对，ttl 为 0 表示不过期
func (c *Client) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Set(ctx, key, value, ttl).Err()
}

// GetString 获取字符串值，键不存在时返回 ErrNotFound
func (c *Client) GetString(ctx context.Context, key string) (string, error) {
	result, err := c.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return result, err
}

// Exists 检查键是否存在
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.Client.Exists(ctx, key).Result()
	return n > 0, err
}

// DeleteKey 删除键
func (c *Client) DeleteKey(ctx context.Context, keys ...string) error {
	return c.Del(ctx, keys...).Err()
}
