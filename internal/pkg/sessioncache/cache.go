package sessioncache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"sync"
	"time"

	"expense-tracker/internal/pkg/log"
	"expense-tracker/internal/pkg/metrics"
)

const service = "auth-stub"

// Session 描述桩服务签发的登录会话。
type Session struct {
	Token  string
	UserID string
	Email  string
}

type entry struct {
	value     Session
	expiresAt time.Time
}

// Cache 提供线程安全的 token → Session 缓存, 用于校验 Bearer token。
type Cache struct {
	ttl     time.Duration
	metrics *metrics.CacheMetrics
	logger  log.Logger
	clock   func() time.Time
	mu      sync.Mutex
	store   map[string]*entry
}

// New 返回 Cache 实例, m 可为 nil。
func New(ttl time.Duration, m *metrics.CacheMetrics, logger log.Logger) *Cache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = log.GetLogger()
	}
	return &Cache{
		ttl:     ttl,
		metrics: m,
		logger:  logger.With("component", "session_cache"),
		clock:   time.Now,
		store:   make(map[string]*entry),
	}
}

// Get 返回缓存的 Session, 命中时会刷新 TTL。
func (c *Cache) Get(ctx context.Context, token string) (Session, bool) {
	if token == "" {
		c.metrics.IncMiss(service)
		return Session{}, false
	}

	c.mu.Lock()
	value, ok := c.store[token]
	if !ok {
		c.mu.Unlock()
		c.metrics.IncMiss(service)
		c.logger.DebugContext(ctx, "session cache miss", log.String("token_hash", HashToken(token)))
		return Session{}, false
	}

	now := c.clock()
	if now.After(value.expiresAt) {
		delete(c.store, token)
		c.mu.Unlock()
		c.metrics.IncEvicted(service, "expired")
		c.logger.InfoContext(ctx, "session cache expired", log.String("token_hash", HashToken(token)))
		return Session{}, false
	}

	value.expiresAt = now.Add(c.ttl)
	session := value.value
	c.mu.Unlock()

	c.metrics.IncHit(service)
	return session, true
}

// Set 写入或刷新 Session。
func (c *Cache) Set(ctx context.Context, session Session) {
	if session.Token == "" {
		return
	}
	c.mu.Lock()
	c.store[session.Token] = &entry{
		value:     session,
		expiresAt: c.clock().Add(c.ttl),
	}
	c.mu.Unlock()
	c.logger.DebugContext(ctx, "session cache updated",
		log.String("user_id", session.UserID),
		log.String("token_hash", HashToken(session.Token)))
}

// Delete 主动剔除缓存。
func (c *Cache) Delete(ctx context.Context, token, reason string) {
	if token == "" {
		return
	}
	c.mu.Lock()
	_, ok := c.store[token]
	delete(c.store, token)
	c.mu.Unlock()

	if ok {
		c.metrics.IncEvicted(service, reason)
		c.logger.InfoContext(ctx, "session cache evicted",
			log.String("reason", reason),
			log.String("token_hash", HashToken(token)))
	}
}

// PurgeExpired 清理所有过期会话，返回清理数量。
// Get 只在读取时剔除过期条目，从未再次使用的 token 依赖这里回收。
func (c *Cache) PurgeExpired(ctx context.Context) int {
	c.mu.Lock()
	now := c.clock()
	n := 0
	for token, e := range c.store {
		if now.After(e.expiresAt) {
			delete(c.store, token)
			n++
		}
	}
	c.mu.Unlock()

	for i := 0; i < n; i++ {
		c.metrics.IncEvicted(service, "expired")
	}
	if n > 0 {
		c.logger.InfoContext(ctx, "session cache purged", log.Int("count", n))
	}
	return n
}

// Len 返回缓存条目数。
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store)
}

// HashToken 返回 token 的短哈希, 仅用于日志
func HashToken(token string) string {
	if token == "" {
		return ""
	}
	h := sha1.Sum([]byte(token))
	return hex.EncodeToString(h[:])[:12]
}
