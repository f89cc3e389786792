package stub

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"expense-tracker/internal/pkg/redis"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// KV 验证码存储接口，*redis.Client 直接满足
type KV interface {
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	DeleteKey(ctx context.Context, keys ...string) error
}

var _ KV = (*redis.Client)(nil)

type kvEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryKV 进程内 KV，未配置 Redis 时使用
type MemoryKV struct {
	mu    sync.Mutex
	items map[string]kvEntry
	clock func() time.Time
}

// NewMemoryKV 创建 MemoryKV
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string]kvEntry), clock: time.Now}
}

func (m *MemoryKV) SetWithTTL(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = kvEntry{value: fmt.Sprint(value), expiresAt: m.clock().Add(ttl)}
	return nil
}

func (m *MemoryKV) GetString(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[key]
	if !ok {
		return "", redis.ErrNotFound
	}
	if m.clock().After(e.expiresAt) {
		delete(m.items, key)
		return "", redis.ErrNotFound
	}
	return e.value, nil
}

func (m *MemoryKV) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.GetString(ctx, key)
	if err == redis.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (m *MemoryKV) DeleteKey(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

// PurgeExpired 删除所有已过期的键，返回删除数量
func (m *MemoryKV) PurgeExpired(_ context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock()
	n := 0
	for k, e := range m.items {
		if now.After(e.expiresAt) {
			delete(m.items, k)
			n++
		}
	}
	return n
}

// Len 当前保存的键数量，包含尚未清理的过期键
func (m *MemoryKV) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// User 桩服务中的注册用户
type User struct {
	ID           string
	Name         string
	Email        string
	PhoneNumber  string
	PasswordHash []byte
	CreatedAt    time.Time
}

// UserStore 内存用户表，邮箱不区分大小写唯一
type UserStore struct {
	mu      sync.RWMutex
	byEmail map[string]*User
	cost    int
}

// NewUserStore 创建用户表，cost 为 bcrypt 代价，<=0 时使用默认值
func NewUserStore(cost int) *UserStore {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &UserStore{byEmail: make(map[string]*User), cost: cost}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create 创建用户，邮箱已存在时返回 false
func (s *UserStore) Create(name, email, phone, password string) (*User, bool, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := emailKey(email)
	if _, exists := s.byEmail[key]; exists {
		return nil, false, nil
	}
	u := &User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        strings.TrimSpace(email),
		PhoneNumber:  phone,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	s.byEmail[key] = u
	return u, true, nil
}

// Authenticate 校验邮箱和密码
func (s *UserStore) Authenticate(email, password string) (*User, bool) {
	s.mu.RLock()
	u, ok := s.byEmail[emailKey(email)]
	s.mu.RUnlock()
	if !ok {
		// 未知邮箱同样做一次比较
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, false
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return nil, false
	}
	return u, true
}

// Count 用户数量
func (s *UserStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byEmail)
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("expense-tracker-dummy"), bcrypt.MinCost)
