// Package session 持久化登录凭据（user_id、token）。
// 只有认证流程持有 Writer，其他组件通过 Reader 只读访问。
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	rediswrap "expense-tracker/internal/pkg/redis"
)

// 存储键
const (
	KeyUserID = "user_id"
	KeyToken  = "token"
)

// Storage 键值存储，语义对应浏览器 localStorage
type Storage interface {
	SetItem(ctx context.Context, key, value string) error
	GetItem(ctx context.Context, key string) (string, bool, error)
	RemoveItem(ctx context.Context, key string) error
}

// MemoryStorage 进程内存储，用于测试与 SESSION_STORE=memory
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryStorage 创建内存存储
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (m *MemoryStorage) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.items[key] = value
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryStorage) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}

// FileStorage 以 JSON 文件保存键值，文件权限 0600
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage 创建文件存储，文件不存在时视为空
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path 返回文件路径
func (f *FileStorage) Path() string { return f.path }

func (f *FileStorage) SetItem(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.load()
	if err != nil {
		return err
	}
	items[key] = value
	return f.save(items)
}

func (f *FileStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := items[key]
	return v, ok, nil
}

func (f *FileStorage) RemoveItem(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)
	return f.save(items)
}

func (f *FileStorage) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	items := map[string]string{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	return items, nil
}

// save 先写临时文件再 rename，避免写到一半的文件
func (f *FileStorage) save(items map[string]string) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

// RedisStorage 以 Redis 保存键值，适合多个终端共享会话
type RedisStorage struct {
	client *rediswrap.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStorage 创建 Redis 存储，ttl 为 0 表示不过期
func NewRedisStorage(client *rediswrap.Client, prefix string, ttl time.Duration) *RedisStorage {
	if prefix == "" {
		prefix = "expense:session:"
	}
	return &RedisStorage{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStorage) SetItem(ctx context.Context, key, value string) error {
	return r.client.SetWithTTL(ctx, r.prefix+key, value, r.ttl)
}

func (r *RedisStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.GetString(ctx, r.prefix+key)
	if errors.Is(err, rediswrap.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisStorage) RemoveItem(ctx context.Context, key string) error {
	return r.client.DeleteKey(ctx, r.prefix+key)
}
