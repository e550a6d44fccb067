package service

import (
	"context"
	"encoding/json"
	"errors"
	"scorm_rte/internal/rte"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// SessionStore 保存会话快照，进程重启或请求落到其他实例时用来恢复会话
type SessionStore interface {
	Save(ctx context.Context, snap *rte.Snapshot) error
	// Load returns nil, nil when no snapshot exists.
	Load(ctx context.Context, id string) (*rte.Snapshot, error)
	Delete(ctx context.Context, id string) error
}

type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string][]byte)}
}

func (m *MemoryStore) Save(_ context.Context, snap *rte.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[snap.ID] = data
	return nil
}

func (m *MemoryStore) Load(_ context.Context, id string) (*rte.Snapshot, error) {
	m.mu.RLock()
	data, ok := m.snaps[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var snap rte.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snaps, id)
	return nil
}

type RedisStore struct {
	Redis  *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisStore(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{Redis: rdb, Prefix: prefix, TTL: ttl}
}

func (s *RedisStore) key(id string) string {
	return s.Prefix + id
}

func (s *RedisStore) Save(ctx context.Context, snap *rte.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.Redis.Set(ctx, s.key(snap.ID), data, s.TTL).Err()
}

func (s *RedisStore) Load(ctx context.Context, id string) (*rte.Snapshot, error) {
	data, err := s.Redis.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap rte.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.Redis.Del(ctx, s.key(id)).Err()
}
