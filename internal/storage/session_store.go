package storage

import (
	"complaintdesk/backend/internal/events"
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

// MemorySessionStore keeps session records in a map. It is the default when
// no redis address is configured.
type MemorySessionStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{records: map[string][]byte{}}
}

func (m *MemorySessionStore) LoadSession(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), rec...), nil
}

func (m *MemorySessionStore) SaveSession(_ context.Context, key string, record []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = append([]byte(nil), record...)
	return nil
}

func (m *MemorySessionStore) DeleteSession(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}

// RedisSessionStore keeps session records as plain redis strings.
type RedisSessionStore struct {
	Redis *redis.Client
}

func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{Redis: rdb}
}

// LoadSession reads the record at key; redis.Nil means no record.
func (r *RedisSessionStore) LoadSession(ctx context.Context, key string) ([]byte, error) {
	rec, err := r.Redis.Get(ctx, "session:"+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *RedisSessionStore) SaveSession(ctx context.Context, key string, record []byte) error {
	return r.Redis.Set(ctx, "session:"+key, record, 0).Err()
}

func (r *RedisSessionStore) DeleteSession(ctx context.Context, key string) error {
	return r.Redis.Del(ctx, "session:"+key).Err()
}

// RedisPublisher fans complaint events out through redis pub/sub so every
// server instance can forward them to its websocket clients.
type RedisPublisher struct {
	Redis   *redis.Client
	Channel string
}

func NewRedisPublisher(rdb *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{Redis: rdb, Channel: channel}
}

// Publish публікує подію в Redis Pub/Sub
func (p *RedisPublisher) Publish(ctx context.Context, ev events.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.Redis.Publish(ctx, p.Channel, payload).Err()
}
