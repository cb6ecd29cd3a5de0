package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Store counts hits per key inside a fixed window that starts at the first hit.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}

// RedisStore keeps counters in Redis so every instance shares one window.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Incr increments key and starts its expiry on the first hit.
func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// MemoryStore is the single-process fallback used when no Redis address is configured.
type MemoryStore struct {
	mu     sync.Mutex
	counts *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: cache.New(cache.NoExpiration, 10*time.Minute)}
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.counts.Add(key, int64(1), window); err == nil {
		return 1, nil
	}
	return s.counts.IncrementInt64(key, 1)
}

func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.counts.Delete(key)
	return nil
}
