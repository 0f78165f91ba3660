package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/clinic-auth/internal/config"
)

// RateLimitStore counts requests per key within a rolling window.
type RateLimitStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (int, error)
	GetCount(ctx context.Context, key string) (int, error)
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int, error) {
	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

func (s *RedisStore) GetCount(ctx context.Context, key string) (int, error) {
	count, err := s.client.Get(ctx, key).Int()
	if err == redis.Nil {
		return 0, nil
	}
	return count, err
}

type MemoryStore struct {
	mu    sync.Mutex
	store map[string]*memoryEntry
}

type memoryEntry struct {
	count     int
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{store: make(map[string]*memoryEntry)}
}

func (s *MemoryStore) Increment(ctx context.Context, key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for k, entry := range s.store {
		if now.After(entry.expiresAt) {
			delete(s.store, k)
		}
	}

	entry, ok := s.store[key]
	if !ok {
		entry = &memoryEntry{expiresAt: now.Add(window)}
		s.store[key] = entry
	}
	entry.count++
	return entry.count, nil
}

func (s *MemoryStore) GetCount(ctx context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.store[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return 0, nil
	}
	return entry.count, nil
}

// RateLimiter throttles brute-force-sensitive routes (login) by client IP.
type RateLimiter struct {
	store RateLimitStore
	cfg   config.RateLimitConfig
}

func NewRateLimiter(store RateLimitStore, cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{store: store, cfg: cfg}
}

func (r *RateLimiter) Limit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !r.cfg.Enabled {
			return c.Next()
		}

		key := fmt.Sprintf("rate_limit:ip:%s", c.IP())
		count, err := r.store.GetCount(c.Context(), key)
		if err != nil {
			// Counter store trouble must not lock everyone out.
			log.Warn().Err(err).Msg("rate limit store unavailable")
			return c.Next()
		}
		if count >= r.cfg.Limit {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests",
			})
		}
		if _, err := r.store.Increment(c.Context(), key, r.cfg.Window); err != nil {
			log.Warn().Err(err).Msg("rate limit increment failed")
		}
		return c.Next()
	}
}
