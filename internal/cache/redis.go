package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/glucolog/glucolog/internal/domain"
	"github.com/glucolog/glucolog/internal/logger"
	"github.com/redis/go-redis/v9"
)

const suggestionTTL = 15 * time.Minute

// RedisCache stores suggestions in Redis with a TTL; a per-user key set
// makes whole-user invalidation one round trip.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(redisHost, redisPort string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", redisHost, redisPort),
		Password:     "", // no password
		DB:           0,  // default DB
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

func suggestionKey(userID uint, key string) string {
	return fmt.Sprintf("user:%d:suggestion:%s", userID, key)
}

func userKeySet(userID uint) string {
	return fmt.Sprintf("user:%d:suggestion_keys", userID)
}

// Get returns a cached suggestion; Redis failures degrade to a miss so
// the caller recomputes instead of erroring.
func (c *RedisCache) Get(ctx context.Context, userID uint, key string) (*domain.Suggestion, bool) {
	raw, err := c.client.Get(ctx, suggestionKey(userID, key)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Warn("suggestion cache read failed", "error", err)
		return nil, false
	}
	var s domain.Suggestion
	if err := json.Unmarshal(raw, &s); err != nil {
		logger.Warn("suggestion cache entry corrupt", "error", err)
		return nil, false
	}
	return &s, true
}

func (c *RedisCache) Set(ctx context.Context, userID uint, key string, s *domain.Suggestion) {
	raw, err := json.Marshal(s)
	if err != nil {
		logger.Warn("suggestion cache encode failed", "error", err)
		return
	}
	full := suggestionKey(userID, key)
	pipe := c.client.Pipeline()
	pipe.Set(ctx, full, raw, suggestionTTL)
	pipe.SAdd(ctx, userKeySet(userID), full)
	pipe.Expire(ctx, userKeySet(userID), suggestionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("suggestion cache write failed", "error", err)
	}
}

func (c *RedisCache) InvalidateUser(ctx context.Context, userID uint) {
	keys, err := c.client.SMembers(ctx, userKeySet(userID)).Result()
	if err != nil {
		logger.Warn("suggestion cache invalidation failed", "error", err)
		return
	}
	keys = append(keys, userKeySet(userID))
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("suggestion cache invalidation failed", "error", err)
	}
}
