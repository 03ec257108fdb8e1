// Package cache memoizes computed dose suggestions. The engine is cheap
// but the snapshot reads behind it are not; any write that touches a
// user's rules, presets, basal config or entries invalidates the user's
// cached suggestions wholesale.
package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/glucolog/glucolog/internal/domain"
)

// SuggestionCache stores evaluation results keyed by the full
// evaluation input.
type SuggestionCache interface {
	Get(ctx context.Context, userID uint, key string) (*domain.Suggestion, bool)
	Set(ctx context.Context, userID uint, key string, s *domain.Suggestion)
	InvalidateUser(ctx context.Context, userID uint)
}

// Key builds the cache key for one evaluation input. Every input the
// engine reads is part of the key so stale hits are impossible within
// an unchanged snapshot.
func Key(date domain.Date, slot domain.MeasurementSlot, glucose int) string {
	return fmt.Sprintf("%s:%s:%d", date, slot, glucose)
}

// MemoryCache is the in-process fallback used when Redis is not
// configured.
type MemoryCache struct {
	mu    sync.RWMutex
	users map[uint]map[string]*domain.Suggestion
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{users: make(map[uint]map[string]*domain.Suggestion)}
}

func (c *MemoryCache) Get(_ context.Context, userID uint, key string) (*domain.Suggestion, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.users[userID][key]
	return s, ok
}

func (c *MemoryCache) Set(_ context.Context, userID uint, key string, s *domain.Suggestion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.users[userID] == nil {
		c.users[userID] = make(map[string]*domain.Suggestion)
	}
	c.users[userID][key] = s
}

func (c *MemoryCache) InvalidateUser(_ context.Context, userID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.users, userID)
}
