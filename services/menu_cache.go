package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/digital-menu/utils"
)

const menuCachePrefix = "menu:"

// MenuCache keeps rendered public menus in Redis. A nil client turns every
// call into a miss, so the storefront works without Redis.
type MenuCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewMenuCache(rdb *redis.Client, ttl time.Duration) *MenuCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &MenuCache{rdb: rdb, ttl: ttl}
}

func (m *MenuCache) Enabled() bool {
	return m != nil && m.rdb != nil
}

func menuCacheKey(owner string) string {
	return menuCachePrefix + strings.ToLower(strings.TrimSpace(owner))
}

// Get decodes the cached menu for owner into dst and reports a hit.
func (m *MenuCache) Get(ctx context.Context, owner string, dst interface{}) bool {
	if !m.Enabled() {
		return false
	}
	raw, err := m.rdb.Get(ctx, menuCacheKey(owner)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			utils.ErrorLogger.Printf("Menu cache read for %s failed: %v", owner, err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		utils.ErrorLogger.Printf("Menu cache entry for %s is corrupt: %v", owner, err)
		return false
	}
	return true
}

// Set stores v under every key the owner can be addressed by.
func (m *MenuCache) Set(ctx context.Context, v interface{}, owners ...string) {
	if !m.Enabled() || len(owners) == 0 {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		utils.ErrorLogger.Printf("Menu cache encode failed: %v", err)
		return
	}
	pipe := m.rdb.Pipeline()
	for _, owner := range owners {
		if owner == "" {
			continue
		}
		pipe.Set(ctx, menuCacheKey(owner), raw, m.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		utils.ErrorLogger.Printf("Menu cache write failed: %v", err)
	}
}

// Invalidate drops the cached menu for each of owners.
func (m *MenuCache) Invalidate(ctx context.Context, owners ...string) {
	if !m.Enabled() {
		return
	}
	keys := make([]string, 0, len(owners))
	for _, owner := range owners {
		if owner != "" {
			keys = append(keys, menuCacheKey(owner))
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := m.rdb.Del(ctx, keys...).Err(); err != nil {
		utils.ErrorLogger.Printf("Menu cache invalidation failed: %v", err)
	}
}
