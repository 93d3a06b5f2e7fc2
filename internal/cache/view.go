// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// view.go provides a Valkey-backed cache for serialized category views.
// Only listings that depend on the category table alone are cached; they
// live until their TTL or until the categories are reseeded.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// viewKeyPrefix is the Valkey key prefix for cached views.
	viewKeyPrefix = "view:"

	// DefaultViewTTL is how long a rendered view stays cached.
	DefaultViewTTL = 5 * time.Minute
)

// Keys of the cached category views.
const (
	KeyCategoriesFlat = "categories:flat"
	KeyCategoriesTree = "categories:tree"
)

// ViewCache stores serialized views in Valkey.
type ViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewViewCache creates a new view cache backed by the given Valkey client.
func NewViewCache(client *redis.Client, ttl time.Duration) *ViewCache {
	if ttl == 0 {
		ttl = DefaultViewTTL
	}
	return &ViewCache{client: client, ttl: ttl}
}

// Get retrieves a cached view. The second result is false on a miss or error.
func (vc *ViewCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := vc.client.Get(ctx, viewKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("view cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("view cache hit", "key", key)
	return val, true
}

// Set stores a serialized view with the configured TTL.
func (vc *ViewCache) Set(ctx context.Context, key string, data []byte) {
	if err := vc.client.Set(ctx, viewKeyPrefix+key, data, vc.ttl).Err(); err != nil {
		slog.Warn("view cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes all cached views by scanning for the prefix.
// Used after reseeding categories, since every view could be affected.
func (vc *ViewCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := vc.client.Scan(ctx, cursor, viewKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("view cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := vc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("view cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("view cache fully cleared", "deleted", deleted)
	}
}
