// Package cache holds the Redis-backed cache for the public menu list.
// All methods are no-ops when the client is nil, so the server runs
// without Redis configured.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const menuListKey = "menu:list"

type MenuCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewMenuCache(client *redis.Client, ttl time.Duration) *MenuCache {
	return &MenuCache{Client: client, TTL: ttl}
}

// GetMenuList returns the cached JSON body of the public menu list, or
// ok=false on miss, disabled cache, or Redis error. A cache error is
// deliberately indistinguishable from a miss; the caller falls through
// to the database either way.
func (c *MenuCache) GetMenuList(ctx context.Context) ([]byte, bool) {
	if c == nil || c.Client == nil {
		return nil, false
	}
	data, err := c.Client.Get(ctx, menuListKey).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetMenuList stores the serialized menu list with the configured TTL.
func (c *MenuCache) SetMenuList(ctx context.Context, data []byte) {
	if c == nil || c.Client == nil {
		return
	}
	c.Client.Set(ctx, menuListKey, data, c.TTL)
}

// InvalidateMenuList drops the cached list. Called after every menu item
// or category mutation so public reads re-fetch fresh data.
func (c *MenuCache) InvalidateMenuList(ctx context.Context) {
	if c == nil || c.Client == nil {
		return
	}
	c.Client.Del(ctx, menuListKey)
}
