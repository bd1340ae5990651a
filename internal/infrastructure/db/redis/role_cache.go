package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopadmin/backoffice/internal/core/domain"
)

const (
	roleCacheKey        = "roles:all"
	defaultRoleCacheTTL = 10 * time.Minute
)

// RoleCache stores the role table as a single JSON value.
// Key format: roles:all
type RoleCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRoleCache wraps client. A non-positive ttl falls back to ten minutes.
func NewRoleCache(client redis.Cmdable, ttl time.Duration) *RoleCache {
	if ttl <= 0 {
		ttl = defaultRoleCacheTTL
	}
	return &RoleCache{client: client, ttl: ttl}
}

// Get reports ok=false on a cache miss.
func (c *RoleCache) Get(ctx context.Context) ([]domain.Role, bool, error) {
	raw, err := c.client.Get(ctx, roleCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("role cache get: %w", err)
	}

	var roles []domain.Role
	if err := json.Unmarshal(raw, &roles); err != nil {
		return nil, false, fmt.Errorf("role cache decode: %w", err)
	}
	return roles, true, nil
}

func (c *RoleCache) Set(ctx context.Context, roles []domain.Role) error {
	raw, err := json.Marshal(roles)
	if err != nil {
		return fmt.Errorf("role cache encode: %w", err)
	}
	return c.client.Set(ctx, roleCacheKey, raw, c.ttl).Err()
}

// Invalidate drops the cached table so the next read goes to the store.
func (c *RoleCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, roleCacheKey).Err()
}
