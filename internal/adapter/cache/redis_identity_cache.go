package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domain "github.com/VirajMandavkar/luminaire-storefront/internal/entity"
)

// RedisIdentityCache memoizes resolved bearer identities so the session
// middleware does not hit the backend's /auth/me on every request. Keys are
// token digests, never raw tokens.
type RedisIdentityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisIdentityCache(rdb *redis.Client, ttl time.Duration) *RedisIdentityCache {
	return &RedisIdentityCache{rdb: rdb, ttl: ttl}
}

func identityKey(digest string) string { return "identity:" + digest }

func (c *RedisIdentityCache) Get(ctx context.Context, digest string) (*domain.User, bool, error) {
	raw, err := c.rdb.Get(ctx, identityKey(digest)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("identity get: %w", err)
	}
	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, false, fmt.Errorf("identity decode: %w", err)
	}
	return &u, true, nil
}

func (c *RedisIdentityCache) Set(ctx context.Context, digest string, u *domain.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("identity encode: %w", err)
	}
	if err := c.rdb.Set(ctx, identityKey(digest), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("identity set: %w", err)
	}
	return nil
}
