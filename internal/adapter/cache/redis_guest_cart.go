package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domain "github.com/VirajMandavkar/luminaire-storefront/internal/entity"
	"github.com/VirajMandavkar/luminaire-storefront/internal/usecase"
)

// RedisGuestCartStore keeps one JSON-encoded line list per guest ID. It is
// the localStorage of this storefront: written on every guest mutation,
// deleted on ClearCart, expired after the TTL.
type RedisGuestCartStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisGuestCartStore(rdb *redis.Client, ttl time.Duration) *RedisGuestCartStore {
	return &RedisGuestCartStore{rdb: rdb, ttl: ttl}
}

func guestCartKey(guestID string) string { return "guestcart:" + guestID }

func (s *RedisGuestCartStore) Load(ctx context.Context, guestID string) ([]domain.CartLine, bool, error) {
	raw, err := s.rdb.Get(ctx, guestCartKey(guestID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("guest cart get: %w", err)
	}
	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, false, fmt.Errorf("guest cart decode: %w", err)
	}
	return lines, true, nil
}

func (s *RedisGuestCartStore) Save(ctx context.Context, guestID string, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("guest cart encode: %w", err)
	}
	if err := s.rdb.Set(ctx, guestCartKey(guestID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("guest cart set: %w", err)
	}
	return nil
}

func (s *RedisGuestCartStore) Delete(ctx context.Context, guestID string) error {
	if err := s.rdb.Del(ctx, guestCartKey(guestID)).Err(); err != nil {
		return fmt.Errorf("guest cart del: %w", err)
	}
	return nil
}

var _ usecase.GuestCartStore = (*RedisGuestCartStore)(nil)
