package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dairymart/internal/model"

	"github.com/redis/go-redis/v9"
)

// ErrCartNotFound means no cart exists for the token (or it expired).
var ErrCartNotFound = errors.New("cart not found")

// CartStore persists carts outside the relational schema; the redis
// implementation stores one JSON blob per token with a sliding TTL.
type CartStore interface {
	Get(ctx context.Context, token string) (*model.Cart, error)
	Save(ctx context.Context, cart *model.Cart) error
	Delete(ctx context.Context, token string) error
}

type redisCartStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCartStore(rdb *redis.Client, ttl time.Duration) CartStore {
	return &redisCartStore{rdb: rdb, ttl: ttl}
}

func cartKey(token string) string {
	return "cart:" + token
}

func (s *redisCartStore) Get(ctx context.Context, token string) (*model.Cart, error) {
	raw, err := s.rdb.Get(ctx, cartKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("read cart: %w", err)
	}

	var cart model.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return &cart, nil
}

func (s *redisCartStore) Save(ctx context.Context, cart *model.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return s.rdb.Set(ctx, cartKey(cart.Token), raw, s.ttl).Err()
}

func (s *redisCartStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, cartKey(token)).Err()
}
