package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/yutosuda/EC-sub001/pkg/cart/domain/model"
)

// Carts are persisted one namespaced key per session.
const keyPrefix = "cart-state:"

// RedisCartStorage keeps each cart as a JSON value in a namespaced Redis key.
type RedisCartStorage struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartStorage(client *redis.Client, ttl time.Duration) *RedisCartStorage {
	return &RedisCartStorage{client: client, ttl: ttl}
}

func (s *RedisCartStorage) Load(ctx context.Context, key string) ([]model.LineItem, bool, error) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "load cart state")
	}

	var items []model.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, errors.Wrap(err, "decode cart state")
	}
	return items, true, nil
}

func (s *RedisCartStorage) Save(ctx context.Context, key string, items []model.LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "encode cart state")
	}
	return errors.Wrap(s.client.Set(ctx, keyPrefix+key, data, s.ttl).Err(), "save cart state")
}
