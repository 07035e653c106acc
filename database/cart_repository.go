package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-bff/models"

	"github.com/redis/go-redis/v9"
)

// CartRepository keeps one serialized cart per client in Redis.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{client: client, ttl: ttl}
}

func (r *CartRepository) getKey(clientID string) string {
	return fmt.Sprintf("cart:client:%s", clientID)
}

func (r *CartRepository) Load(ctx context.Context, clientID string) ([]models.CartItem, error) {
	data, err := r.client.Get(ctx, r.getKey(clientID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, fmt.Errorf("corrupted cart record: %w", err)
	}
	return items, nil
}

func (r *CartRepository) Save(ctx context.Context, clientID string, items []models.CartItem) error {
	if items == nil {
		items = []models.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.getKey(clientID), data, r.ttl).Err()
}

func (r *CartRepository) Delete(ctx context.Context, clientID string) error {
	return r.client.Del(ctx, r.getKey(clientID)).Err()
}
