package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-bff/session"

	"github.com/redis/go-redis/v9"
)

// SessionRepository keeps one serialized session record per client in Redis.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

func (r *SessionRepository) getKey(clientID string) string {
	return fmt.Sprintf("session:client:%s", clientID)
}

func (r *SessionRepository) Load(ctx context.Context, clientID string) (*session.Record, error) {
	data, err := r.client.Get(ctx, r.getKey(clientID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec session.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("corrupted session record: %w", err)
	}
	return &rec, nil
}

func (r *SessionRepository) Save(ctx context.Context, clientID string, rec *session.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.getKey(clientID), data, r.ttl).Err()
}

func (r *SessionRepository) Delete(ctx context.Context, clientID string) error {
	return r.client.Del(ctx, r.getKey(clientID)).Err()
}
