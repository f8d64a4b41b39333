package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"w9booking/internal/config"
	"w9booking/internal/models"

	"github.com/redis/go-redis/v9"
)

// pendingMarker is stored while a create is in flight, before the event
// reference is known.
const pendingMarker = "pending"

// NewRedisClient creates a Redis client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// RedisIdempotencyStore maps client-supplied idempotency tokens to the
// calendar event they produced. A replayed token short-circuits the
// create so the provider never sees a duplicate insert.
type RedisIdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client, ttl: ttl}
}

func key(token string) string {
	return "idempotency:" + token
}

// Claim records the token via SETNX. When the token already exists with
// a completed event, that event is returned; a still-pending token is
// treated as a duplicate with no event reference.
func (r *RedisIdempotencyStore) Claim(ctx context.Context, token string) (*models.CalendarEvent, bool, error) {
	if r.client == nil {
		return nil, false, fmt.Errorf("redis client is nil")
	}

	ok, err := r.client.SetNX(ctx, key(token), pendingMarker, r.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to claim idempotency token: %w", err)
	}
	if ok {
		return nil, true, nil
	}

	val, err := r.client.Get(ctx, key(token)).Result()
	if err == redis.Nil {
		// Expired between SETNX and GET; let the caller retry.
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read idempotency token: %w", err)
	}

	if val == pendingMarker {
		return nil, false, nil
	}

	var event models.CalendarEvent
	if err := json.Unmarshal([]byte(val), &event); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal stored event: %w", err)
	}
	return &event, false, nil
}

// Complete stores the created event against the token, keeping the TTL.
func (r *RedisIdempotencyStore) Complete(ctx context.Context, token string, event *models.CalendarEvent) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := r.client.Set(ctx, key(token), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to complete idempotency token: %w", err)
	}
	return nil
}

// Release frees a claimed token after a failed create.
func (r *RedisIdempotencyStore) Release(ctx context.Context, token string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, key(token)).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency token: %w", err)
	}
	return nil
}
