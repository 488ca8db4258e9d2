package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nrsport/console-backend/internal/models"
)

const keyPrefix = "console:session:"

// RedisBackend persists sessions in Redis with a TTL equal to the
// token lifetime, so abandoned sessions age out on their own.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend creates a Redis-backed session backend.
func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

// Get fetches a session record; absent keys return (nil, nil).
func (b *RedisBackend) Get(ctx context.Context, token string) (*models.Session, error) {
	data, err := b.client.Get(ctx, keyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Set stores a session record with the given TTL.
func (b *RedisBackend) Set(ctx context.Context, token string, s *models.Session, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return b.client.Set(ctx, keyPrefix+token, data, ttl).Err()
}

// Delete removes a session record.
func (b *RedisBackend) Delete(ctx context.Context, token string) error {
	return b.client.Del(ctx, keyPrefix+token).Err()
}
