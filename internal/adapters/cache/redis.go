package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Cache shared by every replica pointing at the same server.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps a connected client.
// PRE: client is non-nil
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Get returns the stored value, treating redis.Nil as a miss.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return value, true, nil
}

// Set stores value with an expiry.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Generation reads the resource counter; a missing counter is generation 0.
func (r *Redis) Generation(ctx context.Context, resource string) (int64, error) {
	raw, err := r.client.Get(ctx, generationKey(resource)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis generation: %w", err)
	}
	gen, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("redis generation %q: %w", raw, err)
	}
	return gen, nil
}

// Bump increments the resource counter atomically across replicas.
func (r *Redis) Bump(ctx context.Context, resource string) error {
	if err := r.client.Incr(ctx, generationKey(resource)).Err(); err != nil {
		return fmt.Errorf("redis bump: %w", err)
	}
	return nil
}
