package session

import (
	"context"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// RedisKV is the durable KV backed by Redis. TTL enforcement rides on
// Redis key expiry.
type RedisKV struct {
	client *redisv9.Client
}

func NewRedisKV(client *redisv9.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (k *RedisKV) Get(ctx context.Context, key string) (string, error) {
	raw, err := k.client.Get(ctx, key).Result()
	if err == redisv9.Nil {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return raw, nil
}

func (k *RedisKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := k.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (k *RedisKV) Delete(ctx context.Context, key string) error {
	if err := k.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
