package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisProvider stores each key as a plain Redis string under prefix
type RedisProvider struct {
	client *redis.Client
	prefix string
}

// NewRedisProvider connects to addr and verifies the connection with PING
func NewRedisProvider(ctx context.Context, addr, password string, db int, prefix string) (*RedisProvider, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisProvider{client: client, prefix: prefix}, nil
}

func (r *RedisProvider) GetItem(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *RedisProvider) SetItem(ctx context.Context, key, value string) error {
	// No expiration, values persist until overwritten
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *RedisProvider) RemoveItem(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

func (r *RedisProvider) Close() error {
	return r.client.Close()
}
