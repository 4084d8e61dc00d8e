// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/merchantdesk/internal/platform/constants"
)

// RedisStorage keeps the session in Redis under
// `console:session:<profile>:<key>`, letting several terminals share one
// operator login.
type RedisStorage struct {
	client  redis.UniversalClient
	profile string
}

// NewRedisStorage returns a Redis-backed storage scoped to profile.
func NewRedisStorage(client redis.UniversalClient, profile string) *RedisStorage {
	if profile == "" {
		profile = "default"
	}
	return &RedisStorage{client: client, profile: profile}
}

func (r *RedisStorage) key(name string) string {
	return constants.RedisPrefixConsoleSession + r.profile + ":" + name
}

func (r *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session: redis get %s: %w", key, err)
	}
	return value, true, nil
}

func (r *RedisStorage) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("session: redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisStorage) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("session: redis delete %s: %w", key, err)
	}
	return nil
}
