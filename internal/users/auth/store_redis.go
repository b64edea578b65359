// Copyright (c) 2026 Applytrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/applytrack/internal/platform/constants"
)

// # Presence Cache

// RedisPresenceCache implements [PresenceCache] with expiring Redis keys.
type RedisPresenceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPresenceCache creates a Redis-backed PresenceCache whose entries live for ttl.
func NewPresenceCache(client *redis.Client, ttl time.Duration) *RedisPresenceCache {
	return &RedisPresenceCache{client: client, ttl: ttl}
}

func presenceKey(email string) string {
	return constants.RedisPrefixAccountPresence + email
}

// Seen reports whether a live "account exists" entry is cached for email.
func (cache *RedisPresenceCache) Seen(ctx context.Context, email string) (bool, error) {
	count, err := cache.client.Exists(ctx, presenceKey(email)).Result()
	if err != nil {
		return false, fmt.Errorf("redis_presence_seen_failed: %w", err)
	}
	return count > 0, nil
}

// Remember caches that an account with email exists.
func (cache *RedisPresenceCache) Remember(ctx context.Context, email string) error {
	if err := cache.client.Set(ctx, presenceKey(email), 1, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis_presence_remember_failed: %w", err)
	}
	return nil
}
