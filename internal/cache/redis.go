// Package cache provides the published story cache backends.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/model"
)

// RedisCache stores published documents as JSON under a key prefix with a TTL.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache connects to redisURL and verifies the connection.
func NewRedisCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedisCacheWithClient(client, ttl), nil
}

// NewRedisCacheWithClient creates a cache from an existing Redis client
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{client: client, prefix: "story:published:", ttl: ttl}
}

func (c *RedisCache) key(slug string) string { return c.prefix + slug }

func (c *RedisCache) Get(ctx context.Context, slug string) (*model.Document, bool, error) {
	raw, err := c.client.Get(ctx, c.key(slug)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get published story: %w", err)
	}
	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false, fmt.Errorf("decode published story: %w", err)
	}
	return &doc, true, nil
}

func (c *RedisCache) Set(ctx context.Context, slug string, doc *model.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode published story: %w", err)
	}
	if err := c.client.Set(ctx, c.key(slug), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set published story: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, slug string) error {
	if err := c.client.Del(ctx, c.key(slug)).Err(); err != nil {
		return fmt.Errorf("delete published story: %w", err)
	}
	return nil
}

// HealthPing checks if Redis is reachable
func (c *RedisCache) HealthPing(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
