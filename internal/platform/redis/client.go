// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides a managed client for volatile data storage.

Crystalbox uses it as a read-through cache for slowly changing reference
records (subscriptions) that every recommendation request resolves.

Core Responsibilities:

  - Volatility: Handles data with TTL (Time-To-Live).
  - Encoding: JSON helpers so callers never touch raw strings.
  - Safety: Manages connection pooling and timeouts.
*/
package redis

import (
	stdctx "context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Opiniated default timeouts for Redis operations.
const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
	pingTimeout  = 2 * time.Second
)

// ErrCacheMiss is returned by [GetJSON] when the key is absent or expired.
var ErrCacheMiss = errors.New("redis: cache miss")

// NewClient parses a Redis URL and returns a ready-to-use client.
//
// # Parameters
//   - context: Context for the initial ping.
//   - redisURL: Redis connection URL.
//   - logger: Structured logger for connection events.
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.PoolSize = 10
	options.MinIdleConns = 1
	options.MaxIdleConns = 4

	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout

	client := redis.NewClient(options)

	// Validate connectivity immediately at startup.
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis client connected",
		slog.String("addr", options.Addr),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

// Ping verifies that the Redis client is healthy.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}

// # JSON Helpers

// GetJSON loads key and decodes it into target.
// It returns [ErrCacheMiss] when the key does not exist.
func GetJSON(context stdctx.Context, client redis.Cmdable, key string, target any) error {
	payload, err := client.Get(context, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("redis_get_failed: %w", err)
	}

	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("redis_decode_failed: %w", err)
	}
	return nil
}

// SetJSON encodes value and stores it under key with the given TTL.
func SetJSON(context stdctx.Context, client redis.Cmdable, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis_encode_failed: %w", err)
	}

	if err := client.Set(context, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_set_failed: %w", err)
	}
	return nil
}

// Delete removes keys; missing keys are not an error.
func Delete(context stdctx.Context, client redis.Cmdable, keys ...string) error {
	if err := client.Del(context, keys...).Err(); err != nil {
		return fmt.Errorf("redis_delete_failed: %w", err)
	}
	return nil
}
