// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscription

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/crystalbox/internal/platform/constants"
	"github.com/taibuivan/crystalbox/internal/platform/redis"
)

// CachedRepository is a read-through cache in front of another [Repository].
//
// Only single-row lookups are cached. Those run once per smart-check and once
// per history walk, while listings stay on the primary store.
type CachedRepository struct {
	next   Repository
	client goredis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedRepository wraps next with a Redis cache.
func NewCachedRepository(next Repository, client goredis.Cmdable, ttl time.Duration, logger *slog.Logger) *CachedRepository {
	return &CachedRepository{next: next, client: client, ttl: ttl, logger: logger}
}

func cacheKey(id int) string {
	return constants.RedisPrefixSubscription + strconv.Itoa(id)
}

// List bypasses the cache.
func (repository *CachedRepository) List(ctx context.Context) ([]*Subscription, error) {
	return repository.next.List(ctx)
}

// FindByID serves from Redis when possible. Cache failures degrade to the primary store.
func (repository *CachedRepository) FindByID(ctx context.Context, id int) (*Subscription, error) {
	key := cacheKey(id)

	var cached Subscription
	err := redis.GetJSON(ctx, repository.client, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, redis.ErrCacheMiss) {
		repository.logger.Warn("subscription_cache_read_failed", slog.Int("subscription_id", id), slog.Any("error", err))
	}

	subscription, err := repository.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := redis.SetJSON(ctx, repository.client, key, subscription, repository.ttl); err != nil {
		repository.logger.Warn("subscription_cache_write_failed", slog.Int("subscription_id", id), slog.Any("error", err))
	}
	return subscription, nil
}

// Create writes through and drops any stale entry.
func (repository *CachedRepository) Create(ctx context.Context, subscription *Subscription) error {
	if err := repository.next.Create(ctx, subscription); err != nil {
		return err
	}
	if err := redis.Delete(ctx, repository.client, cacheKey(subscription.ID)); err != nil {
		repository.logger.Warn("subscription_cache_evict_failed", slog.Int("subscription_id", subscription.ID), slog.Any("error", err))
	}
	return nil
}
