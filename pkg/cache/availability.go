// Package cache keeps the public availability calendar off the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gite/pkg/model"
)

const ConfirmedRangesKey = "availability:confirmed"

type AvailabilityCache interface {
	// ConfirmedRanges reports a miss with ok=false and a nil error.
	ConfirmedRanges(ctx context.Context) (ranges []model.DateRange, ok bool, err error)
	SetConfirmedRanges(ctx context.Context, ranges []model.DateRange) error
	Invalidate(ctx context.Context) error
}

type RedisAvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAvailabilityCache returns a Redis-backed cache, or a no-op cache when
// client is nil.
func NewAvailabilityCache(client *redis.Client, ttl time.Duration) AvailabilityCache {
	if client == nil {
		return NopCache{}
	}
	return &RedisAvailabilityCache{client: client, ttl: ttl}
}

func (c *RedisAvailabilityCache) ConfirmedRanges(ctx context.Context) ([]model.DateRange, bool, error) {
	data, err := c.client.Get(ctx, ConfirmedRangesKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read availability cache: %w", err)
	}

	var ranges []model.DateRange
	if err := json.Unmarshal([]byte(data), &ranges); err != nil {
		return nil, false, fmt.Errorf("failed to decode availability cache: %w", err)
	}
	return ranges, true, nil
}

func (c *RedisAvailabilityCache) SetConfirmedRanges(ctx context.Context, ranges []model.DateRange) error {
	if ranges == nil {
		ranges = []model.DateRange{}
	}
	data, err := json.Marshal(ranges)
	if err != nil {
		return fmt.Errorf("failed to encode availability cache: %w", err)
	}
	if err := c.client.Set(ctx, ConfirmedRangesKey, string(data), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write availability cache: %w", err)
	}
	return nil
}

func (c *RedisAvailabilityCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, ConfirmedRangesKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate availability cache: %w", err)
	}
	return nil
}

// NopCache always misses.
type NopCache struct{}

func (NopCache) ConfirmedRanges(context.Context) ([]model.DateRange, bool, error) {
	return nil, false, nil
}

func (NopCache) SetConfirmedRanges(context.Context, []model.DateRange) error { return nil }

func (NopCache) Invalidate(context.Context) error { return nil }
