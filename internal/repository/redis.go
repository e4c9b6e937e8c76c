package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bistro/internal/config"
	"bistro/internal/slots"

	"github.com/redis/go-redis/v9"
)

const slotKeyPrefix = "slots:"

type RedisSlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient builds a client from config. The caller pings it before
// trusting the cache.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisSlotCache(client *redis.Client, ttl time.Duration) *RedisSlotCache {
	return &RedisSlotCache{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisSlotCache) GetDay(ctx context.Context, date string) (*slots.Day, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, slotKeyPrefix+date).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slots from redis: %w", err)
	}

	var day slots.Day
	if err := json.Unmarshal([]byte(val), &day); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached slots: %w", err)
	}
	return &day, nil
}

func (r *RedisSlotCache) SetDay(ctx context.Context, day *slots.Day) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(day)
	if err != nil {
		return fmt.Errorf("failed to marshal slots: %w", err)
	}

	if err := r.client.Set(ctx, slotKeyPrefix+day.Date, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set slots in redis: %w", err)
	}
	return nil
}

func (r *RedisSlotCache) InvalidateDate(ctx context.Context, date string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, slotKeyPrefix+date).Err(); err != nil {
		return fmt.Errorf("failed to delete cached slots: %w", err)
	}
	return nil
}

// InvalidateAll drops every cached date. Used after an opening-hours or
// policy change, which shifts the slot grid for all dates at once.
func (r *RedisSlotCache) InvalidateAll(ctx context.Context) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, slotKeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cached slots: %w", err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cached slots: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
