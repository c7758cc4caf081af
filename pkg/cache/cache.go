// Package cache is the Redis read-through cache used for customer lookups.
// Every operation is a no-op when Redis is not connected, so the API keeps
// serving straight from the database.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/ordermgmt/config"
	"github.com/shashiranjanraj/ordermgmt/pkg/logger"
	"github.com/shashiranjanraj/ordermgmt/pkg/metrics"
)

const driver = "redis"

var RDB *redis.Client

// Connect initialises the Redis client and verifies it with a ping. On
// failure RDB stays nil and the caller decides whether that is fatal.
func Connect(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck
		RDB = nil
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	RDB = client
	return nil
}

// Close releases the Redis connection pool.
func Close() error {
	if RDB == nil {
		return nil
	}
	err := RDB.Close()
	RDB = nil
	return err
}

// Get unmarshals the value under key into dest. It reports a hit only when
// the key exists and decodes cleanly.
func Get(ctx context.Context, key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}

	val, err := RDB.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.WithCtx(ctx).Warn("cache get failed", "key", key, "error", err.Error())
		}
		metrics.CacheMisses.WithLabelValues(driver).Inc()
		return false
	}

	if err := json.Unmarshal(val, dest); err != nil {
		metrics.CacheMisses.WithLabelValues(driver).Inc()
		return false
	}

	metrics.CacheHits.WithLabelValues(driver).Inc()
	return true
}

// Set stores value as JSON under key for ttl.
func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return RDB.Set(ctx, key, data, ttl).Err()
}

// Del removes keys.
func Del(ctx context.Context, keys ...string) error {
	if RDB == nil || len(keys) == 0 {
		return nil
	}
	return RDB.Del(ctx, keys...).Err()
}

// Store adapts the package functions to the orm.Cacher interface.
type Store struct{}

func (Store) Get(ctx context.Context, key string, dest interface{}) bool {
	return Get(ctx, key, dest)
}

func (Store) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return Set(ctx, key, value, ttl)
}

// Key builds a namespaced cache key, e.g. Key("customer", id).
func Key(parts ...string) string {
	k := "ordermgmt"
	for _, p := range parts {
		k += ":" + p
	}
	return k
}
