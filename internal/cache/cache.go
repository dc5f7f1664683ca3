// Package cache handles Redis caching operations.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spicyid/spicyid/internal/config"
)

// ErrCacheMiss is returned when a key is not cached.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines the interface for caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}

// RedisCache implements Cache using Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache client.
func NewRedisCache(ctx context.Context, cfg *config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Get retrieves a value from the cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("cache get failed: %w", err)
	}
	return val, nil
}

// Set stores a value in the cache with a TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// Delete removes a value from the cache.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete failed: %w", err)
	}
	return nil
}

// Exists checks if a key exists in the cache.
func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("cache exists check failed: %w", err)
	}
	return n > 0, nil
}

// Ping checks if the cache is healthy.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the cache connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Client returns the underlying Redis client.
func (c *RedisCache) Client() *redis.Client {
	return c.client
}

// RecordCacher is the record-level cache used by the cached repository.
type RecordCacher interface {
	Get(ctx context.Context, id int64) (*CachedRecord, error)
	Set(ctx context.Context, rec *CachedRecord) error
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

var _ RecordCacher = (*RecordCache)(nil)

// CachedRecord is the cached form of a record. Keys are the internal
// integer id, never the rendered public id, so changing the prefix or
// encoding does not invalidate the cache.
type CachedRecord struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// RecordCache stores CachedRecord values as JSON under keyPrefix+id.
type RecordCache struct {
	cache     Cache
	keyPrefix string
	ttl       time.Duration
}

// NewRecordCache creates a record cache. Zero values select "record:" and one hour.
func NewRecordCache(cache Cache, keyPrefix string, ttl time.Duration) *RecordCache {
	if keyPrefix == "" {
		keyPrefix = "record:"
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RecordCache{
		cache:     cache,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Get retrieves a record by id.
func (c *RecordCache) Get(ctx context.Context, id int64) (*CachedRecord, error) {
	data, err := c.cache.Get(ctx, c.key(id))
	if err != nil {
		return nil, err
	}

	var rec CachedRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached record: %w", err)
	}
	return &rec, nil
}

// Set stores a record with the default TTL.
func (c *RecordCache) Set(ctx context.Context, rec *CachedRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	return c.cache.Set(ctx, c.key(rec.ID), data, c.ttl)
}

// Delete removes a record from the cache.
func (c *RecordCache) Delete(ctx context.Context, id int64) error {
	return c.cache.Delete(ctx, c.key(id))
}

// Ping checks if the cache is healthy.
func (c *RecordCache) Ping(ctx context.Context) error {
	return c.cache.Ping(ctx)
}

func (c *RecordCache) key(id int64) string {
	return c.keyPrefix + strconv.FormatInt(id, 10)
}
