package cache

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spicyid/spicyid/internal/config"
)

func skipIfNoRedis(t *testing.T) {
	t.Helper()
	if os.Getenv("TEST_REDIS") != "true" {
		t.Skip("Skipping: TEST_REDIS not set. Run with docker-compose up -d")
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func testRedisConfig() *config.RedisConfig {
	return &config.RedisConfig{
		Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
		Port:     6379,
		Password: getEnvOrDefault("REDIS_PASSWORD", ""),
		PoolSize: 10,
	}
}

func setupTestRedis(t *testing.T) (*RedisCache, func()) {
	t.Helper()
	skipIfNoRedis(t)

	ctx := context.Background()
	cache, err := NewRedisCache(ctx, testRedisConfig())
	require.NoError(t, err)

	cleanup := func() {
		client := cache.Client()
		iter := client.Scan(ctx, 0, "test:*", 0).Iterator()
		for iter.Next(ctx) {
			_ = client.Del(ctx, iter.Val())
		}
		_ = cache.Close()
	}

	return cache, cleanup
}

// memoryCache is an in-process Cache used to test RecordCache without Redis.
type memoryCache struct {
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	val, ok := m.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return val, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memoryCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func (m *memoryCache) Ping(context.Context) error { return nil }
func (m *memoryCache) Close() error              { return nil }

func TestNewRedisCache_InvalidHost(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, &config.RedisConfig{
		Host:     "invalid-host-that-does-not-exist",
		Port:     6379,
		PoolSize: 1,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}

func TestNewRecordCache_Defaults(t *testing.T) {
	c := NewRecordCache(newMemoryCache(), "", 0)
	assert.Equal(t, "record:", c.keyPrefix)
	assert.Equal(t, time.Hour, c.ttl)

	c = NewRecordCache(newMemoryCache(), "r:", time.Minute)
	assert.Equal(t, "r:", c.keyPrefix)
	assert.Equal(t, time.Minute, c.ttl)
}

func TestRecordCache_RoundTrip(t *testing.T) {
	backing := newMemoryCache()
	c := NewRecordCache(backing, "record:", 5*time.Minute)
	ctx := context.Background()

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec := &CachedRecord{ID: 479, Name: "widget", Data: json.RawMessage(`{"k":1}`), CreatedAt: created}
	require.NoError(t, c.Set(ctx, rec))

	assert.Contains(t, backing.data, "record:479")
	assert.Equal(t, 5*time.Minute, backing.ttls["record:479"])

	got, err := c.Get(ctx, 479)
	require.NoError(t, err)
	assert.Equal(t, "widget", got.Name)
	assert.JSONEq(t, `{"k":1}`, string(got.Data))
	assert.True(t, created.Equal(got.CreatedAt))

	require.NoError(t, c.Delete(ctx, 479))
	_, err = c.Get(ctx, 479)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRecordCache_CorruptEntry(t *testing.T) {
	backing := newMemoryCache()
	backing.data["record:1"] = []byte("not json")

	_, err := NewRecordCache(backing, "", 0).Get(context.Background(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_SetGetDelete(t *testing.T) {
	cache, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "test:k1", []byte("v1"), time.Minute))

	got, err := cache.Get(ctx, "test:k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	exists, err := cache.Exists(ctx, "test:k1")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, cache.Delete(ctx, "test:k1"))
	_, err = cache.Get(ctx, "test:k1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, cache.Ping(ctx))
}

func TestRedisCache_TTLExpiry(t *testing.T) {
	cache, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "test:ttl", []byte("x"), 100*time.Millisecond))

	time.Sleep(150 * time.Millisecond)

	_, err := cache.Get(ctx, "test:ttl")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRecordCache_Redis(t *testing.T) {
	cache, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	c := NewRecordCache(cache, "test:record:", time.Minute)

	require.NoError(t, c.Set(ctx, &CachedRecord{ID: 7, Name: "seven", CreatedAt: time.Now().UTC()}))

	got, err := c.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "seven", got.Name)

	_, err = c.Get(ctx, 8)
	assert.ErrorIs(t, err, ErrCacheMiss)
}
