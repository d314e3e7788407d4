package cache

import (
	"context"
	"starter_api/internal/domain/model"
	"starter_api/internal/platform/config"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNop(t *testing.T) {
	ctx := context.Background()
	var c ContentCache = Nop{}

	require.NoError(t, c.Set(ctx, "1", &model.Content{ID: 1}))
	_, err := c.Get(ctx, "1")
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, c.Invalidate(ctx, "1", "slug"))
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}

func TestConnect_EmptyAddrDisablesCache(t *testing.T) {
	c, err := Connect(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.IsType(t, Nop{}, c)
}

func TestConnect_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Connect(ctx, &config.Config{RedisAddr: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestRedisCache(t *testing.T) {
	// Skip test if Redis is not available
	client := redis.NewClient(&redis.Options{
		Addr: "127.0.0.1:6379",
		DB:   3,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer client.FlushDB(ctx)

	c := NewRedisCache(client, time.Minute)
	defer c.Close()

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	content := &model.Content{ID: 7, Title: "hello test", Slug: "hello-test", CreatedTime: created, Tags: model.Tags{"a"}, UserID: 1}

	t.Run("Miss", func(t *testing.T) {
		_, err := c.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrMiss)
	})

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "hello-test", content))

		got, err := c.Get(ctx, "hello-test")
		require.NoError(t, err)
		assert.Equal(t, content.ID, got.ID)
		assert.Equal(t, content.Tags, got.Tags)
		assert.True(t, created.Equal(got.CreatedTime))

		ttl, err := client.TTL(ctx, keyPrefix+"hello-test").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})

	t.Run("Invalidate", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "7", content))
		require.NoError(t, c.Invalidate(ctx, "7", "hello-test"))

		_, err := c.Get(ctx, "7")
		assert.ErrorIs(t, err, ErrMiss)
		_, err = c.Get(ctx, "hello-test")
		assert.ErrorIs(t, err, ErrMiss)

		assert.NoError(t, c.Invalidate(ctx))
	})
}
