//go:build integration
// +build integration

package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "could not connect to docker")
	pool.MaxWait = time.Minute

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "could not start redis")
	_ = resource.Expire(120)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("127.0.0.1:%s", resource.GetPort("6379/tcp"))})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, pool.Retry(func() error {
		return client.Ping(context.Background()).Err()
	}))
	return client
}

func TestRedisStore(t *testing.T) {
	client := startRedis(t)
	store := NewRedisStore(client)
	ctx := context.Background()

	t.Run("first hit starts the window", func(t *testing.T) {
		n, err := store.Incr(ctx, "hits:a", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = store.Incr(ctx, "hits:a", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		ttl, err := client.TTL(ctx, "hits:a").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Minute)
	})

	t.Run("a counter left without expiry gets one on the next hit", func(t *testing.T) {
		// as if INCR succeeded and the EXPIRE after it was lost
		require.NoError(t, client.Set(ctx, "hits:b", 5, 0).Err())

		n, err := store.Incr(ctx, "hits:b", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(6), n)

		ttl, err := client.TTL(ctx, "hits:b").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})

	t.Run("the window is not extended by later hits", func(t *testing.T) {
		_, err := store.Incr(ctx, "hits:c", time.Minute)
		require.NoError(t, err)
		require.NoError(t, client.Expire(ctx, "hits:c", 10*time.Second).Err())

		_, err = store.Incr(ctx, "hits:c", time.Minute)
		require.NoError(t, err)

		ttl, err := client.TTL(ctx, "hits:c").Result()
		require.NoError(t, err)
		assert.LessOrEqual(t, ttl, 10*time.Second)
	})
}
