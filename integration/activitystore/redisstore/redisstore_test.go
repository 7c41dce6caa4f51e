package redisstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/idlesession/core/activity"
	"github.com/dmitrymomot/idlesession/core/activity/activitytest"
	"github.com/dmitrymomot/idlesession/integration/activitystore/redisstore"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	opts, err := redis.ParseURL(url)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func TestStore_Contract(t *testing.T) {
	client := newTestRedis(t)
	prefix := "test:" + uuid.NewString() + ":"

	activitytest.Run(t, func(t *testing.T) activity.Store {
		return redisstore.New(client, redisstore.WithKeyPrefix(prefix))
	})
}

func TestStore_TTL(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()
	prefix := "test:" + uuid.NewString() + ":"
	store := redisstore.New(client, redisstore.WithKeyPrefix(prefix), redisstore.WithTTL(time.Hour))

	require.NoError(t, store.Touch(ctx, "s1", time.Now()))

	ttl, err := client.PTTL(ctx, prefix+"s1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)
}

func TestStore_Unavailable(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	store := redisstore.New(client)
	ctx := context.Background()

	_, err := store.LastActivity(ctx, "s1")
	assert.ErrorIs(t, err, activity.ErrUnavailable)
	assert.ErrorIs(t, store.Touch(ctx, "s1", time.Now()), activity.ErrUnavailable)
	assert.ErrorIs(t, store.Delete(ctx, "s1"), activity.ErrUnavailable)
}
