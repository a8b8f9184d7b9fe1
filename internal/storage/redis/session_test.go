package redis

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/kart-chat/internal/domain/session"
)

func getRedisClient(t *testing.T) *goredis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSessionStore_Touch(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	store := NewSessionStore(client, time.Hour)

	sid := "test-" + time.Now().Format("150405.000000")
	t.Cleanup(func() { client.Del(ctx, key(sid)) })

	seen := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Touch(ctx, session.Session{Key: sid, LastSeenAt: seen, UserAgent: "curl/8"}))

	got, ok, err := store.Get(ctx, sid)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "curl/8", got.UserAgent)
	assert.True(t, seen.Equal(got.LastSeenAt))

	ttl, err := client.TTL(ctx, key(sid)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	later := seen.Add(time.Minute)
	require.NoError(t, store.Touch(ctx, session.Session{Key: sid, LastSeenAt: later, UserAgent: "curl/9"}))
	got, _, err = store.Get(ctx, sid)
	require.NoError(t, err)
	assert.True(t, later.Equal(got.LastSeenAt))
	assert.Equal(t, "curl/9", got.UserAgent)
}

func TestSessionStore_GetMissing(t *testing.T) {
	client := getRedisClient(t)
	store := NewSessionStore(client, 0)

	_, ok, err := store.Get(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.False(t, ok)
}
