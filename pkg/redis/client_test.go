package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/gemvault/gemvault-backend/pkg/config"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	raw := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	return Wrap(raw, "test"), mr
}

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)

	for i := 0; i < 2; i++ {
		allowed, _, err := client.FixedWindowAllow(ctx, "login:ana@example.com", 2, time.Minute)
		require.NoError(t, err)
		require.True(t, allowed)
	}

	allowed, retryAfter, err := client.FixedWindowAllow(ctx, "login:ana@example.com", 2, time.Minute)
	require.NoError(t, err)
	require.False(t, allowed)
	require.Greater(t, retryAfter, time.Duration(0))

	mr.FastForward(61 * time.Second)
	allowed, _, err = client.FixedWindowAllow(ctx, "login:ana@example.com", 2, time.Minute)
	require.NoError(t, err)
	require.True(t, allowed, "window should reset once the ttl lapses")
}

func TestSetNXAndGet(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)

	ok, err := client.SetNX(ctx, "k", "first", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = client.SetNX(ctx, "k", "second", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	value, err := client.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "first", value)

	_, err = client.Get(ctx, "missing")
	require.True(t, IsNil(err))
}

func TestDelIfEqual(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	require.NoError(t, client.Set(ctx, "lock", "owner-a", time.Minute))

	deleted, err := client.DelIfEqual(ctx, "lock", "owner-b")
	require.NoError(t, err)
	require.False(t, deleted)
	require.True(t, mr.Exists("lock"))

	deleted, err = client.DelIfEqual(ctx, "lock", "owner-a")
	require.NoError(t, err)
	require.True(t, deleted)
	require.False(t, mr.Exists("lock"))

	deleted, err = client.DelIfEqual(ctx, "lock", "owner-a")
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestKeyBuilders(t *testing.T) {
	client, _ := newTestClient(t)

	require.Equal(t, "test:session:abc", client.SessionKey("abc"))
	require.Equal(t, "test:lock:cron", client.LockKey("cron"))
	require.Equal(t, "test:cache:analytics:snapshot", client.CacheKey("analytics", "snapshot"))
	require.Equal(t, "test:idempotency:scope:key", client.IdempotencyKey("scope", "key"))
	require.Equal(t, "test:rate_limit:x", client.RateLimitKey(" x "))
	require.Equal(t, "gemvault:a", Wrap(nil, "").Key("a"))
}

func TestUninitializedClientErrors(t *testing.T) {
	var client *Client
	require.Error(t, client.Set(context.Background(), "k", "v", 0))
	require.Error(t, client.Ping(context.Background()))
	_, err := client.DelIfEqual(context.Background(), "k", "v")
	require.Error(t, err)
	require.NoError(t, client.Close())
}

func TestOptionsFromConfig(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://:secret@localhost:6380/2", PoolSize: 7, DialTimeout: time.Second})
	require.NoError(t, err)
	require.Equal(t, "localhost:6380", opts.Addr)
	require.Equal(t, 2, opts.DB)
	require.Equal(t, 7, opts.PoolSize)

	_, err = optionsFromConfig(config.RedisConfig{})
	require.Error(t, err)
}
