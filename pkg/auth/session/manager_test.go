package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	redisclient "github.com/gemvault/gemvault-backend/pkg/redis"
)

func newTestManager(t *testing.T, ttl time.Duration) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	raw := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })

	mgr, err := NewManager(redisclient.Wrap(raw, "test"), ttl)
	require.NoError(t, err)
	return mgr, mr
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	mgr, mr := newTestManager(t, time.Hour)

	require.NoError(t, mgr.Create(ctx, "jti-1", "admin-1"))
	ok, err := mgr.HasSession(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, ok)

	value, err := mr.Get("test:session:jti-1")
	require.NoError(t, err)
	require.Equal(t, "admin-1", value)

	require.NoError(t, mgr.Revoke(ctx, "jti-1"))
	ok, err = mgr.HasSession(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSessionExpires(t *testing.T) {
	ctx := context.Background()
	mgr, mr := newTestManager(t, time.Minute)

	require.NoError(t, mgr.Create(ctx, "jti-2", "admin-2"))
	mr.FastForward(2 * time.Minute)

	ok, err := mgr.HasSession(ctx, "jti-2")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestManagerValidatesInput(t *testing.T) {
	_, err := NewManager(nil, time.Hour)
	require.Error(t, err)

	mgr, _ := newTestManager(t, time.Hour)
	require.Error(t, mgr.Create(context.Background(), " ", "admin"))
	_, err = mgr.HasSession(context.Background(), "")
	require.Error(t, err)
}
