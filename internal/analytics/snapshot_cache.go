package analytics

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gemvault/gemvault-backend/pkg/enums"
	"github.com/gemvault/gemvault-backend/pkg/redis"
)

// SnapshotCache holds the serialized cached-analytics mapping in front of the database.
// Load reports the current version even on a miss; Store writes under that version so a
// reader that raced an Invalidate cannot republish rows it read before the refresh.
type SnapshotCache interface {
	Load(ctx context.Context) (map[enums.MetricType]json.RawMessage, int64, bool, error)
	Store(ctx context.Context, version int64, snapshot map[enums.MetricType]json.RawMessage) error
	Invalidate(ctx context.Context) error
}

type redisStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	CacheKey(parts ...string) string
}

// RedisSnapshotCache stores the snapshot as one JSON document per version with a TTL.
type RedisSnapshotCache struct {
	store redisStore
	ttl   time.Duration
}

// NewRedisSnapshotCache returns nil when client is nil so callers fall back to the database.
func NewRedisSnapshotCache(client *redis.Client, ttl time.Duration) *RedisSnapshotCache {
	if client == nil {
		return nil
	}
	return &RedisSnapshotCache{store: client, ttl: ttl}
}

func (c *RedisSnapshotCache) versionKey() string {
	return c.store.CacheKey("analytics", "snapshot", "version")
}

func (c *RedisSnapshotCache) key(version int64) string {
	return c.store.CacheKey("analytics", "snapshot", strconv.FormatInt(version, 10))
}

func (c *RedisSnapshotCache) version(ctx context.Context) (int64, error) {
	raw, err := c.store.Get(ctx, c.versionKey())
	if redis.IsNil(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (c *RedisSnapshotCache) Load(ctx context.Context) (map[enums.MetricType]json.RawMessage, int64, bool, error) {
	if c == nil || c.store == nil {
		return nil, 0, false, nil
	}
	version, err := c.version(ctx)
	if err != nil {
		return nil, 0, false, err
	}
	raw, err := c.store.Get(ctx, c.key(version))
	if redis.IsNil(err) {
		return nil, version, false, nil
	}
	if err != nil {
		return nil, version, false, err
	}
	out := map[enums.MetricType]json.RawMessage{}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, version, false, err
	}
	return out, version, true, nil
}

func (c *RedisSnapshotCache) Store(ctx context.Context, version int64, snapshot map[enums.MetricType]json.RawMessage) error {
	if c == nil || c.store == nil {
		return nil
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.key(version), raw, c.ttl)
}

// Invalidate bumps the version; documents under older versions expire on their own.
func (c *RedisSnapshotCache) Invalidate(ctx context.Context) error {
	if c == nil || c.store == nil {
		return nil
	}
	_, err := c.store.IncrWithTTL(ctx, c.versionKey(), 0)
	return err
}
