package watch

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// BootCache stores the last known snapshot of a collection, keyed by table
// and owner id. It is strictly a non-authoritative boot-time hint: the first
// successful remote fetch overwrites it and the cache stops serving it.
type BootCache interface {
	Load(ctx context.Context, table, ownerID string) ([]byte, bool)
	Store(ctx context.Context, table, ownerID string, snapshot []byte)
}

func loadBootHint[T any](ctx context.Context, boot BootCache, table, ownerID string) ([]T, bool) {
	raw, ok := boot.Load(ctx, table, ownerID)
	if !ok {
		return nil, false
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		// A corrupt hint is worth nothing; cold-start instead.
		return nil, false
	}
	return items, true
}

func storeBootHint[T any](ctx context.Context, boot BootCache, table, ownerID string, items []T, logger *slog.Logger) {
	raw, err := json.Marshal(items)
	if err != nil {
		logger.Warn("encode boot snapshot", "table", table, "error", err)
		return
	}
	boot.Store(ctx, table, ownerID, raw)
}

const bootKeyPrefix = "boot:"

// Snapshots older than this are not worth showing; the remote store is the
// sole source of truth either way.
const bootSnapshotTTL = 7 * 24 * time.Hour

// RedisBootCache keeps boot snapshots in redis. Failures are swallowed: a
// missing hint only means a cold Loading state on the next start.
type RedisBootCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisBootCache wraps a connected redis client.
func NewRedisBootCache(client *redis.Client, logger *slog.Logger) *RedisBootCache {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RedisBootCache{client: client, logger: logger}
}

func bootKey(table, ownerID string) string {
	return bootKeyPrefix + table + ":" + ownerID
}

func (b *RedisBootCache) Load(ctx context.Context, table, ownerID string) ([]byte, bool) {
	raw, err := b.client.Get(ctx, bootKey(table, ownerID)).Bytes()
	if err != nil {
		return nil, false
	}
	return raw, true
}

func (b *RedisBootCache) Store(ctx context.Context, table, ownerID string, snapshot []byte) {
	if err := b.client.Set(ctx, bootKey(table, ownerID), snapshot, bootSnapshotTTL).Err(); err != nil {
		b.logger.Warn("store boot snapshot", "table", table, "error", err)
	}
}
