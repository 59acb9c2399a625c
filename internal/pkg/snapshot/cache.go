// internal/pkg/snapshot/cache.go
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pipeline-service/internal/domain/lead"

	"github.com/redis/go-redis/v9"
)

const (
	defaultKey = "pipeline:leads:snapshot"
	defaultTTL = 24 * time.Hour
)

// Cache holds the last-known-good lead collection in Redis. Reads fall back to
// it when the record store is unreachable, and failed writes are applied to it
// optimistically so the local view keeps moving until the next successful live
// read reconciles state.
type Cache struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{rdb: rdb, key: defaultKey, ttl: ttl}
}

// Save replaces the snapshot with the given collection.
func (c *Cache) Save(ctx context.Context, leads []lead.Lead) error {
	payload, err := json.Marshal(leads)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := c.rdb.Set(ctx, c.key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	return nil
}

// Load returns the snapshot and whether one exists.
func (c *Cache) Load(ctx context.Context) ([]lead.Lead, bool, error) {
	payload, err := c.rdb.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load snapshot: %w", err)
	}

	var leads []lead.Lead
	if err := json.Unmarshal(payload, &leads); err != nil {
		return nil, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return leads, true, nil
}
