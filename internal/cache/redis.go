// Package cache stores query results in Redis as ordered lists of plot ids.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "plot-query-service/internal/common/errors"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "plots:query:"

// Key namespaces a filter key by catalog fingerprint, so entries written
// for one catalog are never read for another.
func Key(fingerprint, specKey string) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, fingerprint, specKey)
}

// ResultCache is a Redis-backed query result cache.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultCache(client *redis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, ttl: ttl}
}

// Get returns the cached ids for key. A miss is (nil, false, nil).
func (c *ResultCache) Get(ctx context.Context, key string) ([]string, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewCacheUnavailableError(err)
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, false, apperrors.NewCacheUnavailableError(fmt.Errorf("decode %s: %w", key, err))
	}
	return ids, true, nil
}

// Set stores ids under key with the configured TTL.
func (c *ResultCache) Set(ctx context.Context, key string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return apperrors.NewCacheUnavailableError(err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return apperrors.NewCacheUnavailableError(err)
	}
	return nil
}
