package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"go-media-library/internal/medialib"
)

// ContentCache is a read-through cache in front of a ContentAPI. Cached
// listings live in redis under a per-folder key with a TTL; any cache
// failure (connection down, corrupt entry) falls back to the direct call,
// so the cache is never a hard dependency of the read path.
type ContentCache struct {
	inner medialib.ContentAPI
	rdb   *redis.Client
	ttl   time.Duration
	log   zerolog.Logger
}

// NewContentCache wraps inner with a redis-backed cache.
func NewContentCache(inner medialib.ContentAPI, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *ContentCache {
	return &ContentCache{inner: inner, rdb: rdb, ttl: ttl, log: log}
}

func itemsKey(folderPath string) string   { return "medialib:items:" + folderPath }
func foldersKey(folderPath string) string { return "medialib:folders:" + folderPath }

// List returns the cached item listing for a folder, falling back to the
// wrapped API on miss or cache failure.
func (c *ContentCache) List(ctx context.Context, folderPath string) (*medialib.ListResult, error) {
	if data, err := c.rdb.Get(ctx, itemsKey(folderPath)).Bytes(); err == nil {
		var cached medialib.ListResult
		if json.Unmarshal(data, &cached) == nil {
			return &cached, nil
		}
		c.log.Warn().Str("folder", folderPath).Msg("discarding corrupt cached item listing")
	}

	res, err := c.inner.List(ctx, folderPath)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(res); err == nil {
		if err := c.rdb.Set(ctx, itemsKey(folderPath), data, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Msg("failed to cache item listing")
		}
	}
	return res, nil
}

// ListFolders returns the cached folder listing for a folder, falling back
// to the wrapped API on miss or cache failure.
func (c *ContentCache) ListFolders(ctx context.Context, folderPath string) (*medialib.FolderListResult, error) {
	if data, err := c.rdb.Get(ctx, foldersKey(folderPath)).Bytes(); err == nil {
		var cached medialib.FolderListResult
		if json.Unmarshal(data, &cached) == nil {
			return &cached, nil
		}
		c.log.Warn().Str("folder", folderPath).Msg("discarding corrupt cached folder listing")
	}

	res, err := c.inner.ListFolders(ctx, folderPath)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(res); err == nil {
		if err := c.rdb.Set(ctx, foldersKey(folderPath), data, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Msg("failed to cache folder listing")
		}
	}
	return res, nil
}

// Invalidate drops the cached listings of a folder, typically after a
// mutation that touched it.
func (c *ContentCache) Invalidate(ctx context.Context, folderPath string) {
	if err := c.rdb.Del(ctx, itemsKey(folderPath), foldersKey(folderPath)).Err(); err != nil {
		c.log.Warn().Err(err).Str("folder", folderPath).Msg("failed to invalidate cache")
	}
}
