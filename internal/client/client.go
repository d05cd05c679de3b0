package client

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"go-media-library/internal/config"
	"go-media-library/internal/medialib"
)

// Client bundles the HTTP mutation API with the cached read path. Mutations
// delegate to the HTTP client and then invalidate the cached listings of
// every folder they touched, so the next fetch observes server truth.
type Client struct {
	*HTTPClient
	cache *ContentCache
}

// New builds a Client from configuration: an HTTP client for the API plus a
// redis-backed content cache.
func New(cfg *config.Config, baseURL, token string, log zerolog.Logger) *Client {
	httpClient := NewHTTPClient(baseURL, token)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.RedisAddr,
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
	})
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	return &Client{
		HTTPClient: httpClient,
		cache:      NewContentCache(httpClient, rdb, ttl, log),
	}
}

// Content returns the cached read path.
func (c *Client) Content() medialib.ContentAPI {
	return c.cache
}

func parentOf(path string) string {
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[:idx]
	}
	return ""
}

func (c *Client) CreateFolder(ctx context.Context, parentPath, name string) (*medialib.CreateFolderResult, error) {
	res, err := c.HTTPClient.CreateFolder(ctx, parentPath, name)
	if err == nil {
		c.cache.Invalidate(ctx, parentPath)
	}
	return res, err
}

func (c *Client) DeleteFolder(ctx context.Context, path string) error {
	err := c.HTTPClient.DeleteFolder(ctx, path)
	if err == nil {
		c.cache.Invalidate(ctx, path)
		c.cache.Invalidate(ctx, parentOf(path))
	}
	return err
}

func (c *Client) RenameFolder(ctx context.Context, oldPath, newName string) (*medialib.RenameFolderResult, error) {
	res, err := c.HTTPClient.RenameFolder(ctx, oldPath, newName)
	if err == nil {
		c.cache.Invalidate(ctx, oldPath)
		c.cache.Invalidate(ctx, parentOf(oldPath))
		if res != nil && res.Path != "" {
			c.cache.Invalidate(ctx, res.Path)
		}
	}
	return res, err
}

func (c *Client) MoveFolder(ctx context.Context, sourcePath, targetPath string) error {
	err := c.HTTPClient.MoveFolder(ctx, sourcePath, targetPath)
	if err == nil {
		c.cache.Invalidate(ctx, sourcePath)
		c.cache.Invalidate(ctx, parentOf(sourcePath))
		c.cache.Invalidate(ctx, targetPath)
	}
	return err
}

func (c *Client) Upload(ctx context.Context, folderPath string, file medialib.FileUpload) (*medialib.UploadResult, error) {
	res, err := c.HTTPClient.Upload(ctx, folderPath, file)
	if err == nil {
		c.cache.Invalidate(ctx, folderPath)
	}
	return res, err
}

func (c *Client) Delete(ctx context.Context, key string) error {
	err := c.HTTPClient.Delete(ctx, key)
	if err == nil {
		c.cache.Invalidate(ctx, parentOf(key))
	}
	return err
}

func (c *Client) DeleteBulk(ctx context.Context, keys []string) (*medialib.BulkDeleteResult, error) {
	res, err := c.HTTPClient.DeleteBulk(ctx, keys)
	if err == nil {
		for _, key := range keys {
			c.cache.Invalidate(ctx, parentOf(key))
		}
	}
	return res, err
}

func (c *Client) Rename(ctx context.Context, key, newName string) (*medialib.FileResult, error) {
	res, err := c.HTTPClient.Rename(ctx, key, newName)
	if err == nil {
		c.cache.Invalidate(ctx, parentOf(key))
	}
	return res, err
}

func (c *Client) Move(ctx context.Context, key, targetFolder string) (*medialib.FileResult, error) {
	res, err := c.HTTPClient.Move(ctx, key, targetFolder)
	if err == nil {
		c.cache.Invalidate(ctx, parentOf(key))
		c.cache.Invalidate(ctx, targetFolder)
	}
	return res, err
}

func (c *Client) MoveBulk(ctx context.Context, keys []string, targetFolder string) (*medialib.BulkMoveResult, error) {
	res, err := c.HTTPClient.MoveBulk(ctx, keys, targetFolder)
	if err == nil {
		for _, key := range keys {
			c.cache.Invalidate(ctx, parentOf(key))
		}
		c.cache.Invalidate(ctx, targetFolder)
	}
	return res, err
}
