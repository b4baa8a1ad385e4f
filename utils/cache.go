package utils

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"solven/internal/repo"
)

const signedURLPrefix = "signed_url:"

var cacheOnce sync.Once
var urlCache *SignedURLCache

// SignedURLCache keeps presigned GET URLs in Redis so repeated views
// of the same file do not re-sign on every request. The TTL must stay
// below the presign validity window or we would hand out dead links.
type SignedURLCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSignedURLCache creates a signed URL cache.
func NewSignedURLCache(client *redis.Client, ttl time.Duration) *SignedURLCache {
	return &SignedURLCache{client: client, ttl: ttl}
}

// SignedURLs returns the process-wide cache, backed by repo.Redis.
func SignedURLs(ttl time.Duration) *SignedURLCache {
	cacheOnce.Do(func() {
		urlCache = NewSignedURLCache(repo.Redis, ttl)
	})
	return urlCache
}

// Get returns the cached URL for an object key, or "" on miss. Cache
// errors degrade to a miss.
func (c *SignedURLCache) Get(ctx context.Context, objectKey string) string {
	if c == nil || c.client == nil {
		return ""
	}
	val, err := c.client.Get(ctx, signedURLPrefix+objectKey).Result()
	if err != nil {
		return ""
	}
	return val
}

// Set stores a URL for an object key.
func (c *SignedURLCache) Set(ctx context.Context, objectKey, url string) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Set(ctx, signedURLPrefix+objectKey, url, c.ttl).Err()
}

// Invalidate drops the cached URL for an object key, called whenever
// the backing object is deleted or pruned.
func (c *SignedURLCache) Invalidate(ctx context.Context, objectKey string) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, signedURLPrefix+objectKey).Err()
}
