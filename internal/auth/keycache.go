package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// KeyFetchFunc loads the current verification key material from its
// source of truth.
type KeyFetchFunc func(ctx context.Context) ([]byte, error)

// KeyCache caches verification key material with an explicit TTL. The
// fetch function and lifetime are injected so callers control both the
// source and the staleness window; there is no implicit refresh.
type KeyCache struct {
	fetch KeyFetchFunc
	ttl   time.Duration

	mu        sync.Mutex
	key       []byte
	fetchedAt time.Time
}

func NewKeyCache(fetch KeyFetchFunc, ttl time.Duration) *KeyCache {
	return &KeyCache{fetch: fetch, ttl: ttl}
}

// Get returns the cached key, refreshing it when the TTL has elapsed.
// A failed refresh does not serve stale material.
func (c *KeyCache) Get(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.key != nil && time.Since(c.fetchedAt) < c.ttl {
		return c.key, nil
	}

	key, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.key = key
	c.fetchedAt = time.Now()
	return c.key, nil
}

// Invalidate drops the cached key, forcing the next Get to refetch.
// Used after a signature validation failure that suggests rotation.
func (c *KeyCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = nil
	c.fetchedAt = time.Time{}
}

// HTTPKeyFetcher downloads PEM key material from the provider's
// published endpoint.
func HTTPKeyFetcher(url string) KeyFetchFunc {
	return func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch verification key: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch verification key: status %d", resp.StatusCode)
		}

		return io.ReadAll(resp.Body)
	}
}
