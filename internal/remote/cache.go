package remote

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// FetchFunc downloads the object stored under key.
type FetchFunc func(ctx context.Context, key string) ([]byte, error)

// Cache keeps fetched objects in memory so slices handed out stay valid and
// repeated reads do not download again. Concurrent fetches of one key are
// collapsed into a single request.
type Cache struct {
	fetch FetchFunc
	group singleflight.Group

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewCache returns an empty cache backed by fetch.
func NewCache(fetch FetchFunc) *Cache {
	return &Cache{fetch: fetch, objects: make(map[string][]byte)}
}

// Get returns the cached object or fetches it.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	data, ok := c.objects[key]
	c.mu.RUnlock()
	if ok {
		return data, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		data, err := c.fetch(ctx, key)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.objects[key] = data
		c.mu.Unlock()
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Forget drops key so the next Get fetches it again. Slices returned
// earlier stay valid.
func (c *Cache) Forget(key string) {
	c.mu.Lock()
	delete(c.objects, key)
	c.mu.Unlock()
}

// Len returns the number of cached objects.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.objects)
}
