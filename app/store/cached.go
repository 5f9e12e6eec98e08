package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-pkgz/lcw/v2"
)

// PrefStore is the storage wrapped by Cached.
type PrefStore interface {
	Get(ctx context.Context, profile, key string) (string, error)
	Set(ctx context.Context, profile, key, value string) error
	Clear(ctx context.Context, profile string) error
	List(ctx context.Context, profile string) ([]Pref, error)
	Profiles(ctx context.Context) (int, error)
	Close() error
}

// cacheSep joins profile and key into a cache key, it can't appear in a uuid.
const cacheSep = "\x00"

// Cached wraps a PrefStore with a loading cache and satisfies PrefStore itself.
// Reads populate the cache, writes go to the store first and then drop the cached entry.
// Writes exclude in-flight loads, so a load started before a write can't cache the old value.
type Cached struct {
	store PrefStore
	cache lcw.LoadingCache[string]
	mu    sync.RWMutex // read-locked by loads, write-locked by Set and Clear
}

// NewCached creates a new cached store wrapper.
// maxKeys sets the maximum number of entries in the cache.
func NewCached(store PrefStore, maxKeys int) (*Cached, error) {
	cache, err := lcw.NewLruCache(lcw.NewOpts[string]().MaxKeys(maxKeys))
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return &Cached{store: store, cache: cache}, nil
}

// Get retrieves the value of the profile's key, using cache with load-through.
func (c *Cached) Get(ctx context.Context, profile, key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, err := c.cache.Get(profile+cacheSep+key, func() (string, error) {
		v, loadErr := c.store.Get(ctx, profile, key)
		if loadErr != nil {
			return "", fmt.Errorf("load from store: %w", loadErr)
		}
		return v, nil
	})
	if err != nil {
		return "", fmt.Errorf("cache get: %w", err)
	}
	return val, nil
}

// Set stores a value and invalidates the cache entry.
func (c *Cached) Set(ctx context.Context, profile, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Set(ctx, profile, key, value); err != nil {
		return fmt.Errorf("store set: %w", err)
	}
	ck := profile + cacheSep + key
	c.cache.Invalidate(func(k string) bool { return k == ck })
	return nil
}

// Clear removes all preferences of the profile and drops its cache entries.
func (c *Cached) Clear(ctx context.Context, profile string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	// invalidate regardless of error - entries might have been cached
	prefix := profile + cacheSep
	c.cache.Invalidate(func(k string) bool { return strings.HasPrefix(k, prefix) })
	if err := c.store.Clear(ctx, profile); err != nil {
		return fmt.Errorf("store clear: %w", err)
	}
	return nil
}

// List returns the profile's preferences from the underlying store (not cached).
func (c *Cached) List(ctx context.Context, profile string) ([]Pref, error) {
	prefs, err := c.store.List(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("store list: %w", err)
	}
	return prefs, nil
}

// Profiles returns the profile count from the underlying store (not cached).
func (c *Cached) Profiles(ctx context.Context) (int, error) {
	n, err := c.store.Profiles(ctx)
	if err != nil {
		return 0, fmt.Errorf("store profiles: %w", err)
	}
	return n, nil
}

// Close closes the cache and underlying store.
func (c *Cached) Close() error {
	_ = c.cache.Close()
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("store close: %w", err)
	}
	return nil
}

// Stats returns cache statistics.
func (c *Cached) Stats() lcw.CacheStat {
	return c.cache.Stat()
}
