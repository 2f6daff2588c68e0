package collection

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/packworks/packworks/internal/domain"
)

// CacheSchemaVersion is the current version of the cache schema
// Increment this when the cached data structure changes to auto-invalidate old entries
const CacheSchemaVersion = "1.0"

// cachedCollectionEntry wraps a collection snapshot with version metadata
type cachedCollectionEntry struct {
	Version    string             `json:"version"`
	Collection *domain.Collection `json:"collection"`
	CachedAt   time.Time          `json:"cached_at"`
}

// collectionCache provides a short-TTL LRU cache for collection reads.
// Mutating operations invalidate their user's entry so readers never see a
// snapshot older than the TTL after a write.
type collectionCache struct {
	lru *expirable.LRU[string, *cachedCollectionEntry]
}

func newCollectionCache(size int, ttl time.Duration) *collectionCache {
	return &collectionCache{
		lru: expirable.NewLRU[string, *cachedCollectionEntry](size, nil, ttl),
	}
}

// Get retrieves a collection snapshot from the cache.
// Returns (nil, false) if not cached, expired, or version mismatched.
func (c *collectionCache) Get(userID string) (*domain.Collection, bool) {
	entry, found := c.lru.Get(userID)
	if !found {
		return nil, false
	}

	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(userID)
		return nil, false
	}

	return entry.Collection, true
}

// Set stores a collection snapshot with the current schema version.
func (c *collectionCache) Set(userID string, col *domain.Collection) {
	c.lru.Add(userID, &cachedCollectionEntry{
		Version:    CacheSchemaVersion,
		Collection: col,
		CachedAt:   time.Now(),
	})
}

// Invalidate removes a user's snapshot after a mutation.
func (c *collectionCache) Invalidate(userID string) {
	c.lru.Remove(userID)
}

// Clear removes all entries from the cache.
func (c *collectionCache) Clear() {
	c.lru.Purge()
}
