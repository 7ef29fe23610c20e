package fs

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/geotagx/builder/pkg/core"
)

const (
	DefaultCacheExpiration      = 10 * time.Minute
	DefaultCacheCleanupInterval = 30 * time.Minute
)

// cacheEntry is a parsed configuration file together with the file
// attributes it was parsed from.
type cacheEntry struct {
	ModTime time.Time
	Size    int64
	Record  core.Record
}

// parseCache keeps parsed configuration files keyed by absolute path.
// Entries are only served while the file's mtime and size are unchanged.
type parseCache struct {
	cache *gocache.Cache
}

func newParseCache(expiration, cleanup time.Duration) *parseCache {
	return &parseCache{cache: gocache.New(expiration, cleanup)}
}

// Get returns the cached record for path if it is still fresh.
func (c *parseCache) Get(path string, modTime time.Time, size int64) (core.Record, bool) {
	value, found := c.cache.Get(path)
	if !found {
		return nil, false
	}
	entry, ok := value.(cacheEntry)
	if !ok || !entry.ModTime.Equal(modTime) || entry.Size != size {
		return nil, false
	}
	return entry.Record, true
}

// Set stores a freshly parsed record.
func (c *parseCache) Set(path string, modTime time.Time, size int64, rec core.Record) {
	c.cache.SetDefault(path, cacheEntry{ModTime: modTime, Size: size, Record: rec})
}

// Invalidate drops the entry for path.
func (c *parseCache) Invalidate(path string) {
	c.cache.Delete(path)
}

// Len returns the number of cached entries.
func (c *parseCache) Len() int {
	return c.cache.ItemCount()
}
