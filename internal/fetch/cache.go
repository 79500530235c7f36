package fetch

import (
	"os"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Archive response caching is for local development only: it avoids
// re-downloading a multi-megabyte archive on every engine restart. It is
// disabled unless ENABLE_ARCHIVE_CACHE=true, and always disabled when
// API_ENV=production.

var (
	archiveCache *gocache.Cache
	cacheOnce    sync.Once
)

// GetCache returns the archive cache, or nil when caching is disabled.
func GetCache() *gocache.Cache {
	if os.Getenv("ENABLE_ARCHIVE_CACHE") != "true" {
		return nil
	}
	if os.Getenv("API_ENV") == "production" {
		return nil
	}
	cacheOnce.Do(func() {
		archiveCache = gocache.New(30*time.Minute, 10*time.Minute)
	})
	return archiveCache
}
