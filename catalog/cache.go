// Package catalog provides a client for the hosted book catalog service.
package catalog

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/mo"
	"github.com/summarist-cli/summarist/filesystem"
	"github.com/summarist-cli/summarist/where"
)

// cacheData defines the structured format for persisting cached catalog records to disk.
type cacheData[K comparable, T any] struct {
	Books map[K]T `json:"books"`
}

// cacher provides a generic, thread-safe wrapper for high-level caching operations.
type cacher[K comparable, T any] struct {
	internal   *gache.Cache[*cacheData[K, T]]
	keyWrapper func(K) K
	mu         sync.RWMutex
}

// Get retrieves a value from the cache associated with the specified key.
func (c *cacher[K, T]) Get(key K) mo.Option[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, expired, err := c.internal.Get()
	if err != nil || expired || data == nil {
		return mo.None[T]()
	}

	books, ok := data.Books[c.keyWrapper(key)]
	if ok {
		return mo.Some(books)
	}

	return mo.None[T]()
}

// Set persists a key-value pair to the cache.
func (c *cacher[K, T]) Set(key K, t T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil {
		return err
	}

	if !expired && data != nil {
		data.Books[c.keyWrapper(key)] = t
		return c.internal.Set(data)
	} else {
		internal := &cacheData[K, T]{Books: make(map[K]T)}
		internal.Books[c.keyWrapper(key)] = t
		return c.internal.Set(internal)
	}
}

// Delete removes the entry associated with the specified key from the cache.
func (c *cacher[K, T]) Delete(key K) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil {
		return err
	}

	if !expired {
		delete(data.Books, c.keyWrapper(key))
		return c.internal.Set(data)
	}

	return nil
}

// idCacher provides local persistence for comprehensive book metadata lookups.
var idCacher = &cacher[string, *Book]{
	internal: gache.New[*cacheData[string, *Book]](
		&gache.Options{
			Path:       where.Books(),
			Lifetime:   time.Hour * 24 * 2,
			FileSystem: &filesystem.GacheFs{},
		},
	),
	keyWrapper: func(id string) string { return id },
}

// feedCacher persists curated feed sections for optimized lookup.
var feedCacher = &cacher[string, []*Book]{
	internal: gache.New[*cacheData[string, []*Book]](
		&gache.Options{
			Path:       where.Feeds(),
			Lifetime:   time.Hour,
			FileSystem: &filesystem.GacheFs{},
		},
	),
	keyWrapper: normalizedTitle,
}

// searchCacher persists search result pages for optimized lookup.
var searchCacher = &cacher[string, []string]{
	internal: gache.New[*cacheData[string, []string]](
		&gache.Options{
			Path:       where.Searches(),
			Lifetime:   time.Hour * 24 * 10,
			FileSystem: &filesystem.GacheFs{},
		},
	),
	keyWrapper: normalizedTitle,
}

// relationCacher provides persistence for title-to-book-id mappings.
var relationCacher = &cacher[string, string]{
	internal: gache.New[*cacheData[string, string]](
		&gache.Options{
			Path:       filepath.Join(where.Cache(), "title_relations.json"),
			FileSystem: &filesystem.GacheFs{},
		},
	),
	keyWrapper: normalizedTitle,
}

// failCacher serves as short-term persistence for failed search queries to mitigate redundant API pressure.
var failCacher = &cacher[string, bool]{
	internal: gache.New[*cacheData[string, bool]](
		&gache.Options{
			Path:       filepath.Join(where.Cache(), "catalog_fail_cache.json"),
			Lifetime:   time.Minute,
			FileSystem: &filesystem.GacheFs{},
		},
	),
	keyWrapper: normalizedTitle,
}
