package folio

import (
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/eringen/folio/content"
)

// IndexCache is an in-memory cache of a category's post index with TTL.
// The content watcher invalidates it when files change.
type IndexCache struct {
	mu      sync.RWMutex
	index   []content.FrontMatter
	loaded  bool
	fetched time.Time
	ttl     time.Duration
	build   func() ([]content.FrontMatter, error)
	now     func() time.Time
}

// NewIndexCache creates a cache over category below contentDir on fs.
func NewIndexCache(fs afero.Fs, contentDir, category string, ttl time.Duration) *IndexCache {
	return &IndexCache{
		ttl: ttl,
		build: func() ([]content.FrontMatter, error) {
			return content.BuildIndex(fs, contentDir, category)
		},
		now: time.Now,
	}
}

func (c *IndexCache) valid() bool {
	return c.loaded && c.now().Sub(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read rebuilds the index.
func (c *IndexCache) Invalidate() {
	c.mu.Lock()
	c.index = nil
	c.loaded = false
	c.mu.Unlock()
}

// Index returns every post, drafts included, newest first. It tries a read
// lock first and only takes the write lock to rebuild.
func (c *IndexCache) Index() ([]content.FrontMatter, error) {
	c.mu.RLock()
	if c.valid() {
		index := c.index
		c.mu.RUnlock()
		return index, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.index, nil
	}
	index, err := c.build()
	if err != nil {
		return nil, err
	}
	c.index = index
	c.loaded = true
	c.fetched = c.now()
	return index, nil
}

// Published returns the index without drafts.
func (c *IndexCache) Published() ([]content.FrontMatter, error) {
	index, err := c.Index()
	if err != nil {
		return nil, err
	}
	return content.Published(index), nil
}
