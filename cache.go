package sigsite

import (
	"slices"
	"sync"
	"time"
)

// AuthorCache is an in-memory copy of the stored author ranking with TTL.
type AuthorCache struct {
	mu      sync.RWMutex
	authors []Author
	info    DatasetInfo
	fetched time.Time
	ttl     time.Duration
	store   *Store
	now     func() time.Time
}

// NewAuthorCache creates an AuthorCache backed by the given Store.
func NewAuthorCache(s *Store, ttl time.Duration) *AuthorCache {
	return &AuthorCache{store: s, ttl: ttl, now: time.Now}
}

func (c *AuthorCache) valid() bool {
	return c.authors != nil && c.now().Sub(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *AuthorCache) Invalidate() {
	c.mu.Lock()
	c.authors = nil
	c.info = DatasetInfo{}
	c.mu.Unlock()
}

func (c *AuthorCache) load() error {
	if c.valid() {
		return nil
	}
	authors, err := c.store.ListAuthors(AuthorQuery{})
	if err != nil {
		return err
	}
	info, err := c.store.DatasetInfo()
	if err != nil {
		return err
	}
	if authors == nil {
		authors = []Author{}
	}
	c.authors = authors
	c.info = info
	c.fetched = c.now()
	return nil
}

// ensureLoaded returns the cached ranking after ensuring the cache is fresh.
// It tries a read lock first and only takes the write lock to reload.
func (c *AuthorCache) ensureLoaded() ([]Author, DatasetInfo, error) {
	c.mu.RLock()
	if c.valid() {
		authors, info := c.authors, c.info
		c.mu.RUnlock()
		return authors, info, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, DatasetInfo{}, err
	}
	return c.authors, c.info, nil
}

// List filters and orders the cached ranking. The returned slice is a copy.
func (c *AuthorCache) List(q AuthorQuery) ([]Author, error) {
	authors, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	q = q.normalize()
	out := make([]Author, 0, len(authors))
	for _, a := range authors {
		if a.Pubs >= q.MinPubs {
			out = append(out, a)
		}
	}
	if q.Sort != SortPubs {
		slices.SortStableFunc(out, func(a, b Author) int {
			switch {
			case q.less(a, b):
				return -1
			case q.less(b, a):
				return 1
			}
			return 0
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Info returns the cached dataset summary.
func (c *AuthorCache) Info() (DatasetInfo, error) {
	_, info, err := c.ensureLoaded()
	return info, err
}

// Get returns one cached author by dataset id.
func (c *AuthorCache) Get(id string) (Author, error) {
	authors, _, err := c.ensureLoaded()
	if err != nil {
		return Author{}, err
	}
	for _, a := range authors {
		if a.ID == id {
			return a, nil
		}
	}
	return Author{}, ErrNotFound
}
