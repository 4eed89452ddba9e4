package inmemory

import (
	"context"
	"sync"
	"time"

	groupdomain "social-app-go/internal/domain/group"
)

const defaultMaxGroups = 1000

// GroupCache holds groups by slug for the process lifetime of each entry's TTL.
// It never grows past maxEntries: expired entries go first, then the one closest to expiry.
type GroupCache struct {
	mu         sync.Mutex
	entries    map[string]cachedGroup
	maxEntries int
	now        func() time.Time
}

type cachedGroup struct {
	group   groupdomain.Group
	expires time.Time
}

func NewGroupCache(maxEntries int) *GroupCache {
	if maxEntries <= 0 {
		maxEntries = defaultMaxGroups
	}
	return &GroupCache{
		entries:    map[string]cachedGroup{},
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (c *GroupCache) GetBySlug(_ context.Context, slug string) (*groupdomain.Group, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, found := c.entries[slug]
	switch {
	case !found:
		return nil, false
	case c.now().Before(entry.expires):
		group := entry.group
		return &group, true
	default:
		delete(c.entries, slug)
		return nil, false
	}
}

func (c *GroupCache) SetBySlug(ctx context.Context, slug string, group *groupdomain.Group, ttl time.Duration) {
	if group == nil || ttl <= 0 {
		c.DeleteBySlug(ctx, slug)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, replacing := c.entries[slug]; !replacing && len(c.entries) >= c.maxEntries {
		c.makeRoom(now)
	}
	c.entries[slug] = cachedGroup{group: *group, expires: now.Add(ttl)}
}

func (c *GroupCache) DeleteBySlug(_ context.Context, slug string) {
	c.mu.Lock()
	delete(c.entries, slug)
	c.mu.Unlock()
}

func (c *GroupCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// makeRoom must be called with mu held.
func (c *GroupCache) makeRoom(now time.Time) {
	var (
		soonest     string
		soonestTime time.Time
	)
	for slug, entry := range c.entries {
		if !now.Before(entry.expires) {
			delete(c.entries, slug)
			continue
		}
		if soonest == "" || entry.expires.Before(soonestTime) {
			soonest, soonestTime = slug, entry.expires
		}
	}
	if len(c.entries) >= c.maxEntries && soonest != "" {
		delete(c.entries, soonest)
	}
}
