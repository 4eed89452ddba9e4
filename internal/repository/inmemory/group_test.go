package inmemory

import (
	"context"
	"testing"
	"time"

	groupdomain "social-app-go/internal/domain/group"
)

func fixedClock(cache *GroupCache, start time.Time) *time.Time {
	now := start
	cache.now = func() time.Time { return now }
	return &now
}

func TestGroupCacheSetGet(t *testing.T) {
	cache := NewGroupCache(0)
	ctx := context.Background()

	cache.SetBySlug(ctx, "hikers", &groupdomain.Group{ID: 7, Name: "Hikers", Slug: "hikers"}, time.Minute)

	got, ok := cache.GetBySlug(ctx, "hikers")
	if !ok {
		t.Fatalf("expected cached group")
	}
	if got.ID != 7 || got.Name != "Hikers" {
		t.Fatalf("unexpected group: %+v", got)
	}

	got.Name = "changed"
	again, _ := cache.GetBySlug(ctx, "hikers")
	if again.Name != "Hikers" {
		t.Fatalf("cache returned shared value, got %q", again.Name)
	}
}

func TestGroupCacheExpires(t *testing.T) {
	cache := NewGroupCache(0)
	ctx := context.Background()
	now := fixedClock(cache, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	cache.SetBySlug(ctx, "hikers", &groupdomain.Group{ID: 1}, time.Minute)
	*now = now.Add(time.Minute)

	if _, ok := cache.GetBySlug(ctx, "hikers"); ok {
		t.Fatalf("expected expired entry to miss")
	}
	if cache.Len() != 0 {
		t.Fatalf("expected expired entry to be dropped, got %d", cache.Len())
	}
}

func TestGroupCacheNilOrZeroTTLDeletes(t *testing.T) {
	cache := NewGroupCache(0)
	ctx := context.Background()

	cache.SetBySlug(ctx, "hikers", &groupdomain.Group{ID: 1}, time.Minute)
	cache.SetBySlug(ctx, "hikers", nil, time.Minute)
	if _, ok := cache.GetBySlug(ctx, "hikers"); ok {
		t.Fatalf("expected nil group to remove entry")
	}

	cache.SetBySlug(ctx, "hikers", &groupdomain.Group{ID: 1}, time.Minute)
	cache.SetBySlug(ctx, "hikers", &groupdomain.Group{ID: 1}, 0)
	if _, ok := cache.GetBySlug(ctx, "hikers"); ok {
		t.Fatalf("expected zero ttl to remove entry")
	}
}

func TestGroupCacheDelete(t *testing.T) {
	cache := NewGroupCache(0)
	ctx := context.Background()

	cache.SetBySlug(ctx, "a", &groupdomain.Group{ID: 1}, time.Minute)
	cache.SetBySlug(ctx, "b", &groupdomain.Group{ID: 2}, time.Minute)

	cache.DeleteBySlug(ctx, "a")
	if _, ok := cache.GetBySlug(ctx, "a"); ok {
		t.Fatalf("expected a to be deleted")
	}
	if _, ok := cache.GetBySlug(ctx, "b"); !ok {
		t.Fatalf("expected b to stay")
	}
}

func TestGroupCacheBounded(t *testing.T) {
	ctx := context.Background()

	t.Run("evicts soonest expiry", func(t *testing.T) {
		cache := NewGroupCache(2)
		fixedClock(cache, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

		cache.SetBySlug(ctx, "short", &groupdomain.Group{ID: 1}, time.Minute)
		cache.SetBySlug(ctx, "long", &groupdomain.Group{ID: 2}, time.Hour)
		cache.SetBySlug(ctx, "new", &groupdomain.Group{ID: 3}, 10*time.Minute)

		if cache.Len() != 2 {
			t.Fatalf("expected 2 entries, got %d", cache.Len())
		}
		if _, ok := cache.GetBySlug(ctx, "short"); ok {
			t.Fatalf("expected short-lived entry to be evicted")
		}
		for _, slug := range []string{"long", "new"} {
			if _, ok := cache.GetBySlug(ctx, slug); !ok {
				t.Fatalf("expected %s to stay", slug)
			}
		}
	})

	t.Run("drops expired before live", func(t *testing.T) {
		cache := NewGroupCache(2)
		now := fixedClock(cache, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

		cache.SetBySlug(ctx, "stale", &groupdomain.Group{ID: 1}, time.Minute)
		cache.SetBySlug(ctx, "live", &groupdomain.Group{ID: 2}, time.Hour)
		*now = now.Add(2 * time.Minute)
		cache.SetBySlug(ctx, "new", &groupdomain.Group{ID: 3}, time.Hour)

		if _, ok := cache.GetBySlug(ctx, "live"); !ok {
			t.Fatalf("expected live entry to survive")
		}
		if _, ok := cache.GetBySlug(ctx, "new"); !ok {
			t.Fatalf("expected new entry to be stored")
		}
	})

	t.Run("replacing does not evict", func(t *testing.T) {
		cache := NewGroupCache(2)
		cache.SetBySlug(ctx, "a", &groupdomain.Group{ID: 1}, time.Minute)
		cache.SetBySlug(ctx, "b", &groupdomain.Group{ID: 2}, time.Minute)
		cache.SetBySlug(ctx, "a", &groupdomain.Group{ID: 9}, time.Minute)

		if got, ok := cache.GetBySlug(ctx, "a"); !ok || got.ID != 9 {
			t.Fatalf("expected replaced a, got %+v", got)
		}
		if _, ok := cache.GetBySlug(ctx, "b"); !ok {
			t.Fatalf("expected b to stay")
		}
	})
}
