// Package redis stores cached domain values in Redis encoded with msgpack.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
	groupdomain "social-app-go/internal/domain/group"
	"social-app-go/pkg/logger"
)

const groupKeyPrefix = "groups:slug:"

// GroupCache shares group lookups between instances. Redis failures degrade to cache misses.
type GroupCache struct {
	client *goredis.Client
	log    logger.Logger
}

type cachedGroup struct {
	ID            uint      `msgpack:"id"`
	Name          string    `msgpack:"name"`
	Slug          string    `msgpack:"slug"`
	Description   string    `msgpack:"description"`
	AutoApproval  bool      `msgpack:"auto_approval"`
	CoverPath     *string   `msgpack:"cover_path"`
	ThumbnailPath *string   `msgpack:"thumbnail_path"`
	OwnerID       uint      `msgpack:"owner_id"`
	CreatedAt     time.Time `msgpack:"created_at"`
	UpdatedAt     time.Time `msgpack:"updated_at"`
}

func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func NewGroupCache(client *goredis.Client, log logger.Logger) *GroupCache {
	if log == nil {
		log = logger.Nop()
	}
	return &GroupCache{client: client, log: log.Component("group_cache")}
}

func (c *GroupCache) GetBySlug(ctx context.Context, slug string) (*groupdomain.Group, bool) {
	data, err := c.client.Get(ctx, groupKeyPrefix+slug).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("group_cache.get: redis failed", "slug", slug, "err", err)
		}
		return nil, false
	}

	group, err := decodeGroup(data)
	if err != nil {
		c.log.Warn("group_cache.get: decode failed", "slug", slug, "err", err)
		return nil, false
	}
	return group, true
}

func (c *GroupCache) SetBySlug(ctx context.Context, slug string, group *groupdomain.Group, ttl time.Duration) {
	if group == nil || ttl <= 0 {
		c.DeleteBySlug(ctx, slug)
		return
	}

	data, err := encodeGroup(group)
	if err != nil {
		c.log.Warn("group_cache.set: encode failed", "slug", slug, "err", err)
		return
	}

	if err := c.client.Set(ctx, groupKeyPrefix+slug, data, ttl).Err(); err != nil {
		c.log.Warn("group_cache.set: redis failed", "slug", slug, "err", err)
	}
}

func (c *GroupCache) DeleteBySlug(ctx context.Context, slug string) {
	if err := c.client.Del(ctx, groupKeyPrefix+slug).Err(); err != nil {
		c.log.Warn("group_cache.delete: redis failed", "slug", slug, "err", err)
	}
}

func encodeGroup(group *groupdomain.Group) ([]byte, error) {
	return msgpack.Marshal(cachedGroup{
		ID:            group.ID,
		Name:          group.Name,
		Slug:          group.Slug,
		Description:   group.Description,
		AutoApproval:  group.AutoApproval,
		CoverPath:     group.CoverPath,
		ThumbnailPath: group.ThumbnailPath,
		OwnerID:       group.OwnerID,
		CreatedAt:     group.CreatedAt,
		UpdatedAt:     group.UpdatedAt,
	})
}

func decodeGroup(data []byte) (*groupdomain.Group, error) {
	var cached cachedGroup
	if err := msgpack.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return &groupdomain.Group{
		ID:            cached.ID,
		Name:          cached.Name,
		Slug:          cached.Slug,
		Description:   cached.Description,
		AutoApproval:  cached.AutoApproval,
		CoverPath:     cached.CoverPath,
		ThumbnailPath: cached.ThumbnailPath,
		OwnerID:       cached.OwnerID,
		CreatedAt:     cached.CreatedAt,
		UpdatedAt:     cached.UpdatedAt,
	}, nil
}
