package images

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spacenow-app/spacenow/pkg/logger"
)

// Cache keeps recently served space images in Redis so repeated dashboard
// loads skip the disk read.
type Cache struct {
	cli *redis.Client
	ttl time.Duration
}

func NewCache(addr, password string, db int, ttl time.Duration) *Cache {
	cli := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Cache{cli: cli, ttl: ttl}
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.cli.Ping(ctx).Err()
}

func (c *Cache) Set(ctx context.Context, spaceID string, image []byte) error {
	err := c.cli.Set(ctx, key(spaceID), image, c.ttl).Err()
	if err != nil {
		logger.WarnContext(ctx, "Failed to cache space image", "error", err, "space_id", spaceID)
	}
	return err
}

func (c *Cache) Get(ctx context.Context, spaceID string) ([]byte, bool) {
	data, err := c.cli.Get(ctx, key(spaceID)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *Cache) Invalidate(ctx context.Context, spaceID string) {
	if err := c.cli.Del(ctx, key(spaceID)).Err(); err != nil {
		logger.WarnContext(ctx, "Failed to invalidate image cache", "error", err, "space_id", spaceID)
	}
}

func (c *Cache) Close() error {
	return c.cli.Close()
}

func key(spaceID string) string {
	return fmt.Sprintf("images:%s", spaceID)
}
