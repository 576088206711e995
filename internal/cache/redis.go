package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type RedisInvalidator struct {
	rdb *redis.Client
}

func NewRedisInvalidator(addr string) *RedisInvalidator {
	return &RedisInvalidator{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

// InvalidateCachePrefix deletes every key under prefix. SCAN keeps this
// incremental; a large key space never blocks the server the way KEYS would.
func (c *RedisInvalidator) InvalidateCachePrefix(ctx context.Context, prefix string) error {
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := c.rdb.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("del batch: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan %s*: %w", prefix, err)
	}
	if len(batch) > 0 {
		if err := c.rdb.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("del batch: %w", err)
		}
	}
	return nil
}

func (c *RedisInvalidator) Close() error {
	return c.rdb.Close()
}
