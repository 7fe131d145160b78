package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scolardf/devconnector/internal/application/service"
)

const repoCacheKeyPrefix = "github:repos:"

type redisRepoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisRepoCache stores upstream repo listings under a per-username key.
// GitHub logins are case-insensitive, so the key is lowercased.
func NewRedisRepoCache(rdb *redis.Client, ttl time.Duration) service.RepoCache {
	return &redisRepoCache{rdb: rdb, ttl: ttl}
}

func repoCacheKey(username string) string {
	return repoCacheKeyPrefix + strings.ToLower(strings.TrimSpace(username))
}

func (c *redisRepoCache) Get(ctx context.Context, username string) (json.RawMessage, bool, error) {
	val, err := c.rdb.Get(ctx, repoCacheKey(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return json.RawMessage(val), true, nil
}

func (c *redisRepoCache) Set(ctx context.Context, username string, body json.RawMessage) error {
	return c.rdb.Set(ctx, repoCacheKey(username), []byte(body), c.ttl).Err()
}

func (c *redisRepoCache) Evict(ctx context.Context, username string) error {
	return c.rdb.Del(ctx, repoCacheKey(username)).Err()
}
