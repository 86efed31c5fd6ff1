// Package redis implements the molecule cache keyed by identity key.
package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/andrewtarzia/stk/internal/config"
	"github.com/andrewtarzia/stk/internal/domain/molecule"
	"github.com/andrewtarzia/stk/pkg/errors"
)

const keyPrefix = "stk:molecule:"

// Cache stores constructed molecules in Redis by identity key, with
// singleflight deduplication of concurrent loads for the same key.
type Cache struct {
	client *goredis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg config.CacheConfig) (*Cache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeCacheError, "redis ping failed").
			WithDetail(cfg.Addr)
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{client: client, ttl: ttl}, nil
}

// Get fetches a cached build.  A miss is a CodeNotFound error.
func (c *Cache) Get(ctx context.Context, identityKey string) (*molecule.Constructed, error) {
	data, err := c.client.Get(ctx, keyPrefix+identityKey).Bytes()
	if err == goredis.Nil {
		return nil, errors.NotFound("molecule not cached").WithDetail(identityKey)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCacheError, "cache get failed").
			WithDetail(identityKey)
	}

	var out molecule.Constructed
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(err, errors.CodeSerialization, "failed to decode cached molecule")
	}
	return &out, nil
}

// Set stores a build under its identity key with a jittered TTL.
func (c *Cache) Set(ctx context.Context, m *molecule.Constructed) error {
	data, err := json.Marshal(m)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to encode molecule for cache")
	}
	if err := c.client.Set(ctx, keyPrefix+m.IdentityKey, data, c.jitterTTL()).Err(); err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "cache set failed").
			WithDetail(m.IdentityKey)
	}
	return nil
}

// GetOrLoad returns the cached build for identityKey, or runs load once
// per key across concurrent callers and caches its result.
func (c *Cache) GetOrLoad(ctx context.Context, identityKey string,
	load func(context.Context) (*molecule.Constructed, error)) (*molecule.Constructed, error) {

	if cached, err := c.Get(ctx, identityKey); err == nil {
		return cached, nil
	} else if !errors.IsNotFound(err) {
		return nil, err
	}

	v, err, _ := c.group.Do(identityKey, func() (interface{}, error) {
		built, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.Set(ctx, built); err != nil {
			// Cache write failures do not fail the load.
			return built, nil
		}
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*molecule.Constructed), nil
}

// Delete drops one cached build.
func (c *Cache) Delete(ctx context.Context, identityKey string) error {
	if err := c.client.Del(ctx, keyPrefix+identityKey).Err(); err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "cache delete failed").
			WithDetail(identityKey)
	}
	return nil
}

// Close releases the underlying connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

// jitterTTL spreads expirations by up to 10% to avoid synchronized
// eviction storms.
func (c *Cache) jitterTTL() time.Duration {
	jitter := time.Duration(rand.Int63n(int64(c.ttl) / 10))
	return c.ttl + jitter
}
