package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/config"
	"github.com/charmbracelet/log"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	go_store "github.com/eko/gocache/store/go_cache/v4"
	redis_store "github.com/eko/gocache/store/redis/v4"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// PrefixedCache stores JSON encoded values of type T under a key prefix.
type PrefixedCache[T any] struct {
	cache  *cache.Cache[string]
	prefix string
}

// NewPrefixedCache wraps c, prefixing every key with prefix.
func NewPrefixedCache[T any](c *cache.Cache[string], prefix string) *PrefixedCache[T] {
	return &PrefixedCache[T]{
		cache:  c,
		prefix: prefix,
	}
}

func (p *PrefixedCache[T]) key(key any) string {
	return p.prefix + fmt.Sprintf("%v", key)
}

// Get returns the value stored under key. A missing key returns an error from the store.
func (p *PrefixedCache[T]) Get(ctx context.Context, key any) (T, error) {
	var result T
	data, err := p.cache.Get(ctx, p.key(key))
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return result, err
	}
	return result, nil
}

// Set stores object under key for ttl. A zero ttl keeps the store default.
func (p *PrefixedCache[T]) Set(ctx context.Context, key any, object T, ttl time.Duration) error {
	data, err := json.Marshal(object)
	if err != nil {
		return err
	}
	var opts []store.Option
	if ttl > 0 {
		opts = append(opts, store.WithExpiration(ttl))
	}
	return p.cache.Set(ctx, p.key(key), string(data), opts...)
}

// Delete removes key.
func (p *PrefixedCache[T]) Delete(ctx context.Context, key any) error {
	return p.cache.Delete(ctx, p.key(key))
}

// GetType returns the backing store type.
func (p *PrefixedCache[T]) GetType() string {
	return p.cache.GetType()
}

// New returns a string cache backed by the store configured in cfg.
func New(cfg *config.CacheConfig) *cache.Cache[string] {
	if cfg == nil {
		return newMemoryCache()
	}
	switch cfg.Type {
	case config.CacheTypeRedis:
		log.Debug("using redis cache", "addr", cfg.RedisURL)
		return newRedisCache(cfg)
	default:
		return newMemoryCache()
	}
}

func newMemoryCache() *cache.Cache[string] {
	gocacheClient := gocache.New(10*time.Minute, 5*time.Minute)
	return cache.New[string](go_store.NewGoCache(gocacheClient))
}

func newRedisCache(cfg *config.CacheConfig) *cache.Cache[string] {
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL,
	})
	return cache.New[string](redis_store.NewRedis(redisClient))
}
