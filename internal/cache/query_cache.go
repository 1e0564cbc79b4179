// Package cache provides a Redis-backed cache for search results keyed by
// normalized query and limit. Concurrent lookups of the same key are
// collapsed with singleflight so the engine computes each result once.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/securedesk/policysearch/config"
	"github.com/securedesk/policysearch/internal/metrics"
	"github.com/securedesk/policysearch/internal/search"
)

const keyPrefix = "search:"

// QueryCache caches search results in Redis. A nil *QueryCache is valid and
// acts as a pass-through, so callers need no enabled/disabled branching.
type QueryCache struct {
	client  *redis.Client
	ttl     time.Duration
	group   singleflight.Group
	metrics *metrics.Metrics
}

// New connects to Redis and returns a QueryCache. The connection is verified
// with a ping so misconfiguration surfaces at startup.
func New(cfg config.RedisConfig, m *metrics.Metrics) (*QueryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &QueryCache{client: client, ttl: cfg.CacheTTL, metrics: m}, nil
}

// Close closes the Redis client.
func (c *QueryCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// GetOrCompute returns the cached result for (query, limit), or runs
// computeFn and stores its result. The second return value reports a cache
// hit.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	query string,
	limit int,
	computeFn func() (search.Result, error),
) (search.Result, bool, error) {
	if c == nil {
		result, err := computeFn()
		return result, false, err
	}

	key := buildKey(query, limit)
	if result, ok := c.get(ctx, key); ok {
		c.observe(true)
		return result, true, nil
	}
	c.observe(false)

	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if result, ok := c.get(ctx, key); ok {
			return result, nil
		}
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.set(ctx, key, result)
		return result, nil
	})
	if err != nil {
		return search.Result{}, false, err
	}
	return val.(search.Result), false, nil
}

func (c *QueryCache) get(ctx context.Context, key string) (search.Result, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("query cache: get %s failed: %v", key, err)
		}
		return search.Result{}, false
	}
	var result search.Result
	if err := json.Unmarshal(data, &result); err != nil {
		log.Printf("query cache: unmarshal %s failed: %v", key, err)
		return search.Result{}, false
	}
	return result, true
}

func (c *QueryCache) set(ctx context.Context, key string, result search.Result) {
	data, err := json.Marshal(result)
	if err != nil {
		log.Printf("query cache: marshal %s failed: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("query cache: set %s failed: %v", key, err)
	}
}

// Invalidate removes every cached search result. It is called whenever the
// corpus changes, since any mutation can affect idf values for all queries.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	var (
		cursor  uint64
		deleted int64
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("scanning cache keys: %w", err)
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return fmt.Errorf("deleting cache keys: %w", err)
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		log.Printf("query cache: invalidated %d entries", deleted)
	}
	return nil
}

func (c *QueryCache) observe(hit bool) {
	if c.metrics == nil {
		return
	}
	if hit {
		c.metrics.CacheHitsTotal.Inc()
	} else {
		c.metrics.CacheMissesTotal.Inc()
	}
}

// buildKey hashes the normalized query plus limit into a fixed-size key.
func buildKey(query string, limit int) string {
	words := strings.Fields(strings.ToLower(query))
	sort.Strings(words)
	raw := fmt.Sprintf("%s:limit=%d", strings.Join(words, ","), limit)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
