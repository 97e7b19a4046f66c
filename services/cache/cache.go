// Package cache keeps computed benchmark features keyed by a digest of the
// circuit's QASM text, either in process or in Redis.
package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/perclft/qbench/pkg/supermarq"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"lukechampine.com/blake3"
)

const (
	KeyPrefix  = "cache:"
	DefaultTTL = time.Hour
)

// ------------------------------------------------------------------
// Cache Types
// ------------------------------------------------------------------

type Entry struct {
	Features  supermarq.Features `json:"features"`
	NumQubits int                `json:"num_qubits"`
	CachedAt  int64              `json:"cached_at"`
	ExpiresAt int64              `json:"expires_at"`
	HitCount  int32              `json:"hit_count"`
}

func (e Entry) expired(now time.Time) bool {
	return e.ExpiresAt > 0 && now.Unix() >= e.ExpiresAt
}

type Stats struct {
	TotalEntries int64
	TotalHits    int64
	TotalMisses  int64
	HitRate      float64
}

// FeatureCache is implemented by LRUCache and RedisCache. Get reports a miss
// with ok == false and a nil error.
type FeatureCache interface {
	Get(ctx context.Context, key string) (entry Entry, ok bool, err error)
	Put(ctx context.Context, key string, entry Entry) error
	Invalidate(ctx context.Context, key string) (bool, error)
	Stats(ctx context.Context) (Stats, error)
}

// Key hashes a circuit for cache lookups.
func Key(qasm string) string {
	sum := blake3.Sum256([]byte(qasm))
	return hex.EncodeToString(sum[:])
}

type counters struct {
	hits   int64
	misses int64
}

func (c *counters) hit()  { atomic.AddInt64(&c.hits, 1) }
func (c *counters) miss() { atomic.AddInt64(&c.misses, 1) }

func (c *counters) stats(entries int64) Stats {
	hits := atomic.LoadInt64(&c.hits)
	misses := atomic.LoadInt64(&c.misses)
	total := hits + misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return Stats{
		TotalEntries: entries,
		TotalHits:    hits,
		TotalMisses:  misses,
		HitRate:      hitRate,
	}
}

func stamp(entry Entry, ttl time.Duration, now time.Time) Entry {
	entry.CachedAt = now.Unix()
	entry.ExpiresAt = 0
	if ttl > 0 {
		entry.ExpiresAt = now.Add(ttl).Unix()
	}
	entry.HitCount = 0
	return entry
}

// ------------------------------------------------------------------
// In-process LRU
// ------------------------------------------------------------------

type LRUCache struct {
	entries *lru.Cache[string, Entry]
	ttl     time.Duration
	now     func() time.Time
	counters
}

// NewLRUCache holds at most size entries. A zero ttl keeps entries until
// they are evicted.
func NewLRUCache(size int, ttl time.Duration) (*LRUCache, error) {
	entries, err := lru.New[string, Entry](size)
	if err != nil {
		return nil, errors.Wrap(err, "creating feature cache")
	}
	return &LRUCache{entries: entries, ttl: ttl, now: time.Now}, nil
}

func (c *LRUCache) Get(_ context.Context, key string) (Entry, bool, error) {
	entry, ok := c.entries.Get(key)
	if ok && entry.expired(c.now()) {
		c.entries.Remove(key)
		ok = false
	}
	if !ok {
		c.miss()
		return Entry{}, false, nil
	}
	entry.HitCount++
	c.entries.Add(key, entry)
	c.hit()
	return entry, true, nil
}

func (c *LRUCache) Put(_ context.Context, key string, entry Entry) error {
	c.entries.Add(key, stamp(entry, c.ttl, c.now()))
	return nil
}

func (c *LRUCache) Invalidate(_ context.Context, key string) (bool, error) {
	return c.entries.Remove(key), nil
}

func (c *LRUCache) Stats(context.Context) (Stats, error) {
	return c.stats(int64(c.entries.Len())), nil
}

// ------------------------------------------------------------------
// Redis
// ------------------------------------------------------------------

type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
	counters
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// DialRedis connects to addr and checks the connection.
func DialRedis(ctx context.Context, addr string, db int, ttl time.Duration) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, errors.Wrapf(err, "failed to connect to redis at %s", addr)
	}
	log.WithFields(log.Fields{"addr": addr, "db": db}).Info("connected to redis")
	return NewRedisCache(rdb, ttl), nil
}

func (c *RedisCache) Close() error { return c.rdb.Close() }

func (c *RedisCache) Get(ctx context.Context, key string) (Entry, bool, error) {
	cacheKey := KeyPrefix + key

	data, err := c.rdb.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		c.miss()
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, errors.Wrap(err, "redis error")
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, false, errors.Wrap(err, "failed to parse cache entry")
	}
	entry.HitCount++
	c.hit()

	if updated, err := json.Marshal(entry); err == nil {
		if err := c.rdb.Set(ctx, cacheKey, updated, redis.KeepTTL).Err(); err != nil {
			log.WithError(err).Debug("hit count not stored")
		}
	}
	return entry, true, nil
}

func (c *RedisCache) Put(ctx context.Context, key string, entry Entry) error {
	data, err := json.Marshal(stamp(entry, c.ttl, time.Now()))
	if err != nil {
		return errors.Wrap(err, "failed to serialize cache entry")
	}
	if err := c.rdb.Set(ctx, KeyPrefix+key, data, c.ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to cache")
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, key string) (bool, error) {
	deleted, err := c.rdb.Del(ctx, KeyPrefix+key).Result()
	if err != nil {
		return false, errors.Wrap(err, "failed to invalidate")
	}
	return deleted > 0, nil
}

func (c *RedisCache) Stats(ctx context.Context) (Stats, error) {
	var n int64
	iter := c.rdb.Scan(ctx, 0, KeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return Stats{}, errors.Wrap(err, "counting cache entries")
	}
	return c.stats(n), nil
}
