package market

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/blockedby/jobtrends/internal/logger"
)

// DefaultCacheKey is where the last good reading is stored.
const DefaultCacheKey = "jobtrends:market:indicators"

// CachedSource keeps the last usable result in Redis for ttl.
// Redis failures are logged and the inner source is used directly.
type CachedSource struct {
	inner Source
	rdb   redis.Cmdable
	key   string
	ttl   time.Duration
	log   *logger.Logger
	now   func() time.Time
}

// NewCachedSource wraps inner with a Redis read-through cache.
func NewCachedSource(inner Source, rdb redis.Cmdable, ttl time.Duration, log *logger.Logger) *CachedSource {
	if log == nil {
		log = logger.Nop()
	}
	return &CachedSource{
		inner: inner,
		rdb:   rdb,
		key:   DefaultCacheKey,
		ttl:   ttl,
		log:   log,
		now:   time.Now,
	}
}

// Fetch returns the cached result when present, otherwise asks the inner
// source and caches usable answers stamped with their fetch time.
func (c *CachedSource) Fetch(ctx context.Context) (*Result, error) {
	if cached, ok := c.load(ctx); ok {
		return cached, nil
	}

	res, err := c.inner.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	if res.Usable() {
		if res.FetchedAt == nil {
			fetchedAt := c.now().UTC()
			res.FetchedAt = &fetchedAt
		}
		c.store(ctx, res)
	}
	return res, nil
}

func (c *CachedSource) load(ctx context.Context) (*Result, bool) {
	raw, err := c.rdb.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn().Err(err).Str("key", c.key).Msg("market cache read failed")
		return nil, false
	}

	var res Result
	if err := json.Unmarshal(raw, &res); err != nil || !res.Usable() {
		c.log.Warn().Str("key", c.key).Msg("discarding corrupt market cache entry")
		return nil, false
	}
	return &res, true
}

func (c *CachedSource) store(ctx context.Context, res *Result) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", c.key).Msg("market cache write failed")
	}
}
