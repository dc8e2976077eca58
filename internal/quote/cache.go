package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"papertrade/internal/logger"
)

// CachingProvider wraps another Provider with a Redis read-through cache.
// Cache failures are logged and treated as misses so a degraded Redis
// never blocks quoting.
type CachingProvider struct {
	next Provider
	rdb  *redis.Client
	ttl  time.Duration
}

// NewCachingProvider creates a read-through quote cache in front of next.
func NewCachingProvider(next Provider, rdb *redis.Client, ttl time.Duration) *CachingProvider {
	return &CachingProvider{next: next, rdb: rdb, ttl: ttl}
}

// Name returns the wrapped provider's display name.
func (p *CachingProvider) Name() string { return p.next.Name() }

func cacheKey(symbol string) string {
	return "quote:" + strings.ToUpper(strings.TrimSpace(symbol))
}

// Lookup serves a cached quote when fresh, otherwise fetches from the
// wrapped provider and stores the result.
func (p *CachingProvider) Lookup(ctx context.Context, symbol string) (*Quote, error) {
	key := cacheKey(symbol)

	cached, err := p.rdb.Get(ctx, key).Result()
	if err == nil {
		var q Quote
		if jsonErr := json.Unmarshal([]byte(cached), &q); jsonErr == nil {
			return &q, nil
		}
		// Corrupt entry: drop it and fall through to the provider.
		_ = p.rdb.Del(ctx, key).Err()
	} else if !errors.Is(err, redis.Nil) {
		logger.Get().Warnw("quote cache read failed", "symbol", symbol, "error", err.Error())
	}

	q, err := p.next.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("encoding quote for cache: %w", err)
	}
	if err := p.rdb.Set(ctx, key, payload, p.ttl).Err(); err != nil {
		logger.Get().Warnw("quote cache write failed", "symbol", symbol, "error", err.Error())
	}

	return q, nil
}
