// Package redis caches stock quotes so repeated price lookups within the
// TTL do not hit the backend.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const keyPrefix = "quote:"

// QuoteCache stores the last known price per symbol.
type QuoteCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewQuoteCache connects to addr and pings it.
func NewQuoteCache(ctx context.Context, addr, password string, ttl time.Duration) (*QuoteCache, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &QuoteCache{rdb: rdb, ttl: ttl}, nil
}

func key(symbol string) string {
	return keyPrefix + strings.ToUpper(strings.TrimSpace(symbol))
}

// Get returns the cached price. A miss is reported as ok=false, not an error.
func (c *QuoteCache) Get(ctx context.Context, symbol string) (decimal.Decimal, bool, error) {
	raw, err := c.rdb.Get(ctx, key(symbol)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, fmt.Errorf("get quote: %w", err)
	}

	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("parse quote %q: %w", raw, err)
	}

	return price, true, nil
}

func (c *QuoteCache) Set(ctx context.Context, symbol string, price decimal.Decimal) error {
	if err := c.rdb.Set(ctx, key(symbol), price.String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("set quote: %w", err)
	}
	return nil
}

func (c *QuoteCache) Close() error {
	return c.rdb.Close()
}

// NopCache never hits. It is used when no redis address is configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (decimal.Decimal, bool, error) {
	return decimal.Zero, false, nil
}

func (NopCache) Set(context.Context, string, decimal.Decimal) error { return nil }
