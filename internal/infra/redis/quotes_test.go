package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
)

func TestKeyNormalizesSymbol(t *testing.T) {
	if got := key(" aapl "); got != "quote:AAPL" {
		t.Fatalf("want=%q got=%q", "quote:AAPL", got)
	}
}

func TestNopCacheAlwaysMisses(t *testing.T) {
	var c NopCache
	ctx := context.Background()

	if err := c.Set(ctx, "AAPL", decimal.NewFromInt(10)); err != nil {
		t.Fatalf("set: %v", err)
	}
	_, ok, err := c.Get(ctx, "AAPL")
	if err != nil || ok {
		t.Fatalf("want miss, got ok=%v err=%v", ok, err)
	}
}

func newTestCache(t *testing.T, ttl time.Duration) (*QuoteCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	c, err := NewQuoteCache(context.Background(), mr.Addr(), "", ttl)
	if err != nil {
		t.Fatalf("new quote cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestQuoteCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)

	if _, ok, err := c.Get(ctx, "AAPL"); err != nil || ok {
		t.Fatalf("empty cache: want miss, got ok=%v err=%v", ok, err)
	}

	price := decimal.RequireFromString("249.75")
	if err := c.Set(ctx, "aapl", price); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := c.Get(ctx, " AAPL ")
	if err != nil || !ok {
		t.Fatalf("want hit, got ok=%v err=%v", ok, err)
	}
	if !got.Equal(price) {
		t.Fatalf("price: want=%s got=%s", price, got)
	}

	if raw, err := mr.Get("quote:AAPL"); err != nil || raw != "249.75" {
		t.Fatalf("stored value: want=%q got=%q err=%v", "249.75", raw, err)
	}
}

func TestQuoteCacheExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, 30*time.Second)

	if err := c.Set(ctx, "MSFT", decimal.NewFromInt(410)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := mr.TTL("quote:MSFT"); ttl != 30*time.Second {
		t.Fatalf("ttl: want=%s got=%s", 30*time.Second, ttl)
	}

	mr.FastForward(31 * time.Second)

	if _, ok, err := c.Get(ctx, "MSFT"); err != nil || ok {
		t.Fatalf("expired quote: want miss, got ok=%v err=%v", ok, err)
	}
}

func TestQuoteCacheCorruptValue(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)

	if err := mr.Set("quote:BAD", "not-a-number"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, ok, err := c.Get(context.Background(), "bad"); err == nil || ok {
		t.Fatalf("want parse error, got ok=%v err=%v", ok, err)
	}
}
