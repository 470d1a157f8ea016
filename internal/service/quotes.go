package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
)

// PriceAPI returns the latest quote of a symbol.
type PriceAPI interface {
	StockPrice(ctx context.Context, symbol string) (*entities.Stock, error)
}

// Quotes looks prices up through the cache.
type Quotes struct {
	api    PriceAPI
	cache  QuoteCache
	logger *zap.Logger
}

func NewQuotes(api PriceAPI, cache QuoteCache, logger *zap.Logger) *Quotes {
	return &Quotes{api: api, cache: cache, logger: logger}
}

// NormalizeSymbol upper-cases and trims a ticker. Empty input is invalid.
func NormalizeSymbol(symbol string) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" || len(symbol) > 10 {
		return "", ErrInvalidSymbol
	}
	return symbol, nil
}

// Price returns the current price of symbol. Cache failures are logged and
// the backend is asked directly.
func (q *Quotes) Price(ctx context.Context, symbol string) (decimal.Decimal, error) {
	price, ok, err := q.cache.Get(ctx, symbol)
	if err != nil {
		q.logger.Warn("quote cache get failed", zap.String("symbol", symbol), zap.Error(err))
	}
	if ok {
		return price, nil
	}

	stock, err := q.api.StockPrice(ctx, symbol)
	if err != nil {
		return decimal.Zero, fmt.Errorf("stock price %s: %w", symbol, err)
	}

	if stock.Price.IsPositive() {
		if err := q.cache.Set(ctx, symbol, stock.Price); err != nil {
			q.logger.Warn("quote cache set failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}

	return stock.Price, nil
}

// Stock returns the full quote and refreshes the cache with its price.
func (q *Quotes) Stock(ctx context.Context, symbol string) (*entities.Stock, error) {
	stock, err := q.api.StockPrice(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("stock price %s: %w", symbol, err)
	}
	if stock.Price.IsPositive() {
		if err := q.cache.Set(ctx, symbol, stock.Price); err != nil {
			q.logger.Warn("quote cache set failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}
	return stock, nil
}
