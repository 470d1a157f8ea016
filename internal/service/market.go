package service

import (
	"context"
	"fmt"

	"github.com/aliskhannn/investnyou-bot/internal/apiclient"
	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
)

const (
	stockSearchLimit = 10
	trendingLimit    = 10
)

// MarketService serves public stock data. No session is needed.
type MarketService struct {
	api    MarketAPI
	quotes *Quotes
}

func NewMarketService(api MarketAPI, quotes *Quotes) *MarketService {
	return &MarketService{api: api, quotes: quotes}
}

// Quote returns the latest quote of a symbol.
func (s *MarketService) Quote(ctx context.Context, symbol string) (*entities.Stock, error) {
	symbol, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	return s.quotes.Stock(ctx, symbol)
}

func (s *MarketService) Search(ctx context.Context, query string) ([]entities.Stock, error) {
	stocks, err := s.api.SearchStocks(ctx, query, stockSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search stocks: %w", err)
	}
	return stocks, nil
}

func (s *MarketService) History(ctx context.Context, symbol string, days int) ([]entities.PricePoint, error) {
	symbol, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	points, err := s.api.StockHistory(ctx, symbol, days)
	if err != nil {
		return nil, fmt.Errorf("stock history: %w", err)
	}
	return points, nil
}

// Trending returns the top gainers and losers.
func (s *MarketService) Trending(ctx context.Context) (up, down []entities.Stock, err error) {
	up, err = s.api.Trending(ctx, apiclient.TrendUp, trendingLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("trending up: %w", err)
	}
	down, err = s.api.Trending(ctx, apiclient.TrendDown, trendingLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("trending down: %w", err)
	}
	return up, down, nil
}

func (s *MarketService) Overview(ctx context.Context) (*entities.MarketOverview, error) {
	o, err := s.api.MarketOverview(ctx)
	if err != nil {
		return nil, fmt.Errorf("market overview: %w", err)
	}
	return o, nil
}
