package apiclient

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
)

// Trend directions for Trending.
const (
	TrendUp   = "up"
	TrendDown = "down"
)

type stockList struct {
	Stocks []entities.Stock `json:"stocks"`
}

func (c *Client) Stock(ctx context.Context, symbol string) (*entities.Stock, error) {
	var raw struct {
		entities.Stock
		Wrapped *entities.Stock `json:"stock"`
	}
	if err := c.get(ctx, "", "/stocks/"+pathEscape(strings.ToUpper(symbol)), nil, &raw); err != nil {
		return nil, err
	}
	if raw.Wrapped != nil {
		return raw.Wrapped, nil
	}
	return &raw.Stock, nil
}

func (c *Client) SearchStocks(ctx context.Context, query string, limit int) ([]entities.Stock, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp stockList
	if err := c.get(ctx, "", "/stocks/search/"+pathEscape(query), q, &resp); err != nil {
		return nil, err
	}
	return resp.Stocks, nil
}

// StockPrice returns the latest quote: {data:{symbol,name,price,...}}.
func (c *Client) StockPrice(ctx context.Context, symbol string) (*entities.Stock, error) {
	var resp struct {
		Data entities.Stock `json:"data"`
	}
	if err := c.get(ctx, "", "/stocks/"+pathEscape(strings.ToUpper(symbol))+"/price", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data.Symbol == "" {
		resp.Data.Symbol = strings.ToUpper(symbol)
	}
	return &resp.Data, nil
}

func (c *Client) StockHistory(ctx context.Context, symbol string, days int) ([]entities.PricePoint, error) {
	q := url.Values{}
	q.Set("days", strconv.Itoa(days))

	var resp struct {
		History []entities.PricePoint `json:"history"`
	}
	if err := c.get(ctx, "", "/stocks/"+pathEscape(strings.ToUpper(symbol))+"/history", q, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// Trending returns top movers in direction TrendUp or TrendDown.
func (c *Client) Trending(ctx context.Context, direction string, limit int) ([]entities.Stock, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp stockList
	if err := c.get(ctx, "", "/stocks/trending/"+pathEscape(direction), q, &resp); err != nil {
		return nil, err
	}
	return resp.Stocks, nil
}

func (c *Client) MarketOverview(ctx context.Context) (*entities.MarketOverview, error) {
	var raw struct {
		entities.MarketOverview
		Wrapped *entities.MarketOverview `json:"overview"`
	}
	if err := c.get(ctx, "", "/stocks/market/overview", nil, &raw); err != nil {
		return nil, err
	}
	if raw.Wrapped != nil {
		return raw.Wrapped, nil
	}
	return &raw.MarketOverview, nil
}
