package apiclient

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
)

// HoldingsResponse is GET /portfolio/holdings.
type HoldingsResponse struct {
	Portfolio entities.PortfolioSummary `json:"portfolio"`
	Holdings  []entities.Holding        `json:"holdings"`
}

// TradeResponse is returned by buy and sell.
type TradeResponse struct {
	Portfolio struct {
		Balance    decimal.Decimal `json:"balance"`
		TotalValue decimal.Decimal `json:"totalValue"`
	} `json:"portfolio"`
	Transaction entities.Transaction `json:"transaction"`
	Message     string               `json:"message,omitempty"`
}

// TransactionPage is a page of the transaction log.
type TransactionPage struct {
	Transactions []entities.Transaction `json:"transactions"`
	Pagination   entities.Pagination    `json:"pagination"`
}

type tradeRequest struct {
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

func (c *Client) Holdings(ctx context.Context, token string) (*HoldingsResponse, error) {
	var resp HoldingsResponse
	if err := c.get(ctx, token, "/portfolio/holdings", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ValueHistory(ctx context.Context, token string, days int) ([]entities.ValuePoint, error) {
	q := url.Values{}
	q.Set("days", strconv.Itoa(days))

	var resp struct {
		ValueHistory []entities.ValuePoint `json:"valueHistory"`
	}
	if err := c.get(ctx, token, "/portfolio/value-history", q, &resp); err != nil {
		return nil, err
	}
	return resp.ValueHistory, nil
}

func (c *Client) Buy(ctx context.Context, token, symbol string, qty, price decimal.Decimal) (*TradeResponse, error) {
	return c.trade(ctx, token, "/portfolio/buy", symbol, qty, price)
}

func (c *Client) Sell(ctx context.Context, token, symbol string, qty, price decimal.Decimal) (*TradeResponse, error) {
	return c.trade(ctx, token, "/portfolio/sell", symbol, qty, price)
}

func (c *Client) trade(ctx context.Context, token, path, symbol string, qty, price decimal.Decimal) (*TradeResponse, error) {
	body := tradeRequest{Symbol: strings.ToUpper(symbol), Quantity: qty, Price: price}

	var resp TradeResponse
	if err := c.post(ctx, token, path, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Transactions(ctx context.Context, token string, page, limit int) (*TransactionPage, error) {
	var resp TransactionPage
	if err := c.get(ctx, token, "/portfolio/transactions", pageQuery(page, limit), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
