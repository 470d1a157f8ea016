package apiclient

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
)

type watchlistResponse struct {
	Watchlist []entities.WatchlistItem `json:"watchlist"`
}

// WatchlistWithPrices returns the watchlist with fresh quotes.
func (c *Client) WatchlistWithPrices(ctx context.Context, token string) ([]entities.WatchlistItem, error) {
	var resp watchlistResponse
	if err := c.get(ctx, token, "/watchlist/with-prices", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Watchlist, nil
}

func (c *Client) AddToWatchlist(ctx context.Context, token, symbol, name string, price decimal.Decimal) error {
	body := entities.WatchlistItem{Symbol: strings.ToUpper(symbol), Name: name, Price: price}
	return c.post(ctx, token, "/watchlist/add", body, nil)
}

func (c *Client) RemoveFromWatchlist(ctx context.Context, token, symbol string) error {
	return c.delete(ctx, token, "/watchlist/remove/"+pathEscape(strings.ToUpper(symbol)), nil)
}
