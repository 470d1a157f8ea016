package entities

import "github.com/shopspring/decimal"

// Stock is a listed security with its latest quote.
type Stock struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	Sector        string          `json:"sector,omitempty"`
}

// IsUp reports whether the stock gained today.
func (s Stock) IsUp() bool {
	return !s.Change.IsNegative()
}

// PricePoint is one sample of a stock's price history.
type PricePoint struct {
	Date  string          `json:"date"`
	Price decimal.Decimal `json:"price"`
}

// MarketOverview summarises the market.
type MarketOverview struct {
	Gainers      []Stock `json:"gainers"`
	Losers       []Stock `json:"losers"`
	MostActive   []Stock `json:"mostActive"`
	MarketStatus string  `json:"marketStatus,omitempty"`
}

// WatchlistItem is a stock the user follows.
type WatchlistItem struct {
	ID            ID              `json:"id,omitempty"`
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change,omitempty"`
	ChangePercent decimal.Decimal `json:"changePercent,omitempty"`
}
