package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/aliskhannn/investnyou-bot/internal/apiclient"
	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/state"
)

func unlock(st *state.AppState) {
	st.CompleteLesson("l1")
	st.CompleteLesson("l2")
}

func newPortfolioEnv(t *testing.T, fn func(st *state.AppState)) (*testEnv, *PortfolioService, *mapCache) {
	t.Helper()
	env := newTestEnv(t)
	env.login(t, 1, fn)
	cache := &mapCache{}
	quotes := NewQuotes(env.api, cache, env.logger)
	return env, NewPortfolioService(env.api, env.auth, env.sessions, quotes, env.logger), cache
}

func TestPortfolioLocked(t *testing.T) {
	_, portfolio, _ := newPortfolioEnv(t, nil)

	_, err := portfolio.Buy(context.Background(), 1, "AAPL", decimal.NewFromInt(1))
	if !errors.Is(err, ErrPortfolioLocked) {
		t.Fatalf("want=%v got=%v", ErrPortfolioLocked, err)
	}
}

func TestBuyValidation(t *testing.T) {
	ctx := context.Background()
	env, portfolio, _ := newPortfolioEnv(t, unlock)
	env.api.prices["AAPL"] = decimal.NewFromInt(200)
	env.api.prices["ZERO"] = decimal.Zero

	tests := []struct {
		name   string
		symbol string
		qty    int64
		want   error
	}{
		{"empty symbol", "  ", 1, ErrInvalidSymbol},
		{"zero quantity", "AAPL", 0, ErrInvalidQuantity},
		{"zero price", "zero", 1, ErrInvalidPrice},
		{"too expensive", "aapl", 51, ErrInsufficientBalance},
	}

	for _, tt := range tests {
		_, err := portfolio.Buy(ctx, 1, tt.symbol, decimal.NewFromInt(tt.qty))
		if !errors.Is(err, tt.want) {
			t.Fatalf("%s: want=%v got=%v", tt.name, tt.want, err)
		}
	}
}

func TestBuyAndSell(t *testing.T) {
	ctx := context.Background()
	env, portfolio, cache := newPortfolioEnv(t, unlock)
	env.api.prices["AAPL"] = decimal.NewFromInt(200)

	env.api.trade = &apiclient.TradeResponse{}
	env.api.trade.Portfolio.Balance = decimal.NewFromInt(9600)

	res, err := portfolio.Buy(ctx, 1, "aapl", decimal.NewFromInt(2))
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if res.Transaction.Symbol != "AAPL" || !res.Transaction.Total.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("unexpected transaction: %+v", res.Transaction)
	}
	if !res.Portfolio.Balance.Equal(decimal.NewFromInt(9600)) {
		t.Fatalf("balance: want=9600 got=%s", res.Portfolio.Balance)
	}
	if _, ok, _ := cache.Get(ctx, "AAPL"); !ok {
		t.Fatal("price should be cached after lookup")
	}

	if _, err := portfolio.Sell(ctx, 1, "AAPL", decimal.NewFromInt(3)); !errors.Is(err, ErrInsufficientShares) {
		t.Fatalf("oversell: want=%v got=%v", ErrInsufficientShares, err)
	}

	env.api.trade.Portfolio.Balance = decimal.NewFromInt(10000)
	res, err = portfolio.Sell(ctx, 1, "AAPL", decimal.NewFromInt(2))
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if _, ok := res.Portfolio.Holding("AAPL"); ok {
		t.Fatal("holding should be gone after selling every share")
	}
	if len(res.Portfolio.Transactions) != 2 {
		t.Fatalf("transactions: want=2 got=%d", len(res.Portfolio.Transactions))
	}
}

func TestSellFallsBackToAverageCost(t *testing.T) {
	ctx := context.Background()
	env, portfolio, _ := newPortfolioEnv(t, func(st *state.AppState) {
		unlock(st)
		st.Portfolio.Holdings = []entities.Holding{
			{Symbol: "MSFT", Shares: decimal.NewFromInt(5), AverageCost: decimal.NewFromInt(300)},
		}
	})
	env.api.trade = &apiclient.TradeResponse{}
	env.api.trade.Portfolio.Balance = decimal.NewFromInt(10300)

	res, err := portfolio.Sell(ctx, 1, "msft", decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if !res.Transaction.Price.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("price: want=300 got=%s", res.Transaction.Price)
	}
	h, _ := res.Portfolio.Holding("MSFT")
	if !h.Shares.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("shares: want=4 got=%s", h.Shares)
	}
}

func TestQuotesUseCache(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.api.prices["TSLA"] = decimal.NewFromInt(250)
	quotes := NewQuotes(env.api, &mapCache{}, env.logger)

	for i := 0; i < 3; i++ {
		p, err := quotes.Price(ctx, "TSLA")
		if err != nil || !p.Equal(decimal.NewFromInt(250)) {
			t.Fatalf("price: want=250 got=%s err=%v", p, err)
		}
	}
	if env.api.priceHits != 1 {
		t.Fatalf("backend hits: want=1 got=%d", env.api.priceHits)
	}
}

func TestNormalizeSymbol(t *testing.T) {
	if got, err := NormalizeSymbol(" brk.b "); err != nil || got != "BRK.B" {
		t.Fatalf("want=BRK.B got=%q err=%v", got, err)
	}
	if _, err := NormalizeSymbol("ABCDEFGHIJK"); !errors.Is(err, ErrInvalidSymbol) {
		t.Fatalf("long symbol: want=%v got=%v", ErrInvalidSymbol, err)
	}
}
