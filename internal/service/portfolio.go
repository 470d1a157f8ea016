package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/investnyou-bot/internal/apiclient"
	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/state"
)

const (
	priceRefreshLimit    = 5
	transactionsPageSize = 20
)

// PortfolioView is the local portfolio after a sync with the backend.
type PortfolioView struct {
	Summary   entities.PortfolioSummary
	Portfolio entities.Portfolio
}

// TradeResult is a confirmed buy or sell.
type TradeResult struct {
	Transaction entities.Transaction
	Portfolio   entities.Portfolio
}

// PortfolioService runs the simulated brokerage account.
type PortfolioService struct {
	api      PortfolioAPI
	auth     *AuthService
	sessions *state.Manager
	quotes   *Quotes
	logger   *zap.Logger
	now      func() time.Time
}

func NewPortfolioService(api PortfolioAPI, auth *AuthService, sessions *state.Manager, quotes *Quotes, logger *zap.Logger) *PortfolioService {
	return &PortfolioService{
		api:      api,
		auth:     auth,
		sessions: sessions,
		quotes:   quotes,
		logger:   logger,
		now:      time.Now,
	}
}

// unlocked returns the state when enough lessons are completed to trade.
func (s *PortfolioService) unlocked(ctx context.Context, chatID int64) (*state.AppState, error) {
	st, err := s.sessions.Load(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !st.PortfolioUnlocked() {
		return nil, ErrPortfolioLocked
	}
	return st, nil
}

// Holdings loads positions from the backend and refreshes their prices.
func (s *PortfolioService) Holdings(ctx context.Context, chatID int64) (*PortfolioView, error) {
	if _, err := s.unlocked(ctx, chatID); err != nil {
		return nil, err
	}
	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, err
	}

	resp, err := s.api.Holdings(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get holdings: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}

	holdings := resp.Holdings
	s.refreshPrices(ctx, holdings)

	st, err := s.sessions.Update(ctx, chatID, func(st *state.AppState) error {
		p := st.Portfolio
		p.Balance = resp.Portfolio.Balance
		p.TotalInvested = resp.Portfolio.TotalInvested
		p.Holdings = holdings
		st.UpdatePortfolio(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &PortfolioView{Summary: resp.Portfolio, Portfolio: st.Portfolio}, nil
}

// refreshPrices updates CurrentPrice in place. A failed lookup keeps the
// price the backend returned.
func (s *PortfolioService) refreshPrices(ctx context.Context, holdings []entities.Holding) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(priceRefreshLimit)

	for i := range holdings {
		g.Go(func() error {
			price, err := s.quotes.Price(gctx, holdings[i].Symbol)
			if err != nil {
				s.logger.Warn("price refresh failed",
					zap.String("symbol", holdings[i].Symbol),
					zap.Error(err))
				return nil
			}
			if price.IsPositive() {
				holdings[i].CurrentPrice = price
			}
			return nil
		})
	}

	_ = g.Wait()
}

// Buy purchases qty shares at the current price.
func (s *PortfolioService) Buy(ctx context.Context, chatID int64, symbol string, qty decimal.Decimal) (*TradeResult, error) {
	symbol, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if !qty.IsPositive() {
		return nil, ErrInvalidQuantity
	}

	st, err := s.unlocked(ctx, chatID)
	if err != nil {
		return nil, err
	}

	price, err := s.quotes.Price(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if !price.IsPositive() {
		return nil, ErrInvalidPrice
	}

	cost := price.Mul(qty)
	if cost.GreaterThan(st.Portfolio.Balance) {
		return nil, ErrInsufficientBalance
	}

	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, err
	}

	resp, err := s.api.Buy(ctx, token, symbol, qty, price)
	if err != nil {
		return nil, fmt.Errorf("buy %s: %w", symbol, s.auth.checkUnauthorized(ctx, chatID, err))
	}

	tx := s.transaction(resp, entities.TransactionBuy, symbol, qty, price)
	st, err = s.sessions.Update(ctx, chatID, func(st *state.AppState) error {
		p := st.Portfolio
		p.ApplyBuy(tx, resp.Portfolio.Balance)
		st.UpdatePortfolio(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock bought",
		zap.Int64("chat_id", chatID),
		zap.String("symbol", symbol),
		zap.String("shares", qty.String()),
		zap.String("price", price.String()),
	)

	return &TradeResult{Transaction: tx, Portfolio: st.Portfolio}, nil
}

// Sell sells qty shares at the holding's current price, or its average
// cost when no price is known.
func (s *PortfolioService) Sell(ctx context.Context, chatID int64, symbol string, qty decimal.Decimal) (*TradeResult, error) {
	symbol, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if !qty.IsPositive() {
		return nil, ErrInvalidQuantity
	}

	st, err := s.unlocked(ctx, chatID)
	if err != nil {
		return nil, err
	}

	h, ok := st.Portfolio.Holding(symbol)
	if !ok || h.Shares.LessThan(qty) {
		return nil, ErrInsufficientShares
	}

	price := h.CurrentPrice
	if !price.IsPositive() {
		price = h.AverageCost
	}
	if !price.IsPositive() {
		return nil, ErrInvalidPrice
	}

	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, err
	}

	resp, err := s.api.Sell(ctx, token, symbol, qty, price)
	if err != nil {
		return nil, fmt.Errorf("sell %s: %w", symbol, s.auth.checkUnauthorized(ctx, chatID, err))
	}

	tx := s.transaction(resp, entities.TransactionSell, symbol, qty, price)
	st, err = s.sessions.Update(ctx, chatID, func(st *state.AppState) error {
		p := st.Portfolio
		p.ApplySell(tx, resp.Portfolio.Balance)
		st.UpdatePortfolio(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock sold",
		zap.Int64("chat_id", chatID),
		zap.String("symbol", symbol),
		zap.String("shares", qty.String()),
		zap.String("price", price.String()),
	)

	return &TradeResult{Transaction: tx, Portfolio: st.Portfolio}, nil
}

// transaction fills the fields the backend left out.
func (s *PortfolioService) transaction(resp *apiclient.TradeResponse, typ, symbol string, qty, price decimal.Decimal) entities.Transaction {
	tx := resp.Transaction
	tx.Type = typ
	tx.Symbol = symbol
	tx.Shares = qty
	tx.Price = price
	tx.Total = price.Mul(qty)
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = entities.Timestamp{Time: s.now().UTC()}
	}
	return tx
}

func (s *PortfolioService) ValueHistory(ctx context.Context, chatID int64, days int) ([]entities.ValuePoint, error) {
	if _, err := s.unlocked(ctx, chatID); err != nil {
		return nil, err
	}
	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, err
	}

	points, err := s.api.ValueHistory(ctx, token, days)
	if err != nil {
		return nil, fmt.Errorf("value history: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}
	return points, nil
}

func (s *PortfolioService) Transactions(ctx context.Context, chatID int64, page int) (*apiclient.TransactionPage, error) {
	if _, err := s.unlocked(ctx, chatID); err != nil {
		return nil, err
	}
	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, err
	}

	res, err := s.api.Transactions(ctx, token, page, transactionsPageSize)
	if err != nil {
		return nil, fmt.Errorf("transactions: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}
	return res, nil
}

// AllTransactions walks every page of the log.
func (s *PortfolioService) AllTransactions(ctx context.Context, chatID int64) ([]entities.Transaction, error) {
	var all []entities.Transaction
	for page := 1; ; page++ {
		res, err := s.Transactions(ctx, chatID, page)
		if err != nil {
			return nil, err
		}
		all = append(all, res.Transactions...)
		if len(res.Transactions) == 0 || page >= res.Pagination.TotalPages {
			break
		}
	}
	return all, nil
}
