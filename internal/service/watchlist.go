package service

import (
	"context"
	"fmt"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
)

// WatchlistService manages the symbols a user follows.
type WatchlistService struct {
	api    WatchlistAPI
	auth   *AuthService
	quotes *Quotes
}

func NewWatchlistService(api WatchlistAPI, auth *AuthService, quotes *Quotes) *WatchlistService {
	return &WatchlistService{api: api, auth: auth, quotes: quotes}
}

func (s *WatchlistService) List(ctx context.Context, chatID int64) ([]entities.WatchlistItem, error) {
	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, err
	}

	items, err := s.api.WatchlistWithPrices(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get watchlist: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}
	return items, nil
}

// Add looks up the current quote and adds the symbol.
func (s *WatchlistService) Add(ctx context.Context, chatID int64, symbol string) (*entities.Stock, error) {
	symbol, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, err
	}

	stock, err := s.quotes.Stock(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if err := s.api.AddToWatchlist(ctx, token, symbol, stock.Name, stock.Price); err != nil {
		return nil, fmt.Errorf("add to watchlist: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}
	return stock, nil
}

func (s *WatchlistService) Remove(ctx context.Context, chatID int64, symbol string) error {
	symbol, err := NormalizeSymbol(symbol)
	if err != nil {
		return err
	}

	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return err
	}

	if err := s.api.RemoveFromWatchlist(ctx, token, symbol); err != nil {
		return fmt.Errorf("remove from watchlist: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}
	return nil
}
