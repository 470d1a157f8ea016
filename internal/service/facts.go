package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/investnyou-bot/internal/apiclient"
	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/state"
)

const factsPageSize = 10

// FactsService serves the daily fact and the fact library.
type FactsService struct {
	api      FactsAPI
	auth     *AuthService
	sessions *state.Manager
	logger   *zap.Logger
}

func NewFactsService(api FactsAPI, auth *AuthService, sessions *state.Manager, logger *zap.Logger) *FactsService {
	return &FactsService{
		api:      api,
		auth:     auth,
		sessions: sessions,
		logger:   logger,
	}
}

// Today returns the fact of the day. When the backend fails the last cached
// fact, or a built-in one, is returned with stale set.
func (s *FactsService) Today(ctx context.Context, chatID int64) (fact *entities.Fact, stale bool, err error) {
	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, false, err
	}
	return s.today(ctx, chatID, token)
}

func (s *FactsService) today(ctx context.Context, chatID int64, token string) (*entities.Fact, bool, error) {
	fact, err := s.api.TodayFact(ctx, token)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			return nil, false, s.auth.checkUnauthorized(ctx, chatID, err)
		}

		s.logger.Warn("today's fact unavailable, using fallback",
			zap.Int64("chat_id", chatID),
			zap.Error(err))

		st, lerr := s.sessions.Load(ctx, chatID)
		if lerr == nil && st.DailyFact != nil {
			return st.DailyFact, true, nil
		}
		return entities.FallbackFact(), true, nil
	}

	st, err := s.sessions.Update(ctx, chatID, func(st *state.AppState) error {
		if entities.Contains(st.Progress.CompletedFacts, fact.ID) {
			fact.IsCompleted = true
		}
		st.SetDailyFact(fact)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return st.DailyFact, false, nil
}

// List returns a page of facts, optionally filtered by category.
func (s *FactsService) List(ctx context.Context, chatID int64, page int, category string) (*apiclient.FactPage, error) {
	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, err
	}

	res, err := s.api.Facts(ctx, token, page, factsPageSize, category)
	if err != nil {
		return nil, fmt.Errorf("list facts: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}
	return res, nil
}

func (s *FactsService) Get(ctx context.Context, chatID int64, id entities.ID) (*entities.Fact, error) {
	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, err
	}

	fact, err := s.api.Fact(ctx, token, id)
	if err != nil {
		return nil, fmt.Errorf("get fact: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}
	return fact, nil
}

func (s *FactsService) Search(ctx context.Context, chatID int64, query string, page int) (*apiclient.FactPage, error) {
	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, err
	}

	res, err := s.api.SearchFacts(ctx, token, query, page, factsPageSize)
	if err != nil {
		return nil, fmt.Errorf("search facts: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}
	return res, nil
}

func (s *FactsService) Completed(ctx context.Context, chatID int64, page int) (*apiclient.FactPage, error) {
	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, err
	}

	res, err := s.api.CompletedFacts(ctx, token, page, factsPageSize)
	if err != nil {
		return nil, fmt.Errorf("completed facts: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}
	return res, nil
}

// Categories does not need a session.
func (s *FactsService) Categories(ctx context.Context) ([]string, error) {
	cats, err := s.api.FactCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fact categories: %w", err)
	}
	return cats, nil
}
