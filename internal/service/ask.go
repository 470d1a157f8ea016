package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/investnyou-bot/internal/apiclient"
	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
)

const (
	askHistoryPageSize = 20
	askStatusTimeout   = 5 * time.Second
	maxSuggestions     = 6
)

// defaultSuggestions are offered when the backend has none.
var defaultSuggestions = []string{
	"What's a Roth IRA?",
	"How do taxes work?",
	"What's the difference between stocks and bonds?",
	"How do I start investing?",
	"What's compound interest?",
	"How do I build an emergency fund?",
}

// AskService forwards questions to the AI assistant.
type AskService struct {
	api    AskAPI
	auth   *AuthService
	logger *zap.Logger
}

func NewAskService(api AskAPI, auth *AuthService, logger *zap.Logger) *AskService {
	return &AskService{api: api, auth: auth, logger: logger}
}

func (s *AskService) Ask(ctx context.Context, chatID int64, question string) (*entities.AskAnswer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, err
	}

	answer, err := s.api.Ask(ctx, token, question)
	if err != nil {
		return nil, fmt.Errorf("ask: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}
	return answer, nil
}

// History returns past questions, newest first. Failures yield an empty list.
func (s *AskService) History(ctx context.Context, chatID int64) []entities.AskMessage {
	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil
	}

	h, err := s.api.AskHistory(ctx, token, 1, askHistoryPageSize)
	if err != nil {
		s.logger.Warn("ask history unavailable", zap.Int64("chat_id", chatID), zap.Error(err))
		return nil
	}
	return h.Messages
}

// Stats returns usage counters, nil when they cannot be loaded.
func (s *AskService) Stats(ctx context.Context, chatID int64) *entities.AskStats {
	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil
	}

	stats, err := s.api.AskStats(ctx, token)
	if err != nil {
		s.logger.Debug("ask stats unavailable", zap.Int64("chat_id", chatID), zap.Error(err))
		return nil
	}
	return stats
}

// Suggestions returns up to six starter prompts.
func (s *AskService) Suggestions(ctx context.Context) []string {
	got, err := s.api.AskSuggestions(ctx)
	if err != nil || len(got) == 0 {
		return defaultSuggestions
	}
	if len(got) > maxSuggestions {
		got = got[:maxSuggestions]
	}
	return got
}

func (s *AskService) Clear(ctx context.Context, chatID int64) error {
	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return err
	}
	if err := s.api.ClearAskHistory(ctx, token); err != nil {
		return fmt.Errorf("clear history: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}
	return nil
}

// Available checks the assistant status within five seconds. A non-2xx
// status falls back to the general health check, a transport error means
// unavailable.
func (s *AskService) Available(ctx context.Context, chatID int64) bool {
	ctx, cancel := context.WithTimeout(ctx, askStatusTimeout)
	defer cancel()

	token, _ := s.auth.sessions.Token(ctx, chatID)

	ok, err := s.api.AskStatus(ctx, token)
	if err == nil {
		return ok
	}

	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		s.logger.Debug("ask status check failed", zap.Error(err))
		return false
	}

	return s.api.Health(ctx) == nil
}
