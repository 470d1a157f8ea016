package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/investnyou-bot/internal/apiclient"
	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := fn(ctx, chatID); err != nil {
			text, expected := userMessage(err)
			if expected {
				h.logger.Debug("handle error",
					zap.Int64("chat_id", chatID),
					zap.Error(err),
				)
			} else {
				h.logger.Error("handle error",
					zap.Int64("chat_id", chatID),
					zap.Error(err),
				)
			}
			h.sendError(chatID, text)
			return nil
		}
		return nil
	}
}

// userMessage maps an error to the text shown in chat. expected is false
// for failures the user cannot act on.
func userMessage(err error) (text string, expected bool) {
	var missing *service.MissingAnswersError
	if errors.As(err, &missing) {
		return esc(missing.Error()), true
	}

	switch {
	case errors.Is(err, service.ErrSessionExpired):
		return msgSessionExpired, true
	case errors.Is(err, service.ErrNotAuthenticated):
		return msgNotAuthenticated, true
	case errors.Is(err, service.ErrOneFactPerDay):
		return msgOneFactPerDay, true
	case errors.Is(err, service.ErrAlreadyCompleted):
		return msgLessonAlreadyCompleted, true
	case errors.Is(err, service.ErrQuizNotFound):
		return msgQuizNotFound, true
	case errors.Is(err, service.ErrNoActiveQuiz):
		return msgNoActiveQuiz, true
	case errors.Is(err, service.ErrInsufficientBalance):
		return msgInsufficientBalance, true
	case errors.Is(err, service.ErrInvalidPrice):
		return msgInvalidPrice, true
	case errors.Is(err, service.ErrInsufficientShares):
		return msgInsufficientShares, true
	case errors.Is(err, service.ErrInvalidQuantity):
		return msgInvalidQuantity, true
	case errors.Is(err, service.ErrInvalidSymbol):
		return msgInvalidSymbol, true
	case errors.Is(err, service.ErrPortfolioLocked):
		return msgPortfolioLocked, true
	case errors.Is(err, service.ErrEmptyQuestion):
		return msgEmptyQuestion, true
	case errors.Is(err, service.ErrLessonNotFound):
		return msgLessonNotFound, true
	case errors.Is(err, service.ErrInvalidEmail):
		return msgInvalidEmail, true
	case errors.Is(err, service.ErrWeakPassword):
		return msgWeakPassword, true
	case errors.Is(err, service.ErrInvalidName):
		return msgInvalidName, true
	case errors.Is(err, entities.ErrInvalidClock):
		return msgInvalidClock, true
	case errors.Is(err, entities.ErrInvalidTimezone):
		return msgInvalidTimezone, true
	case errors.Is(err, service.ErrInvalidLearningMode):
		return msgInvalidLearningMode, true
	case errors.Is(err, apiclient.ErrNetwork):
		return msgServerUnreachable, false
	case apiclient.IsNotFound(err):
		return msgNotFound, true
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < 500 && apiErr.Message != "" {
		return "❌ " + esc(apiErr.Message), true
	}

	return msgInternalError, false
}
