package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Remove the user's "clock".
	answer := tgbotapi.NewCallback(cb.ID, "")
	if _, err := h.bot.Request(answer); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}

	if cb.Message == nil {
		return
	}

	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID
	cd := decodeCallback(cb.Data)

	_ = h.withErrorHandling(h.callbackHandler(messageID, cd))(ctx, chatID)
}

func (h *Handler) callbackHandler(messageID int, cd callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		switch cd.Action {
		case actionOnboarding:
			return h.handleOnboardingCallback(ctx, chatID, messageID, cd)
		case actionDashboard:
			return h.showDashboard(ctx, chatID, messageID)
		case actionProgress:
			return h.showProgress(ctx, chatID, messageID)
		case actionFact:
			return h.handleFactCallback(ctx, chatID, messageID, cd)
		case actionCourses, actionCourse, actionLesson, actionLessonDone:
			return h.handleLearnCallback(ctx, chatID, messageID, cd)
		case actionQuizStart, actionQuizAnswer, actionQuizGoTo, actionQuizNav:
			return h.handleQuizCallback(ctx, chatID, messageID, cd)
		case actionPortfolio:
			return h.handlePortfolioCallback(ctx, chatID, messageID, cd)
		case actionSettings:
			return h.handleSettingsCallback(ctx, chatID, messageID, cd)
		case actionAsk:
			return h.handleAskCallback(ctx, chatID, cd)
		case actionStock:
			return h.showStock(ctx, chatID, messageID, cd.param(0))
		case actionWatch:
			return h.handleWatchCallback(ctx, chatID, messageID, cd)
		case actionProfile:
			return h.promptProfileName(chatID)
		case actionReset:
			return h.handleResetCallback(ctx, chatID, messageID, cd)
		case actionDelete:
			return h.handleDeleteAccountCallback(ctx, chatID, messageID, cd)
		}

		h.logger.Debug("unknown callback", zap.String("data", cd.Raw))
		return nil
	}
}
