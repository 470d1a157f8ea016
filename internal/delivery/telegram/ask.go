package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/investnyou-bot/internal/storage"
)

// handleAsk answers the question in args, or prompts for one.
func (h *Handler) handleAsk(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if q := strings.TrimSpace(args); q != "" {
			return h.ask(ctx, chatID, q)
		}
		return h.promptAsk(ctx, chatID)
	}
}

func (h *Handler) promptAsk(ctx context.Context, chatID int64) error {
	if _, err := h.svc.Auth.Require(ctx, chatID); err != nil {
		return err
	}

	text := msgAskPrompt
	if !h.svc.Ask.Available(ctx, chatID) {
		text += "\n\n<i>⚠️ The assistant looks offline right now, answers may fail.</i>"
	}

	h.pending.Expect(chatID, storage.InputAskQuestion)

	msg := newHTMLMessage(chatID, text)
	msg.ReplyMarkup = buildAskKeyboard(h.svc.Ask.Suggestions(ctx))
	return h.send(msg)
}

func (h *Handler) ask(ctx context.Context, chatID int64, question string) error {
	h.pending.Delete(chatID)

	typing := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := h.bot.Request(typing); err != nil {
		h.logger.Debug("chat action failed", zap.Error(err))
	}

	answer, err := h.svc.Ask.Ask(ctx, chatID, question)
	if err != nil {
		return err
	}

	msg := newHTMLMessage(chatID, renderAnswer(question, answer))
	msg.ReplyMarkup = buildAnswerKeyboard()
	return h.send(msg)
}

func (h *Handler) handleHistory(ctx context.Context, chatID int64) error {
	if _, err := h.svc.Auth.Require(ctx, chatID); err != nil {
		return err
	}
	text := renderAskHistory(h.svc.Ask.History(ctx, chatID), h.svc.Ask.Stats(ctx, chatID))
	return h.send(newHTMLMessage(chatID, text))
}

func (h *Handler) handleClearHistory(ctx context.Context, chatID int64) error {
	if err := h.svc.Ask.Clear(ctx, chatID); err != nil {
		return err
	}
	return h.send(newHTMLMessage(chatID, "🧹 Question history cleared."))
}

func (h *Handler) handleAskCallback(ctx context.Context, chatID int64, cd callbackData) error {
	switch cd.param(0) {
	case askNew:
		return h.promptAsk(ctx, chatID)
	case askSuggestion:
		i, ok := cd.intParam(1)
		suggestions := h.svc.Ask.Suggestions(ctx)
		if !ok || i < 0 || i >= len(suggestions) {
			return nil
		}
		return h.ask(ctx, chatID, suggestions[i])
	}
	return nil
}
