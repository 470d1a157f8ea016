package telegram

import (
	"context"
	"strings"

	"github.com/aliskhannn/investnyou-bot/internal/storage"
)

func (h *Handler) handleHelp(ctx context.Context, chatID int64) error {
	return h.send(newHTMLMessage(chatID, msgHelp))
}

func (h *Handler) handleLogin(ctx context.Context, chatID int64) error {
	return h.startAccount(ctx, chatID, 0, accountLogin)
}

func (h *Handler) handleSignup(ctx context.Context, chatID int64) error {
	return h.startAccount(ctx, chatID, 0, accountSignup)
}

func (h *Handler) handleGuest(ctx context.Context, chatID int64) error {
	return h.signInGuest(ctx, chatID, 0)
}

func (h *Handler) handleLogout(ctx context.Context, chatID int64) error {
	h.svc.Quiz.Cancel(chatID)
	if err := h.svc.Auth.Logout(ctx, chatID); err != nil {
		return err
	}
	return h.send(newHTMLMessage(chatID, "👋 Logged out. Your progress is kept, use /login or /guest to continue."))
}

func (h *Handler) handleReset(ctx context.Context, chatID int64) error {
	msg := newHTMLMessage(chatID, "⚠️ <b>Reset this chat?</b>\n\nThe bot will forget your session, settings and local progress. Your server account is not deleted.")
	msg.ReplyMarkup = buildResetKeyboard()
	return h.send(msg)
}

func (h *Handler) handleResetCallback(ctx context.Context, chatID int64, messageID int, cd callbackData) error {
	if cd.param(0) != resetConfirm {
		return h.sendOrEdit(chatID, messageID, "Reset cancelled.", nil)
	}

	if err := h.svc.Reset.ResetChat(ctx, chatID); err != nil {
		return err
	}
	return h.sendOrEdit(chatID, messageID, "🧹 Done. Send /start to begin again.", nil)
}

func (h *Handler) handleDeleteAccount(ctx context.Context, chatID int64) error {
	if _, err := h.svc.Auth.Require(ctx, chatID); err != nil {
		return err
	}

	msg := newHTMLMessage(chatID, msgDeleteAccountConfirm)
	msg.ReplyMarkup = buildDeleteAccountKeyboard()
	return h.send(msg)
}

// handleDeleteAccountCallback deletes the server account, then forgets the chat.
func (h *Handler) handleDeleteAccountCallback(ctx context.Context, chatID int64, messageID int, cd callbackData) error {
	if cd.param(0) != resetConfirm {
		return h.sendOrEdit(chatID, messageID, msgDeleteAccountCancelled, nil)
	}

	if err := h.svc.User.DeleteAccount(ctx, chatID); err != nil {
		return err
	}
	if err := h.svc.Reset.ResetChat(ctx, chatID); err != nil {
		return err
	}
	return h.sendOrEdit(chatID, messageID, msgAccountDeleted, nil)
}

// handleText routes a plain message to the prompt waiting for it.
func (h *Handler) handleText(text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text = strings.TrimSpace(text)
		if text == "" {
			return nil
		}

		p, ok := h.pending.Get(chatID)
		if !ok {
			return h.send(newHTMLMessage(chatID, msgUnknownText))
		}

		switch p.Kind {
		case storage.InputAskQuestion:
			return h.ask(ctx, chatID, text)
		case storage.InputQuizAnswer:
			return h.handleQuizAnswerInput(ctx, chatID, text)
		case storage.InputLoginEmail, storage.InputLoginPassword:
			return h.handleLoginInput(ctx, chatID, p, text)
		case storage.InputSignupName, storage.InputSignupEmail, storage.InputSignupPass:
			return h.handleSignupInput(ctx, chatID, p, text)
		case storage.InputFactSearch:
			return h.searchFacts(ctx, chatID, text)
		case storage.InputStockSearch:
			return h.searchStocks(ctx, chatID, text)
		case storage.InputDailyTime:
			return h.handleDailyTimeInput(ctx, chatID, text)
		case storage.InputTimezone:
			return h.handleTimezoneInput(ctx, chatID, text)
		case storage.InputProfileName:
			return h.renameProfile(ctx, chatID, text)
		}

		return h.send(newHTMLMessage(chatID, msgUnknownText))
	}
}
