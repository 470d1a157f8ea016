package telegram

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/storage"
)

func (h *Handler) handleDashboard(ctx context.Context, chatID int64) error {
	return h.showDashboard(ctx, chatID, 0)
}

// showDashboard renders level, streak and today's fact. A fact that cannot
// be loaded is left out rather than failing the whole screen.
func (h *Handler) showDashboard(ctx context.Context, chatID int64, messageID int) error {
	if _, err := h.svc.Auth.Require(ctx, chatID); err != nil {
		return err
	}

	var fact *entities.Fact
	if f, _, err := h.svc.Facts.Today(ctx, chatID); err == nil {
		fact = f
	} else {
		h.logger.Debug("dashboard without fact", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	st, err := h.sessions.Load(ctx, chatID)
	if err != nil {
		return err
	}

	kb := buildMainMenuKeyboard()
	return h.sendOrEdit(chatID, messageID, renderDashboard(st, fact), &kb)
}

func (h *Handler) handleProgress(ctx context.Context, chatID int64) error {
	return h.showProgress(ctx, chatID, 0)
}

func (h *Handler) showProgress(ctx context.Context, chatID int64, messageID int) error {
	if _, err := h.svc.Auth.Require(ctx, chatID); err != nil {
		return err
	}

	st, err := h.sessions.Load(ctx, chatID)
	if err != nil {
		return err
	}

	kb := buildProgressKeyboard()
	return h.sendOrEdit(chatID, messageID, renderProgress(st), &kb)
}

func (h *Handler) handleSync(ctx context.Context, chatID int64) error {
	st, err := h.svc.Progress.Sync(ctx, chatID)
	if err != nil {
		return err
	}

	kb := buildProgressKeyboard()
	msg := newHTMLMessage(chatID, "🔄 Synced with the server.\n\n"+renderProgress(st))
	msg.ReplyMarkup = kb
	return h.send(msg)
}

func (h *Handler) handleRecover(ctx context.Context, chatID int64) error {
	recovered, st, err := h.svc.Progress.RecoverXP(ctx, chatID)
	if err != nil {
		return err
	}
	if !recovered {
		return h.send(newHTMLMessage(chatID, "✅ Your XP is up to date, nothing to recover."))
	}
	return h.send(newHTMLMessage(chatID, "♻️ XP restored from the backup copy.\n\n"+renderProgress(st)))
}

// handleProfile shows the profile, or renames the user when a name is given.
func (h *Handler) handleProfile(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if name := strings.TrimSpace(args); name != "" {
			return h.renameProfile(ctx, chatID, name)
		}

		user, err := h.svc.User.Profile(ctx, chatID)
		if err != nil {
			return err
		}
		stats, err := h.svc.User.Stats(ctx, chatID)
		if err != nil {
			h.logger.Debug("profile without stats", zap.Int64("chat_id", chatID), zap.Error(err))
			stats = nil
		}

		msg := newHTMLMessage(chatID, renderProfile(user, stats))
		msg.ReplyMarkup = buildProfileKeyboard()
		return h.send(msg)
	}
}

func (h *Handler) renameProfile(ctx context.Context, chatID int64, name string) error {
	user, err := h.svc.User.Rename(ctx, chatID, name)
	if err != nil {
		return err
	}
	h.pending.Delete(chatID)
	return h.send(newHTMLMessage(chatID, "✅ Name changed to "+bold(user.DisplayName())))
}

func (h *Handler) promptProfileName(chatID int64) error {
	h.pending.Expect(chatID, storage.InputProfileName)
	return h.send(newHTMLMessage(chatID, "What name should I use?"))
}
