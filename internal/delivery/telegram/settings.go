package telegram

import (
	"context"

	"github.com/aliskhannn/investnyou-bot/internal/storage"
)

func (h *Handler) handleSettings(ctx context.Context, chatID int64) error {
	return h.showSettings(ctx, chatID, 0)
}

func (h *Handler) showSettings(ctx context.Context, chatID int64, messageID int) error {
	prefs, err := h.svc.Settings.Get(ctx, chatID)
	if err != nil {
		return err
	}

	kb := buildSettingsKeyboard(prefs)
	return h.sendOrEdit(chatID, messageID, renderSettings(prefs), &kb)
}

func (h *Handler) handleSettingsCallback(ctx context.Context, chatID int64, messageID int, cd callbackData) error {
	switch cd.param(0) {
	case settingsMenu:
		return h.showSettings(ctx, chatID, messageID)

	case settingsLearningMode:
		if mode := cd.param(1); mode != "" {
			if _, err := h.svc.Settings.SetLearningMode(ctx, chatID, mode); err != nil {
				return err
			}
			return h.showSettings(ctx, chatID, messageID)
		}
		kb := buildLearningModeKeyboard(func(mode string) string {
			return buildSettingsCallback(settingsLearningMode, mode)
		})
		return h.sendOrEdit(chatID, messageID, "🎯 <b>Choose a learning mode</b>", &kb)

	case settingsDailyTime:
		if clock := cd.param(1); clock != "" {
			if _, err := h.svc.Settings.SetDailyFactTime(ctx, chatID, decodeClock(clock)); err != nil {
				return err
			}
			return h.showSettings(ctx, chatID, messageID)
		}
		h.pending.Expect(chatID, storage.InputDailyTime)
		kb := buildDailyTimeKeyboard(func(clock string) string {
			return buildSettingsCallback(settingsDailyTime, encodeClock(clock))
		})
		return h.sendOrEdit(chatID, messageID, "⏰ <b>Pick a time</b> or type one as HH:MM.", &kb)

	case settingsTimezone:
		h.pending.Expect(chatID, storage.InputTimezone)
		return h.sendOrEdit(chatID, messageID,
			"🌍 Send your timezone, for example <code>Europe/London</code>, <code>America/New_York</code> or <code>UTC+3</code>.", nil)

	case settingsNotifications:
		if _, err := h.svc.Settings.ToggleNotifications(ctx, chatID); err != nil {
			return err
		}
		return h.showSettings(ctx, chatID, messageID)
	}

	return nil
}

func (h *Handler) handleDailyTimeInput(ctx context.Context, chatID int64, text string) error {
	if _, err := h.svc.Settings.SetDailyFactTime(ctx, chatID, text); err != nil {
		return err
	}
	h.pending.Delete(chatID)
	return h.showSettings(ctx, chatID, 0)
}

func (h *Handler) handleTimezoneInput(ctx context.Context, chatID int64, text string) error {
	if _, err := h.svc.Settings.SetTimezone(ctx, chatID, text); err != nil {
		return err
	}
	h.pending.Delete(chatID)
	return h.showSettings(ctx, chatID, 0)
}
