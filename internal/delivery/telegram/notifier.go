package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/service"
)

var _ service.ReminderNotifier = (*Handler)(nil)

// SendDailyFact sends the reminder with today's fact and returns its message id.
func (h *Handler) SendDailyFact(chatID int64, fact *entities.Fact) (int, error) {
	msg := newHTMLMessage(chatID, "⏰ <b>Your daily fact is here!</b>\n\n"+renderFact(fact, false))
	msg.ReplyMarkup = buildFactKeyboard(fact)

	sent, err := h.bot.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (h *Handler) DeleteMessage(chatID int64, messageID int) error {
	_, err := h.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}
