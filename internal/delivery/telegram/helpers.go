package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/aliskhannn/investnyou-bot/internal/content"
)

func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, content.Truncate(text, content.MaxMessageLength))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	return msg
}

func newHTMLEdit(chatID int64, messageID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, content.Truncate(text, content.MaxMessageLength))
	edit.ParseMode = tgbotapi.ModeHTML
	edit.DisableWebPagePreview = true
	return edit
}

// esc escapes plain text for HTML parse mode.
func esc(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, s)
}

func bold(s string) string {
	return "<b>" + esc(s) + "</b>"
}

// formatMoney renders d as dollars with thousands separators.
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	s := d.StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return sign + "$" + b.String() + "." + frac
}

// formatChange renders a signed amount with an arrow.
func formatChange(d decimal.Decimal) string {
	if d.IsNegative() {
		return "🔻 " + formatMoney(d)
	}
	return "🔺 +" + formatMoney(d)
}

func formatPercent(d decimal.Decimal) string {
	if d.IsNegative() {
		return d.StringFixed(2) + "%"
	}
	return "+" + d.StringFixed(2) + "%"
}

// buildProgressBar creates a text progress bar.
func buildProgressBar(current, total, length int) string {
	if total <= 0 {
		return strings.Repeat("░", length)
	}

	filled := current * length / total
	if filled > length {
		filled = length
	}
	if filled < 0 {
		filled = 0
	}

	return fmt.Sprintf("[%s%s]", strings.Repeat("█", filled), strings.Repeat("░", length-filled))
}

func formatBool(b bool) string {
	if b {
		return "On ✅"
	}
	return "Off ❌"
}
