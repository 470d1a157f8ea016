package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/investnyou-bot/internal/service"
	"github.com/aliskhannn/investnyou-bot/internal/state"
	"github.com/aliskhannn/investnyou-bot/internal/storage"
)

// Services groups the use cases the bot exposes.
type Services struct {
	Auth      *service.AuthService
	Progress  *service.ProgressService
	Learning  *service.LearningService
	Facts     *service.FactsService
	Quiz      *service.QuizService
	Ask       *service.AskService
	Portfolio *service.PortfolioService
	Market    *service.MarketService
	Watchlist *service.WatchlistService
	Settings  *service.SettingsService
	User      *service.UserService
	Reset     *service.ResetService
}

type Handler struct {
	bot      Bot
	logger   *zap.Logger
	svc      Services
	sessions *state.Manager
	pending  *storage.PendingStorage
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	svc Services,
	sessions *state.Manager,
	pending *storage.PendingStorage,
) *Handler {
	return &Handler{
		bot:      bot,
		logger:   logger,
		svc:      svc,
		sessions: sessions,
		pending:  pending,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.Bool("command", update.Message.IsCommand()),
	)

	chatID := update.Message.Chat.ID

	if update.Message.IsCommand() {
		// A new command abandons any prompt in progress.
		h.pending.Delete(chatID)
		_ = h.withErrorHandling(h.commandHandler(update.Message))(ctx, chatID)
		return
	}

	_ = h.withErrorHandling(h.handleText(update.Message.Text))(ctx, chatID)
}

func (h *Handler) commandHandler(m *tgbotapi.Message) HandlerFunc {
	args := m.CommandArguments()

	switch m.Command() {
	case "start":
		return h.handleStart
	case "help":
		return h.handleHelp
	case "login":
		return h.handleLogin
	case "signup":
		return h.handleSignup
	case "guest":
		return h.handleGuest
	case "logout":
		return h.handleLogout
	case "dashboard":
		return h.handleDashboard
	case "fact":
		return h.handleFact
	case "facts":
		return h.handleFacts(args)
	case "search":
		return h.handleSearch(args)
	case "learn":
		return h.handleLearn
	case "progress":
		return h.handleProgress
	case "sync":
		return h.handleSync
	case "recover":
		return h.handleRecover
	case "settings":
		return h.handleSettings
	case "profile":
		return h.handleProfile(args)
	case "reset":
		return h.handleReset
	case "deleteaccount":
		return h.handleDeleteAccount
	case "ask":
		return h.handleAsk(args)
	case "history":
		return h.handleHistory
	case "clearhistory":
		return h.handleClearHistory
	case "portfolio":
		return h.handlePortfolio
	case "buy":
		return h.handleTrade(tradeBuy, args)
	case "sell":
		return h.handleTrade(tradeSell, args)
	case "chart":
		return h.handleChart(args)
	case "transactions":
		return h.handleTransactions(1)
	case "export":
		return h.handleExport
	case "stock":
		return h.handleStock(args)
	case "stocks":
		return h.handleStocks(args)
	case "trending":
		return h.handleTrending
	case "market":
		return h.handleMarket
	case "watchlist":
		return h.handleWatchlist
	case "watch":
		return h.handleWatch(args)
	case "unwatch":
		return h.handleUnwatch(args)
	default:
		return func(ctx context.Context, chatID int64) error {
			return h.send(newHTMLMessage(chatID, msgUnknownCommand))
		}
	}
}

func (h *Handler) sendError(chatID int64, err string) {
	msg := newHTMLMessage(chatID, err)
	_ = h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		// Refresh buttons re-render the same text.
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

// sendOrEdit edits the message a callback came from, or sends a new one.
func (h *Handler) sendOrEdit(chatID int64, messageID int, text string, kb *tgbotapi.InlineKeyboardMarkup) error {
	if messageID == 0 {
		msg := newHTMLMessage(chatID, text)
		if kb != nil {
			msg.ReplyMarkup = *kb
		}
		return h.send(msg)
	}

	edit := newHTMLEdit(chatID, messageID, text)
	if kb != nil {
		edit.ReplyMarkup = kb
	}
	return h.send(edit)
}
