package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/report"
	"github.com/aliskhannn/investnyou-bot/internal/service"
	"github.com/aliskhannn/investnyou-bot/internal/storage"
)

type tradeSide int

const (
	tradeBuy tradeSide = iota
	tradeSell
)

const chartDays = 30

func (h *Handler) handlePortfolio(ctx context.Context, chatID int64) error {
	return h.showPortfolio(ctx, chatID, 0)
}

func (h *Handler) showPortfolio(ctx context.Context, chatID int64, messageID int) error {
	view, err := h.svc.Portfolio.Holdings(ctx, chatID)
	if err != nil {
		return err
	}

	kb := buildPortfolioKeyboard()
	return h.sendOrEdit(chatID, messageID, renderPortfolio(view), &kb)
}

// parseTrade reads "SYMBOL QTY".
func parseTrade(args string) (symbol string, qty decimal.Decimal, ok bool) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "", decimal.Zero, false
	}
	qty, err := decimal.NewFromString(fields[1])
	if err != nil {
		return "", decimal.Zero, false
	}
	return fields[0], qty, true
}

func (h *Handler) handleTrade(side tradeSide, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		symbol, qty, ok := parseTrade(args)
		if !ok {
			usage := msgUseBuy
			if side == tradeSell {
				usage = msgUseSell
			}
			return h.send(newHTMLMessage(chatID, usage))
		}

		var (
			res *service.TradeResult
			err error
		)
		if side == tradeBuy {
			res, err = h.svc.Portfolio.Buy(ctx, chatID, symbol, qty)
		} else {
			res, err = h.svc.Portfolio.Sell(ctx, chatID, symbol, qty)
		}
		if err != nil {
			return err
		}

		msg := newHTMLMessage(chatID, renderTrade(res))
		msg.ReplyMarkup = buildPortfolioKeyboard()
		return h.send(msg)
	}
}

// handleChart charts the portfolio value, or a stock's price when a symbol is given.
func (h *Handler) handleChart(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if symbol := strings.TrimSpace(args); symbol != "" {
			return h.sendStockChart(ctx, chatID, symbol)
		}
		return h.sendPortfolioChart(ctx, chatID)
	}
}

func (h *Handler) sendPortfolioChart(ctx context.Context, chatID int64) error {
	history, err := h.svc.Portfolio.ValueHistory(ctx, chatID, chartDays)
	if err != nil {
		return err
	}
	return h.sendChart(chatID, "Portfolio value", report.ValuePoints(history))
}

func (h *Handler) sendStockChart(ctx context.Context, chatID int64, symbol string) error {
	symbol, err := service.NormalizeSymbol(symbol)
	if err != nil {
		return err
	}
	history, err := h.svc.Market.History(ctx, symbol, chartDays)
	if err != nil {
		return err
	}
	return h.sendChart(chatID, symbol, report.PricePoints(history))
}

func (h *Handler) sendChart(chatID int64, title string, points []report.Point) error {
	png, err := report.LineChart(title, points)
	if errors.Is(err, report.ErrNoData) {
		return h.send(newHTMLMessage(chatID, "📉 Not enough history to draw a chart yet."))
	}
	if err != nil {
		return err
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "chart.png", Bytes: png})
	photo.Caption = fmt.Sprintf("%s, last %d days", title, chartDays)
	return h.send(photo)
}

func (h *Handler) handleTransactions(page int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.showTransactions(ctx, chatID, 0, page)
	}
}

func (h *Handler) showTransactions(ctx context.Context, chatID int64, messageID, page int) error {
	res, err := h.svc.Portfolio.Transactions(ctx, chatID, page)
	if err != nil {
		return err
	}

	kb := buildTransactionsKeyboard(page, res.Pagination.TotalPages)
	return h.sendOrEdit(chatID, messageID, renderTransactions(res), &kb)
}

func (h *Handler) handleExport(ctx context.Context, chatID int64) error {
	view, err := h.svc.Portfolio.Holdings(ctx, chatID)
	if err != nil {
		return err
	}
	txs, err := h.svc.Portfolio.AllTransactions(ctx, chatID)
	if err != nil {
		return err
	}

	data, err := report.PortfolioWorkbook(view.Portfolio, txs)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("portfolio-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = "📤 Your practice portfolio"
	return h.send(doc)
}

func (h *Handler) handlePortfolioCallback(ctx context.Context, chatID int64, messageID int, cd callbackData) error {
	switch cd.param(0) {
	case portfolioView:
		return h.showPortfolio(ctx, chatID, messageID)
	case portfolioTransactions:
		page, ok := cd.intParam(1)
		if !ok || page < 1 {
			page = 1
		}
		return h.showTransactions(ctx, chatID, messageID, page)
	case portfolioChart:
		return h.sendPortfolioChart(ctx, chatID)
	case portfolioExport:
		return h.handleExport(ctx, chatID)
	}
	return nil
}

func (h *Handler) handleStock(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		symbol := strings.TrimSpace(args)
		if symbol == "" {
			return h.send(newHTMLMessage(chatID, msgUseStock))
		}
		return h.showStock(ctx, chatID, 0, symbol)
	}
}

func (h *Handler) showStock(ctx context.Context, chatID int64, messageID int, symbol string) error {
	symbol, err := service.NormalizeSymbol(symbol)
	if err != nil {
		return err
	}
	stock, err := h.svc.Market.Quote(ctx, symbol)
	if err != nil {
		return err
	}

	watched := false
	if items, err := h.svc.Watchlist.List(ctx, chatID); err == nil {
		for _, it := range items {
			if it.Symbol == stock.Symbol {
				watched = true
				break
			}
		}
	}

	kb := buildStockKeyboard(stock.Symbol, watched)
	return h.sendOrEdit(chatID, messageID, renderStock(stock), &kb)
}

func (h *Handler) handleStocks(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		query := strings.TrimSpace(args)
		if query == "" {
			h.pending.Expect(chatID, storage.InputStockSearch)
			return h.send(newHTMLMessage(chatID, msgSearchStock))
		}
		return h.searchStocks(ctx, chatID, query)
	}
}

func (h *Handler) searchStocks(ctx context.Context, chatID int64, query string) error {
	h.pending.Delete(chatID)

	stocks, err := h.svc.Market.Search(ctx, query)
	if err != nil {
		return err
	}

	msg := newHTMLMessage(chatID, renderStockList("🔎 "+query, stocks))
	msg.ReplyMarkup = buildStockListKeyboard(stocks)
	return h.send(msg)
}

func (h *Handler) handleTrending(ctx context.Context, chatID int64) error {
	up, down, err := h.svc.Market.Trending(ctx)
	if err != nil {
		return err
	}

	all := make([]entities.Stock, 0, len(up)+len(down))
	all = append(all, up...)
	all = append(all, down...)

	msg := newHTMLMessage(chatID, renderTrending(up, down))
	msg.ReplyMarkup = buildStockListKeyboard(all)
	return h.send(msg)
}

func (h *Handler) handleMarket(ctx context.Context, chatID int64) error {
	overview, err := h.svc.Market.Overview(ctx)
	if err != nil {
		return err
	}
	return h.send(newHTMLMessage(chatID, renderMarket(overview)))
}

func (h *Handler) handleWatchlist(ctx context.Context, chatID int64) error {
	return h.showWatchlist(ctx, chatID, 0)
}

func (h *Handler) showWatchlist(ctx context.Context, chatID int64, messageID int) error {
	items, err := h.svc.Watchlist.List(ctx, chatID)
	if err != nil {
		return err
	}

	kb := buildWatchlistKeyboard(items)
	return h.sendOrEdit(chatID, messageID, renderWatchlist(items), &kb)
}

func (h *Handler) handleWatch(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		symbol := strings.TrimSpace(args)
		if symbol == "" {
			return h.send(newHTMLMessage(chatID, msgUseWatch))
		}
		stock, err := h.svc.Watchlist.Add(ctx, chatID, symbol)
		if err != nil {
			return err
		}
		return h.send(newHTMLMessage(chatID, fmt.Sprintf("👀 Watching %s at %s", bold(stock.Symbol), formatMoney(stock.Price))))
	}
}

func (h *Handler) handleUnwatch(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		symbol := strings.TrimSpace(args)
		if symbol == "" {
			return h.send(newHTMLMessage(chatID, msgUseUnwatch))
		}
		if err := h.svc.Watchlist.Remove(ctx, chatID, symbol); err != nil {
			return err
		}
		return h.send(newHTMLMessage(chatID, "🙈 Removed "+bold(strings.ToUpper(symbol))+" from your watchlist."))
	}
}

func (h *Handler) handleWatchCallback(ctx context.Context, chatID int64, messageID int, cd callbackData) error {
	symbol := cd.param(1)

	switch cd.param(0) {
	case watchList:
		return h.showWatchlist(ctx, chatID, 0)
	case watchAdd:
		if _, err := h.svc.Watchlist.Add(ctx, chatID, symbol); err != nil {
			return err
		}
		return h.showStock(ctx, chatID, messageID, symbol)
	case watchRemove:
		if err := h.svc.Watchlist.Remove(ctx, chatID, symbol); err != nil {
			return err
		}
		return h.showWatchlist(ctx, chatID, messageID)
	}
	return nil
}
