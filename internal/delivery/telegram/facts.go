package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/service"
	"github.com/aliskhannn/investnyou-bot/internal/storage"
)

func (h *Handler) handleFact(ctx context.Context, chatID int64) error {
	return h.showTodayFact(ctx, chatID, 0)
}

func (h *Handler) showTodayFact(ctx context.Context, chatID int64, messageID int) error {
	fact, stale, err := h.svc.Facts.Today(ctx, chatID)
	if err != nil {
		return err
	}

	kb := buildFactKeyboard(fact)
	return h.sendOrEdit(chatID, messageID, renderFact(fact, stale), &kb)
}

// handleFacts lists facts, optionally filtered by the category in args.
// "/facts read" lists the facts already completed.
func (h *Handler) handleFacts(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		category := strings.TrimSpace(args)
		if category == "read" {
			return h.showCompletedFacts(ctx, chatID)
		}
		return h.showFactPage(ctx, chatID, 0, 1, category)
	}
}

func (h *Handler) showCompletedFacts(ctx context.Context, chatID int64) error {
	res, err := h.svc.Facts.Completed(ctx, chatID, 1)
	if err != nil {
		return err
	}
	for i := range res.Facts {
		res.Facts[i].IsCompleted = true
	}
	return h.send(newHTMLMessage(chatID, renderFactList("✅ Facts you've read", res)))
}

func (h *Handler) showFactPage(ctx context.Context, chatID int64, messageID, page int, category string) error {
	res, err := h.svc.Facts.List(ctx, chatID, page, category)
	if err != nil {
		return err
	}

	title := "📖 Facts"
	if category != "" {
		title = fmt.Sprintf("📖 Facts · #%s", category)
	}

	text := renderFactList(title, res)
	if category == "" && page == 1 {
		if cats, err := h.svc.Facts.Categories(ctx); err == nil && len(cats) > 0 {
			text += "\n<i>Categories: " + esc(strings.Join(cats, ", ")) + "</i>\n<i>Filter with /facts category</i>"
		}
	}

	kb := buildFactListKeyboard(res, category)
	return h.sendOrEdit(chatID, messageID, text, &kb)
}

func (h *Handler) handleSearch(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		query := strings.TrimSpace(args)
		if query == "" {
			h.pending.Expect(chatID, storage.InputFactSearch)
			return h.send(newHTMLMessage(chatID, msgSearchFacts))
		}
		return h.searchFacts(ctx, chatID, query)
	}
}

func (h *Handler) searchFacts(ctx context.Context, chatID int64, query string) error {
	h.pending.Delete(chatID)

	res, err := h.svc.Facts.Search(ctx, chatID, query, 1)
	if err != nil {
		return err
	}

	kb := buildFactListKeyboard(res, "")
	msg := newHTMLMessage(chatID, renderFactList("🔎 Results for “"+query+"”", res))
	msg.ReplyMarkup = kb
	return h.send(msg)
}

func (h *Handler) completeFact(ctx context.Context, chatID int64, messageID int, id entities.ID) error {
	award, err := h.svc.Progress.CompleteFact(ctx, chatID, id)
	if errors.Is(err, service.ErrAlreadyCompleted) {
		return h.send(newHTMLMessage(chatID, msgFactAlreadyRead))
	}
	if err != nil {
		return err
	}

	fact, err := h.svc.Facts.Get(ctx, chatID, id)
	if err != nil && award.State != nil {
		fact = award.State.DailyFact
	}
	if fact != nil {
		fact.IsCompleted = true
		kb := buildFactKeyboard(fact)
		if err := h.sendOrEdit(chatID, messageID, renderFact(fact, false), &kb); err != nil {
			return err
		}
	}

	if text := renderAward(award); text != "" {
		return h.send(newHTMLMessage(chatID, text))
	}
	return nil
}

func (h *Handler) handleFactCallback(ctx context.Context, chatID int64, messageID int, cd callbackData) error {
	switch cd.param(0) {
	case factToday:
		return h.showTodayFact(ctx, chatID, messageID)

	case factComplete:
		return h.completeFact(ctx, chatID, messageID, entities.ID(cd.param(1)))

	case factOpen:
		fact, err := h.svc.Facts.Get(ctx, chatID, entities.ID(cd.param(1)))
		if err != nil {
			return err
		}
		kb := buildFactKeyboard(fact)
		return h.sendOrEdit(chatID, 0, renderFact(fact, false), &kb)

	case factPage:
		page, ok := cd.intParam(1)
		if !ok || page < 1 {
			page = 1
		}
		return h.showFactPage(ctx, chatID, messageID, page, cd.param(2))

	case factSearch:
		h.pending.Expect(chatID, storage.InputFactSearch)
		return h.send(newHTMLMessage(chatID, msgSearchFacts))
	}

	return nil
}
