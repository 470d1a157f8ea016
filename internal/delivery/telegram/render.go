package telegram

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aliskhannn/investnyou-bot/internal/apiclient"
	"github.com/aliskhannn/investnyou-bot/internal/content"
	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/domain/level"
	"github.com/aliskhannn/investnyou-bot/internal/service"
	"github.com/aliskhannn/investnyou-bot/internal/state"
)

// renderLevel renders the level line with a bar for the current band.
func renderLevel(st *state.AppState) string {
	p := st.LevelProgress()

	var sb strings.Builder
	fmt.Fprintf(&sb, "🏅 <b>Level %d</b> · %s\n", st.Progress.Level, esc(level.Title(st.Progress.Level)))
	if p.Needed == 0 {
		fmt.Fprintf(&sb, "%s max level, %d XP", buildProgressBar(1, 1, 10), st.Progress.XP)
		return sb.String()
	}
	fmt.Fprintf(&sb, "%s %d/%d XP to level %d",
		buildProgressBar(p.InLevel, p.Needed, 10), p.InLevel, p.Needed, st.Progress.Level+1)
	return sb.String()
}

func renderDashboard(st *state.AppState, fact *entities.Fact) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "👋 <b>Hi, %s!</b>\n\n", esc(st.User.DisplayName()))
	sb.WriteString(renderLevel(st))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "🔥 Streak: <b>%d</b> days · ⭐ %d XP\n", st.Progress.Streak, st.Progress.XP)

	if fact != nil {
		sb.WriteString("\n💡 <b>Today's fact:</b> ")
		sb.WriteString(esc(fact.Title))
		if fact.IsCompleted {
			sb.WriteString(" ✅")
		}
		sb.WriteString("\n")
	}

	if st.PortfolioUnlocked() {
		fmt.Fprintf(&sb, "\n💼 Portfolio: <b>%s</b>\n", formatMoney(st.Portfolio.TotalValue()))
	} else {
		left := entities.LessonsToUnlockPortfolio - len(st.Progress.CompletedLessons)
		fmt.Fprintf(&sb, "\n🔒 Portfolio unlocks after %d more lesson(s).\n", left)
	}

	return sb.String()
}

func renderProgress(st *state.AppState) string {
	var sb strings.Builder

	sb.WriteString("<b>📊 Your progress</b>\n\n")
	sb.WriteString(renderLevel(st))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "⭐ <b>Total XP:</b> %d\n", st.Progress.XP)
	fmt.Fprintf(&sb, "🔥 <b>Streak:</b> %d days\n", st.Progress.Streak)
	fmt.Fprintf(&sb, "💡 <b>Facts read:</b> %d\n", len(st.Progress.CompletedFacts))
	fmt.Fprintf(&sb, "📚 <b>Lessons completed:</b> %d\n", len(st.Progress.CompletedLessons))

	if len(st.Progress.Badges) > 0 {
		sb.WriteString("\n<b>🏆 Badges</b>\n")
		for _, b := range st.Progress.Badges {
			icon := b.Icon
			if icon == "" {
				icon = "🎖"
			}
			fmt.Fprintf(&sb, "%s %s\n", icon, esc(b.Name))
		}
	}

	return sb.String()
}

// renderAward renders the XP line shown after completing something.
func renderAward(a *service.Award) string {
	var sb strings.Builder
	if a.XPEarned > 0 {
		fmt.Fprintf(&sb, "🎉 +%d XP!", a.XPEarned)
	}
	if a.LeveledUp && a.State != nil {
		fmt.Fprintf(&sb, "\n🆙 Level up! You are now level %d, %s.",
			a.State.Progress.Level, esc(level.Title(a.State.Progress.Level)))
	}
	if a.Badge != nil {
		fmt.Fprintf(&sb, "\n🏆 New badge: <b>%s</b>", esc(a.Badge.Name))
	}
	return strings.TrimSpace(sb.String())
}

func renderFact(f *entities.Fact, stale bool) string {
	var sb strings.Builder

	sb.WriteString("💡 <b>")
	sb.WriteString(esc(f.Title))
	sb.WriteString("</b>\n")
	if f.Category != "" {
		fmt.Fprintf(&sb, "<i>#%s</i>\n", esc(f.Category))
	}
	sb.WriteString("\n")
	sb.WriteString(content.FormatLesson(f.Content))
	sb.WriteString("\n")

	switch {
	case f.IsCompleted:
		sb.WriteString("\n✅ Already read")
	case f.XPValue > 0:
		fmt.Fprintf(&sb, "\n⭐ Worth %d XP", f.XPValue)
	}
	if stale {
		sb.WriteString("\n\n<i>Offline copy, the server could not be reached.</i>")
	}

	return sb.String()
}

func renderFactList(title string, page *apiclient.FactPage) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%s</b>\n\n", esc(title))
	if len(page.Facts) == 0 {
		sb.WriteString("Nothing found.")
		return sb.String()
	}
	for _, f := range page.Facts {
		mark := "▫️"
		if f.IsCompleted {
			mark = "✅"
		}
		fmt.Fprintf(&sb, "%s %s", mark, esc(f.Title))
		if f.Category != "" {
			fmt.Fprintf(&sb, " <i>#%s</i>", esc(f.Category))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderCourses(courses []entities.Course) string {
	var sb strings.Builder
	sb.WriteString("<b>📚 Courses</b>\n\n")
	if len(courses) == 0 {
		sb.WriteString("No courses yet.")
		return sb.String()
	}
	for _, c := range courses {
		fmt.Fprintf(&sb, "📘 <b>%s</b>", esc(c.Title))
		if c.Difficulty != "" {
			fmt.Fprintf(&sb, " · <i>%s</i>", esc(c.Difficulty))
		}
		sb.WriteString("\n")
		if c.Description != "" {
			sb.WriteString(esc(c.Description))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderCourse(c *entities.Course) string {
	total, completed := c.LessonCount()

	var sb strings.Builder
	fmt.Fprintf(&sb, "📘 <b>%s</b>\n", esc(c.Title))
	if c.Description != "" {
		sb.WriteString(esc(c.Description))
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "\n%s %d/%d lessons\n", buildProgressBar(completed, total, 10), completed, total)

	for _, u := range c.Units {
		fmt.Fprintf(&sb, "\n📌 <b>%s</b>\n", esc(u.Title))
		for _, l := range u.Lessons {
			mark := "▫️"
			if l.IsCompleted {
				mark = "✅"
			}
			fmt.Fprintf(&sb, "%s %s\n", mark, esc(l.Title))
		}
	}
	return sb.String()
}

func renderLesson(v *service.LessonView, attempts []entities.QuizAttempt) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<i>%s · lesson %d of %d</i>\n", esc(v.Course.Title), v.Index+1, v.Total)
	fmt.Fprintf(&sb, "📖 <b>%s</b>", esc(v.Lesson.Title))
	if v.Lesson.IsCompleted {
		sb.WriteString(" ✅")
	}
	sb.WriteString("\n\n")
	sb.WriteString(content.FormatLesson(v.Lesson.Content))
	if line := renderAttempts(attempts); line != "" {
		sb.WriteString("\n\n")
		sb.WriteString(line)
	}
	return sb.String()
}

// renderAttempts summarises earlier quiz submissions in one line.
func renderAttempts(attempts []entities.QuizAttempt) string {
	if len(attempts) == 0 {
		return ""
	}

	best, passed := 0, false
	for _, a := range attempts {
		best = max(best, a.Score)
		passed = passed || a.Passed
	}

	word := "attempts"
	if len(attempts) == 1 {
		word = "attempt"
	}
	line := fmt.Sprintf("📝 Quiz: best score %d%% · %d %s", best, len(attempts), word)
	if passed {
		line += " · passed ✅"
	}
	return "<i>" + line + "</i>"
}

// renderQuizQuestion renders the question under the cursor.
func renderQuizQuestion(s *entities.QuizSession) string {
	q, ok := s.Question()
	if !ok {
		return msgNoActiveQuiz
	}

	var sb strings.Builder
	if s.Quiz.Title != "" {
		fmt.Fprintf(&sb, "📝 <b>%s</b>\n", esc(s.Quiz.Title))
	}
	fmt.Fprintf(&sb, "<i>Question %d of %d · %d answered</i>\n\n", s.Current+1, s.Total(), s.AnsweredCount())
	sb.WriteString("<b>")
	sb.WriteString(esc(q.Question))
	sb.WriteString("</b>\n")

	if q.Type.IsFreeText() {
		if ans := strings.TrimSpace(s.Texts[q.ID]); ans != "" {
			fmt.Fprintf(&sb, "\n✏️ Your answer: %s\n", esc(ans))
			sb.WriteString("<i>Send a new message to change it.</i>")
		} else {
			sb.WriteString("\n✏️ <i>Type your answer as a message.</i>")
		}
		return sb.String()
	}

	sb.WriteString("\n")
	for i, opt := range q.Options {
		fmt.Fprintf(&sb, "%c. %s\n", 'A'+i, esc(opt))
	}
	return sb.String()
}

func renderQuizResult(o *service.QuizOutcome) string {
	r := o.Result

	var sb strings.Builder
	if r.Passed {
		sb.WriteString("🎉 <b>Quiz passed!</b>\n\n")
	} else {
		sb.WriteString("📚 <b>Not quite there yet.</b>\n\n")
	}
	fmt.Fprintf(&sb, "Score: <b>%d%%</b>", r.Score)
	if len(r.DetailedResults) > 0 {
		fmt.Fprintf(&sb, " (%d/%d correct)", r.CorrectCount(), len(r.DetailedResults))
	}
	sb.WriteString("\n")
	if r.XPEarned > 0 {
		fmt.Fprintf(&sb, "⭐ +%d XP\n", r.XPEarned)
	}
	if o.LeveledUp && o.State != nil {
		fmt.Fprintf(&sb, "🆙 Level up! You are now level %d, %s.\n",
			o.State.Progress.Level, esc(level.Title(o.State.Progress.Level)))
	}

	for i, d := range r.DetailedResults {
		if d.Feedback == "" {
			continue
		}
		mark := "❌"
		if d.IsCorrect {
			mark = "✅"
		}
		fmt.Fprintf(&sb, "\n%s <b>%d.</b> %s", mark, i+1, esc(d.Feedback))
	}

	if !r.Passed {
		sb.WriteString("\n\nReview the lesson and try again.")
	}
	return sb.String()
}

func renderPortfolio(v *service.PortfolioView) string {
	p := v.Portfolio

	var sb strings.Builder
	sb.WriteString("<b>💼 Practice portfolio</b>\n\n")
	fmt.Fprintf(&sb, "💵 Cash: <b>%s</b>\n", formatMoney(p.Balance))
	fmt.Fprintf(&sb, "📦 Holdings: <b>%s</b>\n", formatMoney(p.HoldingsValue()))
	fmt.Fprintf(&sb, "💰 Total: <b>%s</b>\n", formatMoney(p.TotalValue()))

	if !v.Summary.TotalAllTimeGainLoss.IsZero() {
		fmt.Fprintf(&sb, "📈 All time: %s (%s)\n",
			formatChange(v.Summary.TotalAllTimeGainLoss), formatPercent(v.Summary.TotalAllTimeGainLossPercent))
	}
	if !v.Summary.TotalDailyGainLoss.IsZero() {
		fmt.Fprintf(&sb, "📅 Today: %s (%s)\n",
			formatChange(v.Summary.TotalDailyGainLoss), formatPercent(v.Summary.TotalDailyGainLossPercent))
	}

	if len(p.Holdings) == 0 {
		sb.WriteString("\nNo positions yet. Try <code>/buy AAPL 1</code>.")
		return sb.String()
	}

	sb.WriteString("\n<b>Positions</b>\n")
	for _, h := range p.Holdings {
		fmt.Fprintf(&sb, "\n<b>%s</b> · %s shares\n", esc(h.Symbol), h.Shares.String())
		fmt.Fprintf(&sb, "   avg %s · now %s\n", formatMoney(h.AverageCost), formatMoney(h.CurrentValue().Div(nonZero(h.Shares))))
		fmt.Fprintf(&sb, "   value %s · %s (%s)\n", formatMoney(h.CurrentValue()), formatChange(h.GainLoss()), formatPercent(h.GainLossPercent()))
	}
	return sb.String()
}

func nonZero(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.NewFromInt(1)
	}
	return d
}

func renderTrade(r *service.TradeResult) string {
	tx := r.Transaction
	verb := "Bought"
	if tx.Type == entities.TransactionSell {
		verb = "Sold"
	}
	return fmt.Sprintf("✅ %s <b>%s</b> %s at %s\nTotal: <b>%s</b>\n💵 Cash left: %s",
		verb, tx.Shares.String(), esc(tx.Symbol), formatMoney(tx.Price), formatMoney(tx.Total), formatMoney(r.Portfolio.Balance))
}

func renderTransactions(page *apiclient.TransactionPage) string {
	var sb strings.Builder
	sb.WriteString("<b>🧾 Transactions</b>\n\n")
	if len(page.Transactions) == 0 {
		sb.WriteString("No trades yet.")
		return sb.String()
	}
	for _, tx := range page.Transactions {
		icon := "🟢"
		if tx.Type == entities.TransactionSell {
			icon = "🔴"
		}
		date := ""
		if !tx.CreatedAt.IsZero() {
			date = tx.CreatedAt.Format("Jan 2") + " · "
		}
		fmt.Fprintf(&sb, "%s %s%s %s %s @ %s = %s\n",
			icon, date, strings.ToUpper(tx.Type), tx.Shares.String(), esc(tx.Symbol), formatMoney(tx.Price), formatMoney(tx.Total))
	}
	return sb.String()
}

func renderStock(s *entities.Stock) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📈 <b>%s</b>", esc(s.Symbol))
	if s.Name != "" {
		fmt.Fprintf(&sb, " · %s", esc(s.Name))
	}
	fmt.Fprintf(&sb, "\n\nPrice: <b>%s</b>\n", formatMoney(s.Price))
	fmt.Fprintf(&sb, "Change: %s (%s)\n", formatChange(s.Change), formatPercent(s.ChangePercent))
	if s.Sector != "" {
		fmt.Fprintf(&sb, "Sector: %s\n", esc(s.Sector))
	}
	return sb.String()
}

func renderStockLines(sb *strings.Builder, stocks []entities.Stock) {
	for _, s := range stocks {
		fmt.Fprintf(sb, "<b>%s</b> %s %s\n", esc(s.Symbol), formatMoney(s.Price), formatPercent(s.ChangePercent))
	}
}

func renderStockList(title string, stocks []entities.Stock) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%s</b>\n\n", esc(title))
	if len(stocks) == 0 {
		sb.WriteString("Nothing found.")
		return sb.String()
	}
	renderStockLines(&sb, stocks)
	return sb.String()
}

func renderTrending(up, down []entities.Stock) string {
	var sb strings.Builder
	sb.WriteString("<b>🔥 Trending</b>\n\n<b>🔺 Gainers</b>\n")
	renderStockLines(&sb, up)
	sb.WriteString("\n<b>🔻 Losers</b>\n")
	renderStockLines(&sb, down)
	return sb.String()
}

func renderMarket(o *entities.MarketOverview) string {
	var sb strings.Builder
	sb.WriteString("<b>🌐 Market overview</b>\n")
	if o.MarketStatus != "" {
		fmt.Fprintf(&sb, "Status: %s\n", esc(o.MarketStatus))
	}
	sections := []struct {
		title  string
		stocks []entities.Stock
	}{
		{"🔺 Gainers", o.Gainers},
		{"🔻 Losers", o.Losers},
		{"⚡ Most active", o.MostActive},
	}
	for _, s := range sections {
		if len(s.stocks) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n<b>%s</b>\n", s.title)
		renderStockLines(&sb, s.stocks)
	}
	return sb.String()
}

func renderWatchlist(items []entities.WatchlistItem) string {
	var sb strings.Builder
	sb.WriteString("<b>👀 Watchlist</b>\n\n")
	if len(items) == 0 {
		sb.WriteString("Empty. Add a stock with <code>/watch AAPL</code>.")
		return sb.String()
	}
	for _, it := range items {
		fmt.Fprintf(&sb, "<b>%s</b> %s", esc(it.Symbol), formatMoney(it.Price))
		if !it.ChangePercent.IsZero() {
			fmt.Fprintf(&sb, " %s", formatPercent(it.ChangePercent))
		}
		if it.Name != "" {
			fmt.Fprintf(&sb, " · %s", esc(it.Name))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderAnswer(question string, a *entities.AskAnswer) string {
	return fmt.Sprintf("❓ <i>%s</i>\n\n🤖 %s", esc(question), content.FormatLesson(a.Answer))
}

func renderAskHistory(msgs []entities.AskMessage, stats *entities.AskStats) string {
	var sb strings.Builder
	sb.WriteString("<b>🕘 Recent questions</b>\n")
	if stats != nil {
		fmt.Fprintf(&sb, "<i>%d asked in total · %d today</i>\n", stats.TotalQuestions, stats.TodayQuestions)
	}
	if len(msgs) == 0 {
		sb.WriteString("\nNo questions yet. Try /ask.")
		return sb.String()
	}
	for _, m := range msgs {
		fmt.Fprintf(&sb, "\n❓ <b>%s</b>\n%s\n", esc(m.Prompt), esc(shorten(m.Response, 300)))
	}
	return sb.String()
}

func renderProfile(u *entities.User, stats *entities.UserStats) string {
	var sb strings.Builder
	sb.WriteString("<b>👤 Profile</b>\n\n")
	fmt.Fprintf(&sb, "Name: <b>%s</b>\n", esc(u.DisplayName()))
	if u.Email != "" {
		fmt.Fprintf(&sb, "Email: %s\n", esc(u.Email))
	}
	if u.IsGuest {
		sb.WriteString("Account: guest\n")
	}
	if u.FinancialGoal != "" {
		fmt.Fprintf(&sb, "Goal: %s\n", esc(u.FinancialGoal))
	}
	if stats != nil {
		fmt.Fprintf(&sb, "\n⭐ %d XP · level %d · 🔥 %d days\n", stats.TotalXP, stats.Level, stats.Streak)
		fmt.Fprintf(&sb, "💡 %d facts · 📚 %d lessons · 🏆 %d badges\n",
			stats.CompletedFacts, stats.CompletedLessons, stats.BadgesCount)
	}
	sb.WriteString("\nUse <code>/profile Your Name</code> to change your name.")
	return sb.String()
}

func renderSettings(p entities.Preferences) string {
	tz := p.Timezone
	if tz == "" {
		tz = "UTC"
	}
	return fmt.Sprintf(
		"<b>⚙️ Settings</b>\n\n"+
			"🎯 <b>Learning mode:</b> %s\n"+
			"⏰ <b>Daily fact time:</b> %s\n"+
			"🌍 <b>Timezone:</b> %s\n"+
			"🔔 <b>Reminders:</b> %s\n",
		formatLearningMode(p.LearningMode),
		esc(p.DailyFactTime),
		esc(tz),
		formatBool(p.Notifications),
	)
}

func formatLearningMode(mode string) string {
	switch mode {
	case entities.LearningModeFacts:
		return "Daily facts"
	case entities.LearningModeCourses:
		return "Structured courses"
	default:
		return mode
	}
}
