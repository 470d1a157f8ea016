package telegram

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/investnyou-bot/internal/apiclient"
	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/service"
)

// dailyTimeOptions are offered for the daily fact reminder.
var dailyTimeOptions = []string{"07:00", "08:00", "09:00", "12:00", "18:00", "21:00"}

// maxButtonLabel keeps long titles readable on phones.
const maxButtonLabel = 48

func button(text, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(shorten(text, maxButtonLabel), data)
}

// shorten cuts s to n runes.
func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// buildPageKeyboard builds prev/next pagination. nil when there is one page.
func buildPageKeyboard(page, totalPages int, pageData func(page int) string) []tgbotapi.InlineKeyboardButton {
	if totalPages <= 1 {
		return nil
	}
	if page < 1 {
		page = 1
	}

	var row []tgbotapi.InlineKeyboardButton
	if page > 1 {
		row = append(row, button("◀️ Prev", pageData(page-1)))
	}
	row = append(row, button(fmt.Sprintf("%d / %d", page, totalPages), pageData(page)))
	if page < totalPages {
		row = append(row, button("Next ▶️", pageData(page+1)))
	}
	return row
}

func buildMainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("💡 Today's fact", buildFactTodayCallback()),
			button("📚 Learn", buildCoursesCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			button("🤖 Ask AI", buildAskCallback()),
			button("💼 Portfolio", buildPortfolioCallback(portfolioView)),
		),
		tgbotapi.NewInlineKeyboardRow(
			button("📊 Progress", buildProgressCallback()),
			button("⚙️ Settings", buildSettingsCallback(settingsMenu)),
		),
	)
}

func buildWelcomeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("Get started 🚀", buildOnboardingBeginCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			button("I already have an account", buildOnboardingAccountCallback(accountLogin)),
		),
	)
}

func buildLearningModeKeyboard(callback func(mode string) string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("💡 Daily facts", callback(entities.LearningModeFacts)),
		),
		tgbotapi.NewInlineKeyboardRow(
			button("📚 Structured courses", callback(entities.LearningModeCourses)),
		),
	)
}

func buildDailyTimeKeyboard(callback func(clock string) string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, t := range dailyTimeOptions {
		row = append(row, button(t, callback(t)))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildAccountKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("👤 Continue as guest", buildOnboardingAccountCallback(accountGuest)),
		),
		tgbotapi.NewInlineKeyboardRow(
			button("📝 Create account", buildOnboardingAccountCallback(accountSignup)),
			button("🔑 Log in", buildOnboardingAccountCallback(accountLogin)),
		),
	)
}

func buildFactKeyboard(f *entities.Fact) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	if f != nil && !f.IsCompleted && f.ID != entities.FallbackFact().ID {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			button(fmt.Sprintf("✅ Mark as read (+%d XP)", f.XPValue), buildFactCompleteCallback(f.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		button("📖 More facts", buildFactPageCallback(1, "")),
		button("🏠 Dashboard", buildDashboardCallback()),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildFactListKeyboard(page *apiclient.FactPage, category string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, f := range page.Facts {
		label := f.Title
		if f.IsCompleted {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(label, buildFactOpenCallback(f.ID))))
	}

	nav := buildPageKeyboard(page.Pagination.Page, page.Pagination.TotalPages, func(p int) string {
		return buildFactPageCallback(p, category)
	})
	if nav != nil {
		rows = append(rows, nav)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button("🔎 Search", buildFactSearchCallback())))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildCoursesKeyboard(courses []entities.Course) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button("📘 "+c.Title, buildCourseCallback(c.ID))))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildCourseKeyboard(c *entities.Course) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, u := range c.Units {
		for _, l := range u.Lessons {
			mark := "▫️ "
			if l.IsCompleted {
				mark = "✅ "
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(mark+l.Title, buildLessonCallback(c.ID, l.ID))))
		}
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button("⬅️ All courses", buildCoursesCallback())))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildLessonKeyboard(v *service.LessonView) tgbotapi.InlineKeyboardMarkup {
	courseID := v.Course.ID

	var rows [][]tgbotapi.InlineKeyboardButton
	if v.QuizID() != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button("📝 Take the quiz", buildQuizStartCallback(courseID, v.Lesson.ID))))
	} else if !v.Lesson.IsCompleted {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			button(fmt.Sprintf("✅ Complete (+%d XP)", v.Lesson.XPValue), buildLessonDoneCallback(courseID, v.Lesson.ID)),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if v.PrevID != "" {
		nav = append(nav, button("◀️ Previous", buildLessonCallback(courseID, v.PrevID)))
	}
	if v.NextID != "" {
		nav = append(nav, button("Next ▶️", buildLessonCallback(courseID, v.NextID)))
	}
	if nav != nil {
		rows = append(rows, nav)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button("⬅️ Course", buildCourseCallback(courseID))))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildQuizKeyboard shows the options of the current question, a numbered
// row to jump between questions and the navigation controls.
func buildQuizKeyboard(s *entities.QuizSession) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	q, ok := s.Question()
	if ok && !q.Type.IsFreeText() {
		chosen, answered := s.Choices[q.ID]
		for i, opt := range q.Options {
			label := fmt.Sprintf("%c. %s", 'A'+i, opt)
			if answered && chosen == i {
				label = "✅ " + label
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(label, buildQuizAnswerCallback(s.Current, i))))
		}
	}

	if s.Total() > 1 {
		var row []tgbotapi.InlineKeyboardButton
		for i, qq := range s.Quiz.Questions {
			label := strconv.Itoa(i + 1)
			switch {
			case i == s.Current:
				label = "• " + label + " •"
			case s.IsAnswered(qq):
				label = "✓" + label
			}
			row = append(row, button(label, buildQuizGoToCallback(i)))
			if len(row) == 5 {
				rows = append(rows, row)
				row = nil
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}

	var nav []tgbotapi.InlineKeyboardButton
	if s.Current > 0 {
		nav = append(nav, button("◀️ Back", buildQuizNavCallback(quizPrev)))
	}
	if s.IsLast() {
		nav = append(nav, button("📨 Submit", buildQuizNavCallback(quizSubmit)))
	} else {
		nav = append(nav, button("Next ▶️", buildQuizNavCallback(quizNext)))
	}
	rows = append(rows, nav)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button("✖️ Cancel quiz", buildQuizNavCallback(quizCancel))))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildQuizResultKeyboard(courseID, lessonID entities.ID, passed bool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	if !passed {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button("🔄 Try again", buildQuizStartCallback(courseID, lessonID))))
	}
	if courseID != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button("📘 Back to course", buildCourseCallback(courseID))))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button("📊 My progress", buildProgressCallback())))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildProgressKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("🔄 Refresh", buildProgressCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			button("📚 Continue learning", buildCoursesCallback()),
			button("🏠 Dashboard", buildDashboardCallback()),
		),
	)
}

func buildPortfolioKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("🔄 Refresh", buildPortfolioCallback(portfolioView)),
			button("🧾 Transactions", buildTransactionsCallback(1)),
		),
		tgbotapi.NewInlineKeyboardRow(
			button("📈 Chart", buildPortfolioCallback(portfolioChart)),
			button("📤 Export", buildPortfolioCallback(portfolioExport)),
		),
		tgbotapi.NewInlineKeyboardRow(
			button("👀 Watchlist", buildWatchCallback(watchList, "")),
		),
	)
}

func buildTransactionsKeyboard(page, totalPages int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	if nav := buildPageKeyboard(page, totalPages, buildTransactionsCallback); nav != nil {
		rows = append(rows, nav)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button("💼 Portfolio", buildPortfolioCallback(portfolioView))))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildStockKeyboard(symbol string, watched bool) tgbotapi.InlineKeyboardMarkup {
	watch := button("👀 Watch", buildWatchCallback(watchAdd, symbol))
	if watched {
		watch = button("🙈 Unwatch", buildWatchCallback(watchRemove, symbol))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("🔄 Refresh", buildStockCallback(symbol)),
			watch,
		),
	)
}

func buildStockListKeyboard(stocks []entities.Stock) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, s := range stocks {
		row = append(row, button(s.Symbol, buildStockCallback(s.Symbol)))
		if len(row) == 4 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildWatchlistKeyboard(items []entities.WatchlistItem) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(items))
	for _, it := range items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			button("📈 "+it.Symbol, buildStockCallback(it.Symbol)),
			button("🗑", buildWatchCallback(watchRemove, it.Symbol)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildAskKeyboard(suggestions []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(suggestions))
	for i, s := range suggestions {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button("💬 "+s, buildAskSuggestionCallback(i))))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildAnswerKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("❓ Ask another", buildAskCallback()),
			button("🏠 Dashboard", buildDashboardCallback()),
		),
	)
}

func buildSettingsKeyboard(p entities.Preferences) tgbotapi.InlineKeyboardMarkup {
	notif := "🔔 Turn reminders off"
	if !p.Notifications {
		notif = "🔕 Turn reminders on"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("🎯 Learning mode", buildSettingsCallback(settingsLearningMode)),
		),
		tgbotapi.NewInlineKeyboardRow(
			button("⏰ Daily fact time", buildSettingsCallback(settingsDailyTime)),
			button("🌍 Timezone", buildSettingsCallback(settingsTimezone)),
		),
		tgbotapi.NewInlineKeyboardRow(
			button(notif, buildSettingsCallback(settingsNotifications)),
		),
	)
}

func buildProfileKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("✏️ Change name", buildProfileNameCallback()),
			button("📊 Progress", buildProgressCallback()),
		),
	)
}

func buildDeleteAccountKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("🗑 Delete my account", buildDeleteAccountConfirmCallback()),
			button("Cancel", buildDeleteAccountCancelCallback()),
		),
	)
}

func buildResetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("⚠️ Yes, reset", buildResetConfirmCallback()),
			button("Cancel", buildResetCancelCallback()),
		),
	)
}
