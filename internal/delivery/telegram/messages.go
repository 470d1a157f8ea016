// messages.go contains message templates for Telegram.

package telegram

// Error messages.
const (
	msgSessionExpired         = "🔒 Session expired. Please login again.\n\nUse /login or /guest to continue."
	msgNotAuthenticated       = "🔒 Please sign in first. Use /start to set up your account, /login or /guest."
	msgOneFactPerDay          = "⏳ You can only complete one fact per day! Come back tomorrow."
	msgLessonAlreadyCompleted = "✅ Lesson already completed"
	msgFactAlreadyRead        = "✅ You've already read this fact."
	msgQuizNotFound           = "❌ Quiz not found"
	msgNoActiveQuiz           = "There is no quiz in progress. Open a lesson with /learn to start one."
	msgInsufficientBalance    = "💸 Insufficient balance!"
	msgInvalidPrice           = "❌ Invalid stock price"
	msgInsufficientShares     = "❌ You don't own enough shares to sell."
	msgInvalidQuantity        = "❌ Quantity must be a positive number."
	msgInvalidSymbol          = "❌ Invalid stock symbol."
	msgPortfolioLocked        = "🔒 Complete 2 lessons in /learn to unlock the practice portfolio."
	msgEmptyQuestion          = "Please type a question."
	msgLessonNotFound         = "❌ Lesson not found"
	msgInvalidEmail           = "❌ Please enter a valid email address."
	msgWeakPassword           = "❌ Password must be at least 6 characters."
	msgInvalidName            = "❌ Name must be 1 to 50 characters."
	msgInvalidClock           = "❌ Use the HH:MM format, for example 08:30."
	msgInvalidTimezone        = "❌ Unknown timezone. Try a name like Europe/London or an offset like UTC+3."
	msgInvalidLearningMode    = "❌ Pick one of the offered learning modes."
	msgServerUnreachable      = "📡 Can't reach the server right now. Please try again later."
	msgNotFound               = "❌ Not found."
	msgInternalError          = "Something went wrong. Please try again later."
	msgUnknownCommand         = "Unknown command. Use /help to see what I can do."
	msgUnknownText            = "I didn't get that. Use /help to see the commands, or /ask to ask a question."
)

// Usage hints.
const (
	msgUseBuy      = "Use: <code>/buy AAPL 5</code>"
	msgUseSell     = "Use: <code>/sell AAPL 5</code>"
	msgUseStock    = "Use: <code>/stock AAPL</code>"
	msgUseWatch    = "Use: <code>/watch AAPL</code>"
	msgUseUnwatch  = "Use: <code>/unwatch AAPL</code>"
	msgAskPrompt   = "🤖 What would you like to know about money? Type your question."
	msgSearchFacts = "🔎 Type a word to search the facts."
	msgSearchStock = "🔎 Type a company name or ticker."
)

// Account deletion.
const (
	msgDeleteAccountConfirm   = "⚠️ <b>Delete your account?</b>\n\nYour XP, progress, portfolio and question history are removed from the server. This cannot be undone."
	msgDeleteAccountCancelled = "Account deletion cancelled."
	msgAccountDeleted         = "🗑 Your account was deleted. Send /start to begin again."
)

const msgHelp = `<b>InvestNYou</b> helps you learn money basics one step at a time.

<b>Account</b>
/start - set up or open the dashboard
/login, /signup, /guest, /logout
/profile - your profile and stats

<b>Learn</b>
/dashboard - level, streak and today's fact
/fact - fact of the day
/facts [category|read] - browse facts
/search &lt;word&gt; - search facts
/learn - courses, lessons and quizzes
/progress - XP, level and badges
/sync - pull progress from the server
/recover - restore XP from the backup copy

<b>Ask</b>
/ask [question] - ask the AI assistant
/history, /clearhistory

<b>Practice portfolio</b>
/portfolio, /buy SYM QTY, /sell SYM QTY
/chart [SYM], /transactions, /export

<b>Market</b>
/stock SYM, /stocks &lt;query&gt;, /trending, /market
/watchlist, /watch SYM, /unwatch SYM

/settings - learning mode, daily fact time, timezone
/reset - forget this chat
/deleteaccount - delete your server account`
