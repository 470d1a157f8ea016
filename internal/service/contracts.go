package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/aliskhannn/investnyou-bot/internal/apiclient"
	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/state"
)

// The backend interfaces below are satisfied by *apiclient.Client. Each
// service depends only on the endpoints it calls.

type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*apiclient.AuthResponse, error)
	Register(ctx context.Context, r apiclient.RegisterRequest) (*apiclient.AuthResponse, error)
	Guest(ctx context.Context, r apiclient.GuestRequest) (*apiclient.AuthResponse, error)
	Verify(ctx context.Context, token string) (*apiclient.VerifyResponse, error)
}

type ProgressAPI interface {
	GetProgress(ctx context.Context, token string) (*apiclient.RemoteProgress, error)
	AddXP(ctx context.Context, token string, amount int) (*entities.XPUpdate, error)
	AddBadge(ctx context.Context, token string, badge entities.Badge) error
	CompleteFact(ctx context.Context, token string, factID entities.ID) (*entities.XPUpdate, error)
	CompleteLesson(ctx context.Context, token string, lessonID entities.ID) (*entities.XPUpdate, error)
}

type LearningAPI interface {
	Courses(ctx context.Context, token string) ([]entities.Course, error)
	Course(ctx context.Context, token string, id entities.ID) (*entities.Course, error)
	Lesson(ctx context.Context, token string, courseID, lessonID entities.ID) (*entities.Lesson, error)
}

type FactsAPI interface {
	TodayFact(ctx context.Context, token string) (*entities.Fact, error)
	Facts(ctx context.Context, token string, page, limit int, category string) (*apiclient.FactPage, error)
	Fact(ctx context.Context, token string, id entities.ID) (*entities.Fact, error)
	CompletedFacts(ctx context.Context, token string, page, limit int) (*apiclient.FactPage, error)
	FactCategories(ctx context.Context) ([]string, error)
	SearchFacts(ctx context.Context, token, query string, page, limit int) (*apiclient.FactPage, error)
}

type QuizAPI interface {
	Quiz(ctx context.Context, token string, id entities.ID) (*entities.Quiz, error)
	SubmitQuiz(ctx context.Context, token string, id entities.ID, answers apiclient.Answers) (*entities.QuizResult, error)
	LessonQuizAttempts(ctx context.Context, token string, lessonID entities.ID) ([]entities.QuizAttempt, error)
}

type AskAPI interface {
	Ask(ctx context.Context, token, message string) (*entities.AskAnswer, error)
	AskHistory(ctx context.Context, token string, page, limit int) (*apiclient.AskHistory, error)
	AskSuggestions(ctx context.Context) ([]string, error)
	ClearAskHistory(ctx context.Context, token string) error
	AskStatus(ctx context.Context, token string) (bool, error)
	AskStats(ctx context.Context, token string) (*entities.AskStats, error)
	Health(ctx context.Context) error
}

type PortfolioAPI interface {
	Holdings(ctx context.Context, token string) (*apiclient.HoldingsResponse, error)
	ValueHistory(ctx context.Context, token string, days int) ([]entities.ValuePoint, error)
	Buy(ctx context.Context, token, symbol string, qty, price decimal.Decimal) (*apiclient.TradeResponse, error)
	Sell(ctx context.Context, token, symbol string, qty, price decimal.Decimal) (*apiclient.TradeResponse, error)
	Transactions(ctx context.Context, token string, page, limit int) (*apiclient.TransactionPage, error)
}

type MarketAPI interface {
	StockPrice(ctx context.Context, symbol string) (*entities.Stock, error)
	Stock(ctx context.Context, symbol string) (*entities.Stock, error)
	SearchStocks(ctx context.Context, query string, limit int) ([]entities.Stock, error)
	StockHistory(ctx context.Context, symbol string, days int) ([]entities.PricePoint, error)
	Trending(ctx context.Context, direction string, limit int) ([]entities.Stock, error)
	MarketOverview(ctx context.Context) (*entities.MarketOverview, error)
}

type WatchlistAPI interface {
	WatchlistWithPrices(ctx context.Context, token string) ([]entities.WatchlistItem, error)
	AddToWatchlist(ctx context.Context, token, symbol, name string, price decimal.Decimal) error
	RemoveFromWatchlist(ctx context.Context, token, symbol string) error
}

// QuoteCache remembers recent prices. A miss is ok=false with a nil error.
type QuoteCache interface {
	Get(ctx context.Context, symbol string) (decimal.Decimal, bool, error)
	Set(ctx context.Context, symbol string, price decimal.Decimal) error
}

// SessionLister pages through chats that hold a bearer token.
type SessionLister interface {
	ListAuthenticated(ctx context.Context, limit, offset int) ([]*state.Session, error)
}

// ReminderNotifier sends the daily fact to a chat and returns the message id.
type ReminderNotifier interface {
	SendDailyFact(chatID int64, fact *entities.Fact) (int, error)
	DeleteMessage(chatID int64, messageID int) error
}
