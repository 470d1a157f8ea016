package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/aliskhannn/investnyou-bot/internal/apiclient"
	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/state"
	"github.com/aliskhannn/investnyou-bot/internal/storage"
)

var (
	errUnauthorized = &apiclient.APIError{StatusCode: 401, Message: "Unauthorized"}
	errNotFound     = &apiclient.APIError{StatusCode: 404, Message: "Not Found"}
)

func testToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

// fakeAPI implements every backend interface with canned responses.
type fakeAPI struct {
	mu sync.Mutex

	authResp  *apiclient.AuthResponse
	authErr   error
	verify    map[string]error // token -> error, nil means valid
	progress  *apiclient.RemoteProgress
	xpUpdate  *entities.XPUpdate
	xpErr     error
	today     *entities.Fact
	todayErr  error
	quiz      *entities.Quiz
	quizErr   error
	result    *entities.QuizResult
	submitted apiclient.Answers
	askErr    error
	askStats  *entities.AskStats
	deleteErr error
	deleted   []string
	statusErr error
	healthErr error
	holdings  *apiclient.HoldingsResponse
	trade     *apiclient.TradeResponse
	prices    map[string]decimal.Decimal
	priceHits int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		verify: make(map[string]error),
		prices: make(map[string]decimal.Decimal),
	}
}

func (f *fakeAPI) Login(context.Context, string, string) (*apiclient.AuthResponse, error) {
	return f.authResp, f.authErr
}

func (f *fakeAPI) Register(context.Context, apiclient.RegisterRequest) (*apiclient.AuthResponse, error) {
	return f.authResp, f.authErr
}

func (f *fakeAPI) Guest(context.Context, apiclient.GuestRequest) (*apiclient.AuthResponse, error) {
	return f.authResp, f.authErr
}

func (f *fakeAPI) Verify(_ context.Context, token string) (*apiclient.VerifyResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.verify[token]; err != nil {
		return nil, err
	}
	return &apiclient.VerifyResponse{Valid: true}, nil
}

func (f *fakeAPI) GetProgress(context.Context, string) (*apiclient.RemoteProgress, error) {
	return f.progress, nil
}

func (f *fakeAPI) AddXP(_ context.Context, _ string, amount int) (*entities.XPUpdate, error) {
	return &entities.XPUpdate{Success: true, XPEarned: amount}, nil
}

func (f *fakeAPI) AddBadge(context.Context, string, entities.Badge) error { return nil }

func (f *fakeAPI) CompleteFact(context.Context, string, entities.ID) (*entities.XPUpdate, error) {
	return f.xpUpdate, f.xpErr
}

func (f *fakeAPI) CompleteLesson(context.Context, string, entities.ID) (*entities.XPUpdate, error) {
	return f.xpUpdate, f.xpErr
}

func (f *fakeAPI) TodayFact(context.Context, string) (*entities.Fact, error) {
	if f.todayErr != nil {
		return nil, f.todayErr
	}
	fact := *f.today
	return &fact, nil
}

func (f *fakeAPI) Facts(context.Context, string, int, int, string) (*apiclient.FactPage, error) {
	return &apiclient.FactPage{}, nil
}

func (f *fakeAPI) Fact(context.Context, string, entities.ID) (*entities.Fact, error) {
	return f.today, nil
}

func (f *fakeAPI) CompletedFacts(context.Context, string, int, int) (*apiclient.FactPage, error) {
	return &apiclient.FactPage{}, nil
}

func (f *fakeAPI) FactCategories(context.Context) ([]string, error) {
	return []string{"saving", "investing"}, nil
}

func (f *fakeAPI) SearchFacts(context.Context, string, string, int, int) (*apiclient.FactPage, error) {
	return &apiclient.FactPage{}, nil
}

func (f *fakeAPI) Quiz(context.Context, string, entities.ID) (*entities.Quiz, error) {
	if f.quizErr != nil {
		return nil, f.quizErr
	}
	q := *f.quiz
	q.Questions = append([]entities.Question(nil), f.quiz.Questions...)
	return &q, nil
}

func (f *fakeAPI) SubmitQuiz(_ context.Context, _ string, _ entities.ID, answers apiclient.Answers) (*entities.QuizResult, error) {
	f.submitted = answers
	return f.result, nil
}

func (f *fakeAPI) LessonQuizAttempts(context.Context, string, entities.ID) ([]entities.QuizAttempt, error) {
	return nil, nil
}

func (f *fakeAPI) Ask(_ context.Context, _ string, message string) (*entities.AskAnswer, error) {
	if f.askErr != nil {
		return nil, f.askErr
	}
	return &entities.AskAnswer{ID: "1", Answer: "re: " + message}, nil
}

func (f *fakeAPI) AskHistory(context.Context, string, int, int) (*apiclient.AskHistory, error) {
	return nil, errNotFound
}

func (f *fakeAPI) AskSuggestions(context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakeAPI) ClearAskHistory(context.Context, string) error { return nil }

func (f *fakeAPI) AskStats(context.Context, string) (*entities.AskStats, error) {
	if f.askStats == nil {
		return nil, errNotFound
	}
	return f.askStats, nil
}

func (f *fakeAPI) AskStatus(context.Context, string) (bool, error) {
	if f.statusErr != nil {
		return false, f.statusErr
	}
	return true, nil
}

func (f *fakeAPI) Health(context.Context) error { return f.healthErr }

func (f *fakeAPI) Profile(context.Context, string) (*entities.User, error) {
	return &entities.User{ID: "u1", Name: "Ada"}, nil
}

func (f *fakeAPI) UpdateProfile(_ context.Context, _ string, p apiclient.ProfileUpdate) (*entities.User, error) {
	return &entities.User{ID: "u1", Name: p.Name}, nil
}

func (f *fakeAPI) UserStats(context.Context, string) (*entities.UserStats, error) {
	return &entities.UserStats{}, nil
}

func (f *fakeAPI) DeleteAccount(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, token)
	return nil
}

func (f *fakeAPI) Holdings(context.Context, string) (*apiclient.HoldingsResponse, error) {
	return f.holdings, nil
}

func (f *fakeAPI) ValueHistory(context.Context, string, int) ([]entities.ValuePoint, error) {
	return nil, nil
}

func (f *fakeAPI) Buy(context.Context, string, string, decimal.Decimal, decimal.Decimal) (*apiclient.TradeResponse, error) {
	return f.trade, nil
}

func (f *fakeAPI) Sell(context.Context, string, string, decimal.Decimal, decimal.Decimal) (*apiclient.TradeResponse, error) {
	return f.trade, nil
}

func (f *fakeAPI) Transactions(context.Context, string, int, int) (*apiclient.TransactionPage, error) {
	return &apiclient.TransactionPage{}, nil
}

func (f *fakeAPI) StockPrice(_ context.Context, symbol string) (*entities.Stock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.priceHits++
	price, ok := f.prices[symbol]
	if !ok {
		return nil, errNotFound
	}
	return &entities.Stock{Symbol: symbol, Name: symbol + " Inc.", Price: price}, nil
}

// mapCache is an in-memory QuoteCache.
type mapCache struct {
	mu sync.Mutex
	m  map[string]decimal.Decimal
}

func (c *mapCache) Get(_ context.Context, symbol string) (decimal.Decimal, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.m[symbol]
	return p, ok, nil
}

func (c *mapCache) Set(_ context.Context, symbol string, price decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m == nil {
		c.m = make(map[string]decimal.Decimal)
	}
	c.m[symbol] = price
	return nil
}

type testEnv struct {
	api      *fakeAPI
	store    *storage.SessionStorage
	sessions *state.Manager
	auth     *AuthService
	logger   *zap.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	api := newFakeAPI()
	store := storage.NewSessionStorage()
	sessions := state.NewManager(store)
	logger := zap.NewNop()

	return &testEnv{
		api:      api,
		store:    store,
		sessions: sessions,
		auth:     NewAuthService(api, sessions, store, logger),
		logger:   logger,
	}
}

// login stores a valid token and applies fn to the chat state.
func (e *testEnv) login(t *testing.T, chatID int64, fn func(st *state.AppState)) string {
	t.Helper()
	ctx := context.Background()
	tok := testToken(t, time.Now().Add(time.Hour))
	if err := e.sessions.SetToken(ctx, chatID, tok); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if fn != nil {
		if _, err := e.sessions.Update(ctx, chatID, func(st *state.AppState) error {
			fn(st)
			return nil
		}); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	return tok
}
