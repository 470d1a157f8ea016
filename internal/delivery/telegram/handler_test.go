package telegram

import (
	"context"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/investnyou-bot/internal/service"
	"github.com/aliskhannn/investnyou-bot/internal/state"
	"github.com/aliskhannn/investnyou-bot/internal/storage"
)

const testChatID int64 = 42

// fakeBot records what the handler sends.
type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests int
	nextID   int
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, c)
	b.nextID++
	return tgbotapi.Message{MessageID: b.nextID}, nil
}

func (b *fakeBot) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}

// lastText returns the text of the last message or edit.
func (b *fakeBot) lastText(t *testing.T) string {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.sent) == 0 {
		t.Fatal("nothing was sent")
	}
	switch c := b.sent[len(b.sent)-1].(type) {
	case tgbotapi.MessageConfig:
		return c.Text
	case tgbotapi.EditMessageTextConfig:
		return c.Text
	default:
		t.Fatalf("unexpected chattable %T", c)
	}
	return ""
}

func (b *fakeBot) lastIsEdit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.sent) == 0 {
		return false
	}
	_, ok := b.sent[len(b.sent)-1].(tgbotapi.EditMessageTextConfig)
	return ok
}

type testEnv struct {
	h        *Handler
	bot      *fakeBot
	sessions *state.Manager
	pending  *storage.PendingStorage
}

func newTestHandler() *testEnv {
	logger := zap.NewNop()
	store := storage.NewSessionStorage()
	sessions := state.NewManager(store)
	pending := storage.NewPendingStorage()
	quizzes := storage.NewQuizStorage()

	authSvc := service.NewAuthService(nil, sessions, store, logger)

	svc := Services{
		Auth:     authSvc,
		Quiz:     service.NewQuizService(nil, authSvc, sessions, quizzes, logger),
		Settings: service.NewSettingsService(sessions),
		User:     service.NewUserService(nil, authSvc, sessions),
		Reset:    service.NewResetService(sessions, logger, pending, quizzes),
	}

	bot := &fakeBot{}
	return &testEnv{
		h:        NewHandler(bot, logger, svc, sessions, pending),
		bot:      bot,
		sessions: sessions,
		pending:  pending,
	}
}

func commandUpdate(text string) tgbotapi.Update {
	n := len(text)
	for i, r := range text {
		if r == ' ' {
			n = i
			break
		}
	}
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text:     text,
			Chat:     &tgbotapi.Chat{ID: testChatID},
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: n}},
		},
	}
}

func textUpdate(text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text: text,
			Chat: &tgbotapi.Chat{ID: testChatID},
		},
	}
}

func callbackUpdate(data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb",
			From: &tgbotapi.User{ID: testChatID},
			Data: data,
			Message: &tgbotapi.Message{
				MessageID: 10,
				Chat:      &tgbotapi.Chat{ID: testChatID},
			},
		},
	}
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"help", "/help", msgHelp},
		{"unknown", "/frobnicate", msgUnknownCommand},
		{"dashboard requires login", "/dashboard", msgNotAuthenticated},
		{"progress requires login", "/progress", msgNotAuthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestHandler()
			env.h.handleUpdate(context.Background(), commandUpdate(tt.in))

			if got := env.bot.lastText(t); got != tt.want {
				t.Fatalf("want=%q got=%q", tt.want, got)
			}
		})
	}
}

func TestStartShowsWelcome(t *testing.T) {
	env := newTestHandler()
	env.h.handleUpdate(context.Background(), commandUpdate("/start"))

	if got := env.bot.lastText(t); got != StepWelcome.Message() {
		t.Fatalf("want welcome got=%q", got)
	}
}

func TestTextWithoutPrompt(t *testing.T) {
	env := newTestHandler()
	env.h.handleUpdate(context.Background(), textUpdate("hello"))

	if got := env.bot.lastText(t); got != msgUnknownText {
		t.Fatalf("want=%q got=%q", msgUnknownText, got)
	}
}

func TestOnboardingCallbacks(t *testing.T) {
	ctx := context.Background()
	env := newTestHandler()

	env.h.handleUpdate(ctx, callbackUpdate(buildOnboardingBeginCallback()))
	if got := env.bot.lastText(t); got != StepLearningMode.Message() {
		t.Fatalf("begin: got=%q", got)
	}

	env.h.handleUpdate(ctx, callbackUpdate("onb:mode:courses"))
	if got := env.bot.lastText(t); got != StepDailyTime.Message() {
		t.Fatalf("mode: got=%q", got)
	}

	env.h.handleUpdate(ctx, callbackUpdate("onb:time:0730"))
	if got := env.bot.lastText(t); got != StepAccount.Message() {
		t.Fatalf("time: got=%q", got)
	}
	if !env.bot.lastIsEdit() {
		t.Fatal("onboarding steps should edit the callback message")
	}
	if env.bot.requests != 3 {
		t.Fatalf("callbacks answered: want=3 got=%d", env.bot.requests)
	}

	st, err := env.sessions.Load(ctx, testChatID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.Preferences.LearningMode != "courses" || st.Preferences.DailyFactTime != "07:30" {
		t.Fatalf("unexpected preferences: %+v", st.Preferences)
	}
}

func TestLoginRejectsBadEmail(t *testing.T) {
	env := newTestHandler()
	ctx := context.Background()

	env.h.handleUpdate(ctx, commandUpdate("/login"))
	env.h.handleUpdate(ctx, textUpdate("not-an-email"))

	if got := env.bot.lastText(t); got != msgInvalidEmail {
		t.Fatalf("want=%q got=%q", msgInvalidEmail, got)
	}
	if p, ok := env.pending.Get(testChatID); !ok || p.Kind != storage.InputLoginEmail {
		t.Fatalf("email prompt should stay active: %+v ok=%v", p, ok)
	}
}

func TestTimezoneInput(t *testing.T) {
	ctx := context.Background()
	env := newTestHandler()

	env.h.handleUpdate(ctx, callbackUpdate(buildSettingsCallback(settingsTimezone)))
	env.h.handleUpdate(ctx, textUpdate("Mars"))
	if got := env.bot.lastText(t); got != msgInvalidTimezone {
		t.Fatalf("want=%q got=%q", msgInvalidTimezone, got)
	}

	env.h.handleUpdate(ctx, textUpdate("UTC+3"))

	st, _ := env.sessions.Load(ctx, testChatID)
	if st.Preferences.Timezone != "UTC+3" {
		t.Fatalf("timezone: want=%q got=%q", "UTC+3", st.Preferences.Timezone)
	}
	if _, ok := env.pending.Get(testChatID); ok {
		t.Fatal("prompt should be cleared after a valid timezone")
	}
}

func TestCommandClearsPrompt(t *testing.T) {
	ctx := context.Background()
	env := newTestHandler()

	env.h.handleUpdate(ctx, callbackUpdate(buildSettingsCallback(settingsTimezone)))
	env.h.handleUpdate(ctx, commandUpdate("/help"))

	if _, ok := env.pending.Get(testChatID); ok {
		t.Fatal("a command should abandon the pending prompt")
	}
}

func TestResetConfirm(t *testing.T) {
	ctx := context.Background()
	env := newTestHandler()

	if err := env.sessions.SetToken(ctx, testChatID, "tok"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	env.pending.Expect(testChatID, storage.InputAskQuestion)

	env.h.handleUpdate(ctx, callbackUpdate(buildResetConfirmCallback()))

	if tok, _ := env.sessions.Token(ctx, testChatID); tok != "" {
		t.Fatalf("token survived reset: %q", tok)
	}
	if _, ok := env.pending.Get(testChatID); ok {
		t.Fatal("pending prompt survived reset")
	}
}

func TestDeleteAccountFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("requires login", func(t *testing.T) {
		env := newTestHandler()
		env.h.handleUpdate(ctx, commandUpdate("/deleteaccount"))
		if got := env.bot.lastText(t); got != msgNotAuthenticated {
			t.Fatalf("want=%q got=%q", msgNotAuthenticated, got)
		}
	})

	t.Run("cancel keeps the session", func(t *testing.T) {
		env := newTestHandler()
		if err := env.sessions.SetToken(ctx, testChatID, "tok"); err != nil {
			t.Fatalf("set token: %v", err)
		}

		env.h.handleUpdate(ctx, callbackUpdate(buildDeleteAccountCancelCallback()))

		if got := env.bot.lastText(t); got != msgDeleteAccountCancelled {
			t.Fatalf("want=%q got=%q", msgDeleteAccountCancelled, got)
		}
		if tok, _ := env.sessions.Token(ctx, testChatID); tok != "tok" {
			t.Fatalf("token: want=%q got=%q", "tok", tok)
		}
	})

	t.Run("confirm without login", func(t *testing.T) {
		env := newTestHandler()
		env.h.handleUpdate(ctx, callbackUpdate(buildDeleteAccountConfirmCallback()))
		if got := env.bot.lastText(t); got != msgNotAuthenticated {
			t.Fatalf("want=%q got=%q", msgNotAuthenticated, got)
		}
	})
}

func TestQuizNavWithoutQuiz(t *testing.T) {
	env := newTestHandler()
	env.h.handleUpdate(context.Background(), callbackUpdate(buildQuizNavCallback(quizNext)))

	if got := env.bot.lastText(t); got != msgNoActiveQuiz {
		t.Fatalf("want=%q got=%q", msgNoActiveQuiz, got)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	env := newTestHandler()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := env.h.Run(ctx); err != context.Canceled {
		t.Fatalf("want context.Canceled got=%v", err)
	}
}
