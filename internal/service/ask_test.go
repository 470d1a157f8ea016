package service

import (
	"context"
	"errors"
	"testing"

	"github.com/aliskhannn/investnyou-bot/internal/apiclient"
	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
)

func TestAskRejectsEmptyQuestion(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, 1, nil)
	ask := NewAskService(env.api, env.auth, env.logger)

	if _, err := ask.Ask(context.Background(), 1, " \n\t"); !errors.Is(err, ErrEmptyQuestion) {
		t.Fatalf("want=%v got=%v", ErrEmptyQuestion, err)
	}

	answer, err := ask.Ask(context.Background(), 1, "  What is an ETF? ")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if answer.Answer != "re: What is an ETF?" {
		t.Fatalf("question not trimmed: %q", answer.Answer)
	}
}

func TestAskAvailable(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	ask := NewAskService(env.api, env.auth, env.logger)

	if !ask.Available(ctx, 1) {
		t.Fatal("status ok should be available")
	}

	env.api.statusErr = &apiclient.APIError{StatusCode: 503, Message: "Service Unavailable"}
	if !ask.Available(ctx, 1) {
		t.Fatal("failed status with healthy backend should be available")
	}

	env.api.healthErr = errors.New("down")
	if ask.Available(ctx, 1) {
		t.Fatal("failed status and failed health should be unavailable")
	}

	env.api.statusErr = apiclient.ErrNetwork
	env.api.healthErr = nil
	if ask.Available(ctx, 1) {
		t.Fatal("transport failure should be unavailable")
	}
}

func TestAskFallbacks(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, 1, nil)
	ask := NewAskService(env.api, env.auth, env.logger)

	if got := ask.Suggestions(context.Background()); len(got) != len(defaultSuggestions) {
		t.Fatalf("suggestions: want=%d got=%d", len(defaultSuggestions), len(got))
	}
	if got := ask.History(context.Background(), 1); got != nil {
		t.Fatalf("history on error should be empty, got %v", got)
	}
	if got := ask.Stats(context.Background(), 1); got != nil {
		t.Fatalf("stats on error should be nil, got %+v", got)
	}
}

func TestAskStats(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	ask := NewAskService(env.api, env.auth, env.logger)
	env.api.askStats = &entities.AskStats{TotalQuestions: 12, TodayQuestions: 3}

	if got := ask.Stats(ctx, 1); got != nil {
		t.Fatalf("logged out chat should get no stats, got %+v", got)
	}

	env.login(t, 1, nil)
	got := ask.Stats(ctx, 1)
	if got == nil || got.TotalQuestions != 12 || got.TodayQuestions != 3 {
		t.Fatalf("unexpected stats: %+v", got)
	}
}
