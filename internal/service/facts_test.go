package service

import (
	"context"
	"errors"
	"testing"

	"github.com/aliskhannn/investnyou-bot/internal/apiclient"
	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/state"
)

func TestTodayFallsBack(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.login(t, 1, nil)
	facts := NewFactsService(env.api, env.auth, env.sessions, env.logger)

	env.api.todayErr = &apiclient.APIError{StatusCode: 500, Message: "Internal Server Error"}
	fact, stale, err := facts.Today(ctx, 1)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if !stale || fact.ID != entities.FallbackFact().ID {
		t.Fatalf("want built-in fallback, got stale=%v id=%q", stale, fact.ID)
	}

	env.api.todayErr = nil
	env.api.today = &entities.Fact{ID: "f7", Title: "Budgeting", CanCompleteToday: true}
	if _, stale, err = facts.Today(ctx, 1); err != nil || stale {
		t.Fatalf("fresh fact: stale=%v err=%v", stale, err)
	}

	env.api.todayErr = apiclient.ErrNetwork
	fact, stale, err = facts.Today(ctx, 1)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if !stale || fact.ID != "f7" {
		t.Fatalf("want cached fact, got stale=%v id=%q", stale, fact.ID)
	}
}

func TestTodayMarksCompleted(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.login(t, 1, func(st *state.AppState) { st.CompleteFact("f7") })
	env.api.today = &entities.Fact{ID: "f7"}
	facts := NewFactsService(env.api, env.auth, env.sessions, env.logger)

	fact, _, err := facts.Today(ctx, 1)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if !fact.IsCompleted {
		t.Fatal("fact completed earlier should be flagged")
	}
}

func TestTodayUnauthorized(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.login(t, 1, nil)
	env.api.todayErr = errUnauthorized
	facts := NewFactsService(env.api, env.auth, env.sessions, env.logger)

	if _, _, err := facts.Today(ctx, 1); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("want=%v got=%v", ErrSessionExpired, err)
	}
	if env.auth.IsAuthenticated(ctx, 1) {
		t.Fatal("chat should be logged out after 401")
	}
}
