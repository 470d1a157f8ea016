package service

import (
	"context"
	"errors"
	"testing"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/storage"
)

func newQuizEnv(t *testing.T) (*testEnv, *QuizService, *storage.QuizStorage) {
	t.Helper()
	env := newTestEnv(t)
	env.login(t, 1, nil)
	env.api.quiz = &entities.Quiz{
		ID: "q1",
		Questions: []entities.Question{
			{Question: "Diversification means?", Options: []string{"one stock", "many assets"}},
			{Question: "Explain compound interest", Type: entities.QuestionFreeResponse},
			{Question: "An ETF is?", Options: []string{"a fund", "a loan"}},
		},
	}
	store := storage.NewQuizStorage()
	return env, NewQuizService(env.api, env.auth, env.sessions, store, env.logger), store
}

func TestQuizSubmitMissingAnswers(t *testing.T) {
	ctx := context.Background()
	_, quiz, _ := newQuizEnv(t)

	if _, err := quiz.Start(ctx, 1, "c1", "l1", "q1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := quiz.Choose(1, 0, 1); err != nil {
		t.Fatalf("choose: %v", err)
	}
	if _, err := quiz.GoTo(1, 2); err != nil {
		t.Fatalf("goto: %v", err)
	}

	_, err := quiz.Submit(ctx, 1)
	var missing *MissingAnswersError
	if !errors.As(err, &missing) {
		t.Fatalf("want MissingAnswersError, got %v", err)
	}

	want := "Please answer all questions before submitting. Missing: Questions 2, 3"
	if missing.Error() != want {
		t.Fatalf("message: want=%q got=%q", want, missing.Error())
	}

	session, _ := quiz.Current(1)
	if session.Current != 1 {
		t.Fatalf("cursor: want=1 got=%d", session.Current)
	}
}

func TestQuizSubmitPassed(t *testing.T) {
	ctx := context.Background()
	env, quiz, store := newQuizEnv(t)
	env.api.result = &entities.QuizResult{Score: 100, Passed: true, XPEarned: 60}

	if _, err := quiz.Start(ctx, 1, "c1", "l1", "q1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, _ = quiz.Choose(1, 0, 1)
	_, _ = quiz.GoTo(1, 1)
	if _, err := quiz.Write(1, "  interest on interest  "); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, _ = quiz.Choose(1, 2, 0)

	out, err := quiz.Submit(ctx, 1)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if env.api.submitted["1"] != 1 || env.api.submitted["2"] != "interest on interest" || env.api.submitted["3"] != 0 {
		t.Fatalf("unexpected answers: %v", env.api.submitted)
	}
	if !out.LeveledUp || out.State.Progress.XP != 60 {
		t.Fatalf("unexpected outcome: leveledUp=%v xp=%d", out.LeveledUp, out.State.Progress.XP)
	}
	if !entities.Contains(out.State.Progress.CompletedLessons, "l1") {
		t.Fatal("lesson not completed after pass")
	}
	if _, ok := store.Get(1); ok {
		t.Fatal("quiz session should be dropped after submit")
	}
}

func TestQuizStartNotFound(t *testing.T) {
	ctx := context.Background()
	env, quiz, _ := newQuizEnv(t)

	if _, err := quiz.Start(ctx, 1, "c1", "l1", ""); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("empty id: want=%v got=%v", ErrQuizNotFound, err)
	}

	env.api.quizErr = errNotFound
	if _, err := quiz.Start(ctx, 1, "c1", "l1", "q9"); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("404: want=%v got=%v", ErrQuizNotFound, err)
	}

	if _, err := quiz.Next(1); !errors.Is(err, ErrNoActiveQuiz) {
		t.Fatalf("no attempt: want=%v got=%v", ErrNoActiveQuiz, err)
	}
}
