package state

import (
	"testing"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/domain/level"
)

func TestNewDefaults(t *testing.T) {
	s := New()

	if s.Progress.Level != 1 || s.Progress.XP != 0 {
		t.Fatalf("unexpected progress: %+v", s.Progress)
	}
	if !s.Portfolio.Balance.Equal(entities.StartingBalance) {
		t.Fatalf("balance: want=%s got=%s", entities.StartingBalance, s.Portfolio.Balance)
	}
	if s.Preferences.LearningMode != entities.LearningModeFacts || !s.Preferences.Notifications || s.Preferences.DailyFactTime != "08:00" {
		t.Fatalf("unexpected preferences: %+v", s.Preferences)
	}
}

func TestLevelAlwaysDerivedFromXP(t *testing.T) {
	s := New()

	for _, add := range []int{10, 40, 60, 500, 2000, -5000} {
		s.AddXP(add)
		if s.Progress.Level != level.Calculate(s.Progress.XP) {
			t.Fatalf("after AddXP(%d): level=%d xp=%d", add, s.Progress.Level, s.Progress.XP)
		}
		if s.Progress.XP < 0 {
			t.Fatalf("xp went negative: %d", s.Progress.XP)
		}
	}

	s.UpdateProgress(entities.Progress{XP: 320, Level: 1})
	if s.Progress.Level != 6 {
		t.Fatalf("UpdateProgress must recompute level: want=6 got=%d", s.Progress.Level)
	}
}

func TestAddXPReportsLevelUp(t *testing.T) {
	s := New()
	if s.AddXP(49) {
		t.Fatal("49 xp should not level up")
	}
	if !s.AddXP(1) {
		t.Fatal("50 xp should level up")
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	s := New()
	s.SetDailyFact(&entities.Fact{ID: "f1", CanCompleteToday: true})

	s.CompleteFact("f1")
	s.CompleteFact("f1")
	s.CompleteLesson("l1")
	s.CompleteLesson("l1")

	if len(s.Progress.CompletedFacts) != 1 || len(s.Progress.CompletedLessons) != 1 {
		t.Fatalf("duplicates recorded: %+v", s.Progress)
	}
	if !s.DailyFact.IsCompleted || s.DailyFact.CanCompleteToday {
		t.Fatalf("daily fact not marked: %+v", s.DailyFact)
	}
}

func TestApplyXPUpdate(t *testing.T) {
	s := New()
	up := s.ApplyXPUpdate(&entities.XPUpdate{
		XPEarned:      60,
		NewStreak:     4,
		BadgeUnlocked: &entities.Badge{ID: "b1", Name: "First Steps"},
	})

	if !up {
		t.Fatal("expected level up")
	}
	if s.Progress.Streak != 4 || len(s.Progress.Badges) != 1 {
		t.Fatalf("unexpected progress: %+v", s.Progress)
	}
	if s.AddBadge(entities.Badge{ID: "b1", Name: "First Steps"}) {
		t.Fatal("badge should not be added twice")
	}
}

func TestPortfolioUnlocked(t *testing.T) {
	s := New()
	s.CompleteLesson("1")
	if s.PortfolioUnlocked() {
		t.Fatal("one lesson should not unlock the portfolio")
	}
	s.CompleteLesson("2")
	if !s.PortfolioUnlocked() {
		t.Fatal("two lessons should unlock the portfolio")
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := New()
	s.SetUser(&entities.User{ID: "u", Name: "A"})
	s.CompleteLesson("1")

	c := s.Clone()
	c.User.Name = "B"
	c.CompleteLesson("2")

	if s.User.Name != "A" || len(s.Progress.CompletedLessons) != 1 {
		t.Fatalf("clone shares memory with the source state: %+v", s)
	}
}

func TestApplyRemoteProgressMergesCompletions(t *testing.T) {
	s := New()
	s.CompleteLesson("local")
	s.AddBadge(entities.Badge{ID: "b"})

	s.ApplyRemoteProgress(entities.Progress{XP: 210, Level: 2, CompletedLessons: []entities.ID{"remote"}})

	if s.Progress.Level != 5 {
		t.Fatalf("level: want=5 got=%d", s.Progress.Level)
	}
	if !entities.Contains(s.Progress.CompletedLessons, "local") || !entities.Contains(s.Progress.CompletedLessons, "remote") {
		t.Fatalf("lessons not merged: %v", s.Progress.CompletedLessons)
	}
	if len(s.Progress.Badges) != 1 {
		t.Fatalf("badges dropped: %v", s.Progress.Badges)
	}
}
