// Package state holds the per-session client state and keeps it persisted.
package state

import (
	"time"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/domain/level"
)

// AppState is everything the client remembers about one session.
type AppState struct {
	User        *entities.User       `json:"user"`
	IsOnboarded bool                 `json:"isOnboarded"`
	Preferences entities.Preferences `json:"preferences"`
	Progress    entities.Progress    `json:"progress"`
	DailyFact   *entities.Fact       `json:"dailyFact"`
	Portfolio   entities.Portfolio   `json:"portfolio"`
	LastSaved   time.Time            `json:"lastSaved"`
}

// New returns the initial state of a fresh session.
func New() *AppState {
	return &AppState{
		Preferences: entities.DefaultPreferences(),
		Progress:    entities.Progress{Level: 1},
		Portfolio:   entities.NewPortfolio(),
	}
}

// Clone returns a deep copy of s.
func (s *AppState) Clone() *AppState {
	if s == nil {
		return nil
	}
	c := *s
	if s.User != nil {
		u := *s.User
		c.User = &u
	}
	if s.DailyFact != nil {
		f := *s.DailyFact
		c.DailyFact = &f
	}
	c.Progress.Badges = append([]entities.Badge(nil), s.Progress.Badges...)
	c.Progress.CompletedFacts = append([]entities.ID(nil), s.Progress.CompletedFacts...)
	c.Progress.CompletedLessons = append([]entities.ID(nil), s.Progress.CompletedLessons...)
	c.Portfolio.Holdings = append([]entities.Holding(nil), s.Portfolio.Holdings...)
	c.Portfolio.Transactions = append([]entities.Transaction(nil), s.Portfolio.Transactions...)
	return &c
}

func (s *AppState) SetUser(u *entities.User) {
	s.User = u
	if u != nil && u.LearningMode != "" {
		s.Preferences.LearningMode = u.LearningMode
	}
}

func (s *AppState) SetOnboarded(v bool) {
	s.IsOnboarded = v
}

// UpdatePreferences replaces the non-empty fields of p.
func (s *AppState) UpdatePreferences(p entities.Preferences) {
	if p.LearningMode != "" {
		s.Preferences.LearningMode = p.LearningMode
	}
	if p.DailyFactTime != "" {
		s.Preferences.DailyFactTime = p.DailyFactTime
	}
	if p.Timezone != "" {
		s.Preferences.Timezone = p.Timezone
	}
	s.Preferences.Notifications = p.Notifications
}

// UpdateProgress replaces progress. Level is recomputed from XP.
func (s *AppState) UpdateProgress(p entities.Progress) {
	if p.XP < 0 {
		p.XP = 0
	}
	if p.Streak < 0 {
		p.Streak = 0
	}
	p.Level = level.Calculate(p.XP)
	s.Progress = p
}

// AddXP adds amount and returns true when the level went up.
func (s *AppState) AddXP(amount int) bool {
	before := s.Progress.Level
	s.Progress.XP += amount
	if s.Progress.XP < 0 {
		s.Progress.XP = 0
	}
	s.Progress.Level = level.Calculate(s.Progress.XP)
	return s.Progress.Level > before
}

// AddBadge appends b unless it is already owned.
func (s *AppState) AddBadge(b entities.Badge) bool {
	if s.Progress.HasBadge(b) {
		return false
	}
	s.Progress.Badges = append(s.Progress.Badges, b)
	return true
}

// CompleteFact records a fact once.
func (s *AppState) CompleteFact(id entities.ID) {
	if !entities.Contains(s.Progress.CompletedFacts, id) {
		s.Progress.CompletedFacts = append(s.Progress.CompletedFacts, id)
	}
	if s.DailyFact != nil && s.DailyFact.ID == id {
		s.DailyFact.IsCompleted = true
		s.DailyFact.CanCompleteToday = false
	}
}

// CompleteLesson records a lesson once.
func (s *AppState) CompleteLesson(id entities.ID) {
	if !entities.Contains(s.Progress.CompletedLessons, id) {
		s.Progress.CompletedLessons = append(s.Progress.CompletedLessons, id)
	}
}

func (s *AppState) UpdateStreak(streak int) {
	if streak < 0 {
		streak = 0
	}
	s.Progress.Streak = streak
}

func (s *AppState) SetDailyFact(f *entities.Fact) {
	s.DailyFact = f
}

func (s *AppState) UpdatePortfolio(p entities.Portfolio) {
	s.Portfolio = p
}

// ApplyRemoteProgress replaces progress with the backend copy. Completed
// facts and lessons are merged so local completions are not lost.
func (s *AppState) ApplyRemoteProgress(remote entities.Progress) {
	for _, id := range s.Progress.CompletedFacts {
		if !entities.Contains(remote.CompletedFacts, id) {
			remote.CompletedFacts = append(remote.CompletedFacts, id)
		}
	}
	for _, id := range s.Progress.CompletedLessons {
		if !entities.Contains(remote.CompletedLessons, id) {
			remote.CompletedLessons = append(remote.CompletedLessons, id)
		}
	}
	if remote.Badges == nil {
		remote.Badges = s.Progress.Badges
	}
	s.UpdateProgress(remote)
}

// ApplyXPUpdate mirrors a backend award: xp, streak and badge.
func (s *AppState) ApplyXPUpdate(u *entities.XPUpdate) (leveledUp bool) {
	if u == nil {
		return false
	}
	if u.XPEarned > 0 {
		leveledUp = s.AddXP(u.XPEarned)
	}
	if u.NewStreak > 0 {
		s.UpdateStreak(u.NewStreak)
	}
	if u.BadgeUnlocked != nil {
		s.AddBadge(*u.BadgeUnlocked)
	}
	return leveledUp
}

// PortfolioUnlocked reports whether enough lessons are completed to trade.
func (s *AppState) PortfolioUnlocked() bool {
	return len(s.Progress.CompletedLessons) >= entities.LessonsToUnlockPortfolio
}

// LevelProgress returns the progress inside the current level band.
func (s *AppState) LevelProgress() level.Progress {
	return level.CalculateProgress(s.Progress.XP, s.Progress.Level)
}
