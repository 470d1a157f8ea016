package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/investnyou-bot/internal/apiclient"
	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/state"
)

// Award is the outcome of an action that earns experience.
type Award struct {
	XPEarned  int
	LeveledUp bool
	Badge     *entities.Badge
	State     *state.AppState
}

// ProgressService keeps local progress in step with the backend.
type ProgressService struct {
	api      ProgressAPI
	auth     *AuthService
	sessions *state.Manager
	logger   *zap.Logger
}

func NewProgressService(api ProgressAPI, auth *AuthService, sessions *state.Manager, logger *zap.Logger) *ProgressService {
	return &ProgressService{
		api:      api,
		auth:     auth,
		sessions: sessions,
		logger:   logger,
	}
}

// Sync replaces local progress with the backend copy.
func (s *ProgressService) Sync(ctx context.Context, chatID int64) (*state.AppState, error) {
	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, err
	}

	remote, err := s.api.GetProgress(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}

	st, err := s.sessions.Update(ctx, chatID, func(st *state.AppState) error {
		st.ApplyRemoteProgress(toProgress(remote))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("progress synced",
		zap.Int64("chat_id", chatID),
		zap.Int("xp", st.Progress.XP),
		zap.Int("level", st.Progress.Level),
	)

	return st, nil
}

func toProgress(r *apiclient.RemoteProgress) entities.Progress {
	return entities.Progress{
		Level:            r.Level,
		XP:               r.XP,
		Streak:           r.Streak,
		Badges:           r.Badges,
		CompletedFacts:   r.CompletedFacts,
		CompletedLessons: r.CompletedLessons,
	}
}

// CompleteFact marks a fact read. The backend allows one fact per day.
func (s *ProgressService) CompleteFact(ctx context.Context, chatID int64, factID entities.ID) (*Award, error) {
	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, err
	}

	resp, err := s.api.CompleteFact(ctx, token, factID)
	if err != nil {
		switch {
		case apiclient.MessageContains(err, "one fact per day"):
			return nil, ErrOneFactPerDay
		case apiclient.MessageContains(err, "already completed"):
			if _, uerr := s.sessions.Update(ctx, chatID, func(st *state.AppState) error {
				st.CompleteFact(factID)
				return nil
			}); uerr != nil {
				return nil, uerr
			}
			return nil, ErrAlreadyCompleted
		}
		return nil, fmt.Errorf("complete fact: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}

	return s.award(ctx, chatID, resp, func(st *state.AppState) {
		st.CompleteFact(factID)
	})
}

// CompleteLesson marks a lesson done. A lesson completed earlier is marked
// locally and reported as ErrAlreadyCompleted.
func (s *ProgressService) CompleteLesson(ctx context.Context, chatID int64, lessonID entities.ID) (*Award, error) {
	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, err
	}

	resp, err := s.api.CompleteLesson(ctx, token, lessonID)
	if err != nil {
		if apiclient.MessageContains(err, "already completed") {
			if _, uerr := s.sessions.Update(ctx, chatID, func(st *state.AppState) error {
				st.CompleteLesson(lessonID)
				return nil
			}); uerr != nil {
				return nil, uerr
			}
			return nil, ErrAlreadyCompleted
		}
		return nil, fmt.Errorf("complete lesson: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}

	return s.award(ctx, chatID, resp, func(st *state.AppState) {
		st.CompleteLesson(lessonID)
	})
}

// AddXP awards experience on the backend and mirrors it locally.
func (s *ProgressService) AddXP(ctx context.Context, chatID int64, amount int) (*Award, error) {
	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, err
	}

	resp, err := s.api.AddXP(ctx, token, amount)
	if err != nil {
		return nil, fmt.Errorf("add xp: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}
	if resp.XPEarned == 0 {
		resp.XPEarned = amount
	}

	return s.award(ctx, chatID, resp, nil)
}

// AddBadge unlocks a badge. Owned badges are not sent again.
func (s *ProgressService) AddBadge(ctx context.Context, chatID int64, badge entities.Badge) (bool, error) {
	st, err := s.sessions.Load(ctx, chatID)
	if err != nil {
		return false, err
	}
	if st.Progress.HasBadge(badge) {
		return false, nil
	}

	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return false, err
	}
	if err := s.api.AddBadge(ctx, token, badge); err != nil {
		return false, fmt.Errorf("add badge: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}

	added := false
	_, err = s.sessions.Update(ctx, chatID, func(st *state.AppState) error {
		added = st.AddBadge(badge)
		return nil
	})
	return added, err
}

// RecoverXP restores progress from the backup copy when it holds more XP.
func (s *ProgressService) RecoverXP(ctx context.Context, chatID int64) (bool, *state.AppState, error) {
	recovered, st, err := s.sessions.RecoverXP(ctx, chatID)
	if err != nil {
		return false, nil, fmt.Errorf("recover xp: %w", err)
	}
	if recovered {
		s.logger.Info("xp recovered from backup",
			zap.Int64("chat_id", chatID),
			zap.Int("xp", st.Progress.XP),
		)
	}
	return recovered, st, nil
}

func (s *ProgressService) award(ctx context.Context, chatID int64, resp *entities.XPUpdate, mark func(st *state.AppState)) (*Award, error) {
	a := &Award{XPEarned: resp.XPEarned, Badge: resp.BadgeUnlocked}

	st, err := s.sessions.Update(ctx, chatID, func(st *state.AppState) error {
		if mark != nil {
			mark(st)
		}
		a.LeveledUp = st.ApplyXPUpdate(resp)
		return nil
	})
	if err != nil {
		return nil, err
	}
	a.State = st

	if a.LeveledUp {
		s.logger.Info("level up",
			zap.Int64("chat_id", chatID),
			zap.Int("level", st.Progress.Level),
		)
	}

	return a, nil
}

// IsSessionError reports whether err means the chat must log in again.
func IsSessionError(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrSessionExpired)
}
