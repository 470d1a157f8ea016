package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/state"
)

var ErrInvalidLearningMode = errors.New("invalid learning mode")

// SettingsService edits the chat's preferences.
type SettingsService struct {
	sessions *state.Manager
}

func NewSettingsService(sessions *state.Manager) *SettingsService {
	return &SettingsService{sessions: sessions}
}

func (s *SettingsService) Get(ctx context.Context, chatID int64) (entities.Preferences, error) {
	st, err := s.sessions.Load(ctx, chatID)
	if err != nil {
		return entities.Preferences{}, err
	}
	return st.Preferences, nil
}

func (s *SettingsService) update(ctx context.Context, chatID int64, fn func(p *entities.Preferences)) (entities.Preferences, error) {
	st, err := s.sessions.Update(ctx, chatID, func(st *state.AppState) error {
		p := st.Preferences
		fn(&p)
		st.UpdatePreferences(p)
		return nil
	})
	if err != nil {
		return entities.Preferences{}, err
	}
	return st.Preferences, nil
}

func (s *SettingsService) SetLearningMode(ctx context.Context, chatID int64, mode string) (entities.Preferences, error) {
	if mode != entities.LearningModeFacts && mode != entities.LearningModeCourses {
		return entities.Preferences{}, ErrInvalidLearningMode
	}
	return s.update(ctx, chatID, func(p *entities.Preferences) { p.LearningMode = mode })
}

// SetDailyFactTime accepts "H:MM" or "HH:MM".
func (s *SettingsService) SetDailyFactTime(ctx context.Context, chatID int64, clock string) (entities.Preferences, error) {
	hhmm, err := entities.ParseClock(clock)
	if err != nil {
		return entities.Preferences{}, err
	}
	return s.update(ctx, chatID, func(p *entities.Preferences) { p.DailyFactTime = hhmm })
}

// SetTimezone accepts an IANA name or a UTC offset such as "UTC+3".
func (s *SettingsService) SetTimezone(ctx context.Context, chatID int64, tz string) (entities.Preferences, error) {
	if _, err := entities.LoadTimezone(tz); err != nil {
		return entities.Preferences{}, fmt.Errorf("set timezone: %w", err)
	}
	return s.update(ctx, chatID, func(p *entities.Preferences) { p.Timezone = tz })
}

func (s *SettingsService) ToggleNotifications(ctx context.Context, chatID int64) (entities.Preferences, error) {
	return s.update(ctx, chatID, func(p *entities.Preferences) { p.Notifications = !p.Notifications })
}
