package service

import (
	"context"
	"fmt"

	"github.com/aliskhannn/investnyou-bot/internal/apiclient"
	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/state"
)

type UserAPI interface {
	Profile(ctx context.Context, token string) (*entities.User, error)
	UpdateProfile(ctx context.Context, token string, p apiclient.ProfileUpdate) (*entities.User, error)
	UserStats(ctx context.Context, token string) (*entities.UserStats, error)
	DeleteAccount(ctx context.Context, token string) error
}

// UserService reads and edits the backend profile.
type UserService struct {
	api      UserAPI
	auth     *AuthService
	sessions *state.Manager
}

func NewUserService(api UserAPI, auth *AuthService, sessions *state.Manager) *UserService {
	return &UserService{api: api, auth: auth, sessions: sessions}
}

// Profile fetches the profile and stores it as the session user.
func (s *UserService) Profile(ctx context.Context, chatID int64) (*entities.User, error) {
	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, err
	}

	user, err := s.api.Profile(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}

	if err := s.setUser(ctx, chatID, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Rename(ctx context.Context, chatID int64, name string) (*entities.User, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, err
	}

	user, err := s.api.UpdateProfile(ctx, token, apiclient.ProfileUpdate{Name: name})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}

	if err := s.setUser(ctx, chatID, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Stats(ctx context.Context, chatID int64) (*entities.UserStats, error) {
	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return nil, err
	}

	stats, err := s.api.UserStats(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}
	return stats, nil
}

// DeleteAccount removes the backend account and logs the chat out.
func (s *UserService) DeleteAccount(ctx context.Context, chatID int64) error {
	token, err := s.auth.Require(ctx, chatID)
	if err != nil {
		return err
	}

	if err := s.api.DeleteAccount(ctx, token); err != nil {
		return fmt.Errorf("delete account: %w", s.auth.checkUnauthorized(ctx, chatID, err))
	}
	return s.auth.Logout(ctx, chatID)
}

func (s *UserService) setUser(ctx context.Context, chatID int64, user *entities.User) error {
	u := *user
	_, err := s.sessions.Update(ctx, chatID, func(st *state.AppState) error {
		st.SetUser(&u)
		return nil
	})
	return err
}
