package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/investnyou-bot/internal/apiclient"
	"github.com/aliskhannn/investnyou-bot/internal/auth"
	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
	"github.com/aliskhannn/investnyou-bot/internal/state"
)

// AuthService signs chats in and out and guards authenticated operations.
type AuthService struct {
	api      AuthAPI
	sessions *state.Manager
	lister   SessionLister
	logger   *zap.Logger
	now      func() time.Time
}

func NewAuthService(api AuthAPI, sessions *state.Manager, lister SessionLister, logger *zap.Logger) *AuthService {
	return &AuthService{
		api:      api,
		sessions: sessions,
		lister:   lister,
		logger:   logger,
		now:      time.Now,
	}
}

// Guest creates a guest account with the given profile.
func (s *AuthService) Guest(ctx context.Context, chatID int64, profile apiclient.GuestRequest) (*state.AppState, error) {
	resp, err := s.api.Guest(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("guest login: %w", err)
	}
	return s.signIn(ctx, chatID, resp)
}

func (s *AuthService) Login(ctx context.Context, chatID int64, email, password string) (*state.AppState, error) {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return s.signIn(ctx, chatID, resp)
}

func (s *AuthService) Register(ctx context.Context, chatID int64, req apiclient.RegisterRequest) (*state.AppState, error) {
	resp, err := s.api.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return s.signIn(ctx, chatID, resp)
}

func (s *AuthService) signIn(ctx context.Context, chatID int64, resp *apiclient.AuthResponse) (*state.AppState, error) {
	if err := s.sessions.SetToken(ctx, chatID, resp.Token); err != nil {
		return nil, err
	}

	user := resp.User
	st, err := s.sessions.Update(ctx, chatID, func(st *state.AppState) error {
		st.SetUser(&user)
		st.SetOnboarded(true)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("signed in",
		zap.Int64("chat_id", chatID),
		zap.String("user_id", user.ID.String()),
		zap.Bool("guest", user.IsGuest),
	)

	return st, nil
}

// Verify asks the backend whether the stored token is still accepted.
// A rejected token logs the chat out.
func (s *AuthService) Verify(ctx context.Context, chatID int64) (bool, error) {
	token, err := s.sessions.Token(ctx, chatID)
	if err != nil {
		return false, err
	}
	if token == "" {
		return false, nil
	}

	resp, err := s.api.Verify(ctx, token)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			return false, s.Logout(ctx, chatID)
		}
		return false, fmt.Errorf("verify token: %w", err)
	}
	if !resp.Valid {
		return false, s.Logout(ctx, chatID)
	}

	if resp.User != nil {
		user := *resp.User
		if _, err := s.sessions.Update(ctx, chatID, func(st *state.AppState) error {
			st.SetUser(&user)
			return nil
		}); err != nil {
			return true, err
		}
	}

	return true, nil
}

// Logout clears the token and the main state. The backup survives.
func (s *AuthService) Logout(ctx context.Context, chatID int64) error {
	if err := s.sessions.Logout(ctx, chatID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.logger.Info("logged out", zap.Int64("chat_id", chatID))
	return nil
}

// Require returns a usable token. A locally expired token logs the chat out
// and yields ErrSessionExpired.
func (s *AuthService) Require(ctx context.Context, chatID int64) (string, error) {
	token, err := s.sessions.Token(ctx, chatID)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", ErrNotAuthenticated
	}
	if auth.IsExpired(token, s.now()) {
		if err := s.Logout(ctx, chatID); err != nil {
			return "", err
		}
		return "", ErrSessionExpired
	}
	return token, nil
}

// IsAuthenticated reports whether the chat holds a usable token.
func (s *AuthService) IsAuthenticated(ctx context.Context, chatID int64) bool {
	token, err := s.sessions.Token(ctx, chatID)
	if err != nil {
		return false
	}
	return auth.IsAuthenticated(token, s.now())
}

// User returns the signed in user, nil when logged out.
func (s *AuthService) User(ctx context.Context, chatID int64) (*entities.User, error) {
	st, err := s.sessions.Load(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return st.User, nil
}

// Start re-validates all sessions every five minutes until ctx is done.
func (s *AuthService) Start(ctx context.Context) {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc("@every 5m", func() {
		n, err := s.ValidateSessions(ctx)
		if err != nil {
			s.logger.Error("failed to validate sessions", zap.Error(err))
			return
		}
		if n > 0 {
			s.logger.Info("expired sessions logged out", zap.Int("count", n))
		}
	})
	if err != nil {
		s.logger.Error("failed to add cron job", zap.Error(err))
		return
	}

	c.Start()
	s.logger.Info("session validator started")

	<-ctx.Done()

	c.Stop()
	s.logger.Info("session validator stopped")
}

// ValidateSessions logs out every session whose token expired or is
// rejected by the backend. It returns how many were logged out.
func (s *AuthService) ValidateSessions(ctx context.Context) (int, error) {
	const batchSize = 100
	offset := 0
	total := 0

	for {
		sessions, err := s.lister.ListAuthenticated(ctx, batchSize, offset)
		if err != nil {
			return total, fmt.Errorf("list sessions: %w", err)
		}
		if len(sessions) == 0 {
			break
		}

		loggedOut := s.validateBatch(ctx, sessions)
		total += loggedOut

		if len(sessions) < batchSize {
			break
		}
		// Logged out sessions drop out of the listing.
		offset += batchSize - loggedOut
	}

	return total, nil
}

func (s *AuthService) validateBatch(ctx context.Context, sessions []*state.Session) int {
	const maxConcurrent = 10
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex
	loggedOut := 0

	for _, sess := range sessions {
		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			valid, err := s.validate(ctx, sess.Token)
			if err != nil {
				s.logger.Warn("session validation failed",
					zap.Int64("chat_id", sess.ChatID),
					zap.Error(err))
				return
			}
			if valid {
				return
			}

			if err := s.Logout(ctx, sess.ChatID); err != nil {
				s.logger.Error("failed to log out session",
					zap.Int64("chat_id", sess.ChatID),
					zap.Error(err))
				return
			}

			mu.Lock()
			loggedOut++
			mu.Unlock()
		}()
	}

	wg.Wait()
	return loggedOut
}

func (s *AuthService) validate(ctx context.Context, token string) (bool, error) {
	if auth.IsExpired(token, s.now()) {
		return false, nil
	}

	resp, err := s.api.Verify(ctx, token)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			return false, nil
		}
		if errors.Is(err, apiclient.ErrNetwork) {
			// Backend unreachable, keep the session.
			return true, nil
		}
		return false, err
	}

	return resp.Valid, nil
}

// checkUnauthorized logs the chat out when err is a 401 and turns it into
// ErrSessionExpired. Other errors pass through.
func (s *AuthService) checkUnauthorized(ctx context.Context, chatID int64, err error) error {
	if err == nil || !apiclient.IsUnauthorized(err) {
		return err
	}
	if lerr := s.Logout(ctx, chatID); lerr != nil {
		s.logger.Error("failed to log out", zap.Int64("chat_id", chatID), zap.Error(lerr))
	}
	return fmt.Errorf("%w: %v", ErrSessionExpired, err)
}
