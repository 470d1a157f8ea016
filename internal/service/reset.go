package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/investnyou-bot/internal/state"
)

// ChatScoped is any per-chat in-memory store that can forget a chat.
type ChatScoped interface {
	Delete(chatID int64)
}

// ResetService wipes everything the bot keeps about a chat.
type ResetService struct {
	sessions *state.Manager
	stores   []ChatScoped
	logger   *zap.Logger
}

func NewResetService(sessions *state.Manager, logger *zap.Logger, stores ...ChatScoped) *ResetService {
	return &ResetService{
		sessions: sessions,
		stores:   stores,
		logger:   logger,
	}
}

// ResetChat removes the session, its backup and all in-memory state.
func (s *ResetService) ResetChat(ctx context.Context, chatID int64) error {
	if err := s.sessions.Reset(ctx, chatID); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	for _, st := range s.stores {
		st.Delete(chatID)
	}

	s.logger.Info("chat reset", zap.Int64("chat_id", chatID))
	return nil
}
