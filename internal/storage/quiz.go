package storage

import (
	"sync"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
)

// QuizStorage keeps the in-progress quiz of each chat in memory.
type QuizStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*entities.QuizSession
}

// NewQuizStorage creates a new QuizStorage.
func NewQuizStorage() *QuizStorage {
	return &QuizStorage{
		sessions: make(map[int64]*entities.QuizSession),
	}
}

// Store replaces the quiz session of a chat.
func (s *QuizStorage) Store(chatID int64, session *entities.QuizSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = session
}

// Get returns the quiz session of a chat.
func (s *QuizStorage) Get(chatID int64) (*entities.QuizSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[chatID]
	return session, ok
}

// Delete drops the quiz session of a chat.
func (s *QuizStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}
