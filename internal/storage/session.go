package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/aliskhannn/investnyou-bot/internal/state"
)

// SessionStorage is an in-memory session store used when no database is configured.
type SessionStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*state.Session
}

func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		sessions: make(map[int64]*state.Session),
	}
}

func (s *SessionStorage) Get(_ context.Context, chatID int64) (*state.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		return nil, state.ErrSessionNotFound
	}
	return copySession(sess), nil
}

func (s *SessionStorage) Save(_ context.Context, sess *state.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ChatID] = copySession(sess)
	return nil
}

func (s *SessionStorage) Delete(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[chatID]; !ok {
		return state.ErrSessionNotFound
	}
	delete(s.sessions, chatID)
	return nil
}

// ListAuthenticated pages through sessions that hold a token, ordered by chat id.
func (s *SessionStorage) ListAuthenticated(_ context.Context, limit, offset int) ([]*state.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.sessions))
	for id, sess := range s.sessions {
		if sess.Token != "" {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if offset >= len(ids) {
		return nil, nil
	}
	ids = ids[offset:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}

	out := make([]*state.Session, 0, len(ids))
	for _, id := range ids {
		out = append(out, copySession(s.sessions[id]))
	}
	return out, nil
}

// Ping always succeeds.
func (s *SessionStorage) Ping(context.Context) error {
	return nil
}

func copySession(sess *state.Session) *state.Session {
	c := *sess
	c.State = sess.State.Clone()
	c.Backup = sess.Backup.Clone()
	return &c
}
