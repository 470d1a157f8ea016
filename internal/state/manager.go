package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is the persisted record of one chat: the bearer token, the main
// state and a backup copy that survives logout.
type Session struct {
	ChatID    int64
	Token     string
	State     *AppState
	Backup    *AppState
	UpdatedAt time.Time
}

// Store persists sessions. Get returns ErrSessionNotFound for unknown chats.
type Store interface {
	Get(ctx context.Context, chatID int64) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, chatID int64) error
}

// Manager loads and saves session state. Every change is written through
// to the store, both as the main copy and as the backup.
type Manager struct {
	store Store
	now   func() time.Time

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewManager(store Store) *Manager {
	return &Manager{
		store: store,
		now:   time.Now,
		locks: make(map[int64]*sync.Mutex),
	}
}

func (m *Manager) lock(chatID int64) func() {
	m.mu.Lock()
	l, ok := m.locks[chatID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[chatID] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// session returns the stored session or a new empty one.
func (m *Manager) session(ctx context.Context, chatID int64) (*Session, error) {
	sess, err := m.store.Get(ctx, chatID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return &Session{ChatID: chatID}, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// current returns the main state, rehydrated from the backup when missing.
func current(sess *Session) *AppState {
	if sess.State != nil {
		return sess.State
	}
	if sess.Backup != nil {
		return sess.Backup.Clone()
	}
	return New()
}

// Load returns the state of a chat.
func (m *Manager) Load(ctx context.Context, chatID int64) (*AppState, error) {
	sess, err := m.session(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return current(sess), nil
}

// Token returns the bearer token of a chat, empty when logged out.
func (m *Manager) Token(ctx context.Context, chatID int64) (string, error) {
	sess, err := m.session(ctx, chatID)
	if err != nil {
		return "", err
	}
	return sess.Token, nil
}

// Update applies fn to the chat state and persists the result. If fn returns
// an error nothing is written.
func (m *Manager) Update(ctx context.Context, chatID int64, fn func(s *AppState) error) (*AppState, error) {
	unlock := m.lock(chatID)
	defer unlock()

	sess, err := m.session(ctx, chatID)
	if err != nil {
		return nil, err
	}

	st := current(sess).Clone()
	if err := fn(st); err != nil {
		return nil, err
	}

	if err := m.save(ctx, sess, st); err != nil {
		return nil, err
	}
	return st, nil
}

// save stamps and stores st as the main copy. The backup follows the main
// copy unless the change lowers XP, so RecoverXP can undo a lossy sync.
func (m *Manager) save(ctx context.Context, sess *Session, st *AppState) error {
	now := m.now().UTC()
	st.LastSaved = now

	sess.State = st
	if sess.Backup == nil || st.Progress.XP >= sess.Backup.Progress.XP {
		sess.Backup = st.Clone()
	}
	sess.UpdatedAt = now

	if err := m.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// SetToken stores the bearer token for a chat.
func (m *Manager) SetToken(ctx context.Context, chatID int64, token string) error {
	unlock := m.lock(chatID)
	defer unlock()

	sess, err := m.session(ctx, chatID)
	if err != nil {
		return err
	}

	sess.Token = token
	sess.UpdatedAt = m.now().UTC()
	if err := m.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Logout clears the token and the main state. The backup is kept so the
// next login can be rehydrated.
func (m *Manager) Logout(ctx context.Context, chatID int64) error {
	unlock := m.lock(chatID)
	defer unlock()

	sess, err := m.session(ctx, chatID)
	if err != nil {
		return err
	}

	if sess.State != nil && sess.Backup == nil {
		sess.Backup = sess.State.Clone()
	}
	sess.Token = ""
	sess.State = nil
	sess.UpdatedAt = m.now().UTC()

	if err := m.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// RecoverXP restores progress from the backup when it holds more XP than
// the main copy. It reports whether anything was restored.
func (m *Manager) RecoverXP(ctx context.Context, chatID int64) (bool, *AppState, error) {
	unlock := m.lock(chatID)
	defer unlock()

	sess, err := m.session(ctx, chatID)
	if err != nil {
		return false, nil, err
	}

	st := current(sess).Clone()
	if sess.Backup == nil || sess.Backup.Progress.XP <= st.Progress.XP {
		return false, st, nil
	}

	backup := sess.Backup.Clone()
	st.UpdateProgress(backup.Progress)

	if err := m.save(ctx, sess, st); err != nil {
		return false, nil, err
	}
	return true, st, nil
}

// Reset removes every trace of the chat.
func (m *Manager) Reset(ctx context.Context, chatID int64) error {
	unlock := m.lock(chatID)
	defer unlock()

	if err := m.store.Delete(ctx, chatID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
