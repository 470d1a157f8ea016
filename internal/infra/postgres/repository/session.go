package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/investnyou-bot/internal/infra/postgres"
	"github.com/aliskhannn/investnyou-bot/internal/state"
)

// SessionRepository persists chat sessions. State and backup are stored as
// JSONB documents.
type SessionRepository struct {
	db postgres.DBTX
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db postgres.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

// Get returns the session of a chat or state.ErrSessionNotFound.
func (r *SessionRepository) Get(ctx context.Context, chatID int64) (*state.Session, error) {
	query := `
		SELECT chat_id, token, state, backup, updated_at
		FROM chat_sessions
		WHERE chat_id = $1
	`

	sess, err := scanSession(r.db.QueryRow(ctx, query, chatID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, state.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	return sess, nil
}

// Save upserts the session.
func (r *SessionRepository) Save(ctx context.Context, sess *state.Session) error {
	query := `
		INSERT INTO chat_sessions (chat_id, token, state, backup, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (chat_id) DO UPDATE
		SET token = EXCLUDED.token,
		    state = EXCLUDED.state,
		    backup = EXCLUDED.backup,
		    updated_at = EXCLUDED.updated_at
	`

	cur, err := marshalState(sess.State)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	backup, err := marshalState(sess.Backup)
	if err != nil {
		return fmt.Errorf("marshal backup: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, sess.ChatID, sess.Token, cur, backup, sess.UpdatedAt); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

// Delete removes the session of a chat.
func (r *SessionRepository) Delete(ctx context.Context, chatID int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM chat_sessions WHERE chat_id = $1`, chatID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return state.ErrSessionNotFound
	}

	return nil
}

// ListAuthenticated pages through sessions that hold a token.
func (r *SessionRepository) ListAuthenticated(ctx context.Context, limit, offset int) ([]*state.Session, error) {
	query := `
		SELECT chat_id, token, state, backup, updated_at
		FROM chat_sessions
		WHERE token <> ''
		ORDER BY chat_id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*state.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return sessions, nil
}

// Ping checks the connection.
func (r *SessionRepository) Ping(ctx context.Context) error {
	var one int
	if err := r.db.QueryRow(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func scanSession(row pgx.Row) (*state.Session, error) {
	var (
		sess        state.Session
		cur, backup []byte
	)
	if err := row.Scan(&sess.ChatID, &sess.Token, &cur, &backup, &sess.UpdatedAt); err != nil {
		return nil, err
	}

	var err error
	if sess.State, err = unmarshalState(cur); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	if sess.Backup, err = unmarshalState(backup); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}

	return &sess, nil
}

func marshalState(st *state.AppState) ([]byte, error) {
	if st == nil {
		return nil, nil
	}
	return json.Marshal(st)
}

func unmarshalState(raw []byte) (*state.AppState, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var st state.AppState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, err
	}
	return &st, nil
}
