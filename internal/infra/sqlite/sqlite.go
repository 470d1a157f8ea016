// Package sqlite is a single-file session store for local runs.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/aliskhannn/investnyou-bot/internal/state"
)

const schema = `
CREATE TABLE IF NOT EXISTS chat_sessions (
	chat_id    INTEGER PRIMARY KEY,
	token      TEXT NOT NULL DEFAULT '',
	state      TEXT,
	backup     TEXT,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

type sessionRow struct {
	ChatID    int64          `db:"chat_id"`
	Token     string         `db:"token"`
	State     sql.NullString `db:"state"`
	Backup    sql.NullString `db:"backup"`
	UpdatedAt time.Time      `db:"updated_at"`
}

// SessionStore keeps chat sessions in a SQLite database.
type SessionStore struct {
	db *sqlx.DB
}

// Open connects to the database at path and creates the schema.
// Use ":memory:" for a throwaway database.
func Open(path string) (*SessionStore, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SessionStore{db: db}, nil
}

func (s *SessionStore) Close() error {
	return s.db.Close()
}

func (s *SessionStore) Get(ctx context.Context, chatID int64) (*state.Session, error) {
	var row sessionRow
	err := s.db.GetContext(ctx, &row,
		`SELECT chat_id, token, state, backup, updated_at FROM chat_sessions WHERE chat_id = ?`, chatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, state.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	return row.session()
}

func (s *SessionStore) Save(ctx context.Context, sess *state.Session) error {
	cur, err := encode(sess.State)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	backup, err := encode(sess.Backup)
	if err != nil {
		return fmt.Errorf("marshal backup: %w", err)
	}

	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO chat_sessions (chat_id, token, state, backup, updated_at)
		VALUES (:chat_id, :token, :state, :backup, :updated_at)
		ON CONFLICT (chat_id) DO UPDATE
		SET token = excluded.token,
		    state = excluded.state,
		    backup = excluded.backup,
		    updated_at = excluded.updated_at`,
		sessionRow{
			ChatID:    sess.ChatID,
			Token:     sess.Token,
			State:     cur,
			Backup:    backup,
			UpdatedAt: sess.UpdatedAt,
		})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

func (s *SessionStore) Delete(ctx context.Context, chatID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE chat_id = ?`, chatID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return state.ErrSessionNotFound
	}

	return nil
}

// ListAuthenticated pages through sessions that hold a token.
func (s *SessionStore) ListAuthenticated(ctx context.Context, limit, offset int) ([]*state.Session, error) {
	var rows []sessionRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT chat_id, token, state, backup, updated_at
		FROM chat_sessions
		WHERE token <> ''
		ORDER BY chat_id
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]*state.Session, 0, len(rows))
	for _, row := range rows {
		sess, err := row.session()
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	return sessions, nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (r sessionRow) session() (*state.Session, error) {
	sess := &state.Session{
		ChatID:    r.ChatID,
		Token:     r.Token,
		UpdatedAt: r.UpdatedAt,
	}

	var err error
	if sess.State, err = decode(r.State); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	if sess.Backup, err = decode(r.Backup); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}

	return sess, nil
}

func encode(st *state.AppState) (sql.NullString, error) {
	if st == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(st)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decode(raw sql.NullString) (*state.AppState, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var st state.AppState
	if err := json.Unmarshal([]byte(raw.String), &st); err != nil {
		return nil, err
	}
	return &st, nil
}
