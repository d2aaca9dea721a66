package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/akarsh/parla/internal/session"
)

// sessionRepo implements session.Repo with one JSON snapshot row per id.
type sessionRepo struct {
	db *sql.DB
}

// SessionRepo returns a session.Repo backed by this store.
func (s *Store) SessionRepo() session.Repo {
	return &sessionRepo{db: s.db}
}

func (r *sessionRepo) Load(ctx context.Context, id string) (*session.Session, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM sessions WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var s session.Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("decode session snapshot: %w", err)
	}
	return &s, nil
}

func (r *sessionRepo) Save(ctx context.Context, id string, s *session.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		id, string(data), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// DeleteSession removes the stored snapshot for id. Used by `parla reset`.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
