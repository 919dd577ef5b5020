package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/embld/interviewflow/pkg/domain"
)

// Store implements ports.SessionStore on SQLite.
type Store struct {
	db *sql.DB
}

// NewStore wraps a database opened with Open.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save upserts the session.
func (s *Store) Save(ctx context.Context, session domain.Session) error {
	state := string(session.State)
	if state == "" {
		state = "{}"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, owner_id, agent_type, title, current_node, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			agent_type = excluded.agent_type,
			title = excluded.title,
			current_node = excluded.current_node,
			state = excluded.state,
			updated_at = excluded.updated_at`,
		session.ID, session.OwnerID, session.AgentType, session.Title, string(session.CurrentNode), state,
		formatTime(session.CreatedAt), formatTime(session.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, id string) (domain.Session, error) {
	var (
		sess                 domain.Session
		node, state          string
		createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, agent_type, title, current_node, state, created_at, updated_at
		FROM sessions WHERE id = ?`, id).
		Scan(&sess.ID, &sess.OwnerID, &sess.AgentType, &sess.Title, &node, &state, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to load session %s: %w", id, err)
	}

	sess.CurrentNode = domain.NodeID(node)
	sess.State = json.RawMessage(state)
	if sess.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Session{}, err
	}
	if sess.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM sessions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse stored time %q: %w", s, err)
	}
	return t, nil
}
