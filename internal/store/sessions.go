package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// SetSessionTitle remembers the title for a session id. An empty title keeps
// whatever was stored before.
func (s *Store) SetSessionTitle(id, title string) error {
	if title == "" {
		_, err := s.db.Exec(`INSERT INTO sessions (id) VALUES (?) ON CONFLICT(id) DO NOTHING`, id)
		if err != nil {
			return fmt.Errorf("touch session: %w", err)
		}
		return nil
	}
	_, err := s.db.Exec(`INSERT INTO sessions (id, title) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, updated_at = CURRENT_TIMESTAMP`, id, title)
	if err != nil {
		return fmt.Errorf("set session title: %w", err)
	}
	return nil
}

// SessionTitle returns the stored title, or "" if the session is unknown.
func (s *Store) SessionTitle(id string) (string, error) {
	var title string
	err := s.db.QueryRow("SELECT title FROM sessions WHERE id = ?", id).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get session title: %w", err)
	}
	return title, nil
}

// DeleteSession forgets a session.
func (s *Store) DeleteSession(id string) error {
	if _, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
