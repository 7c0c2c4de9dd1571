package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PutCache stores value under key.
func (s *Store) PutCache(key, value string, now time.Time) error {
	_, err := s.db.Exec(`INSERT INTO cache (key, value, stored_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, stored_at = excluded.stored_at`,
		key, value, now.UnixMilli())
	if err != nil {
		return fmt.Errorf("put cache: %w", err)
	}
	return nil
}

// GetCache returns the value for key if it was stored less than ttl before now.
func (s *Store) GetCache(key string, ttl time.Duration, now time.Time) (string, bool, error) {
	var value string
	var stored int64
	err := s.db.QueryRow("SELECT value, stored_at FROM cache WHERE key = ?", key).Scan(&value, &stored)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get cache: %w", err)
	}
	if now.Sub(time.UnixMilli(stored)) >= ttl {
		return "", false, nil
	}
	return value, true, nil
}
