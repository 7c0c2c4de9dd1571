package store

import (
	"fmt"
	"time"
)

// TryCooldown reports whether key is outside its cooldown window at now and,
// if so, starts a new window. Check and update happen in one statement so
// two racing invocations cannot both win.
func (s *Store) TryCooldown(key string, window time.Duration, now time.Time) (bool, error) {
	ms := now.UnixMilli()
	res, err := s.db.Exec(`INSERT INTO cooldowns (key, last_sent) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET last_sent = excluded.last_sent
		WHERE excluded.last_sent - cooldowns.last_sent >= ?`, key, ms, window.Milliseconds())
	if err != nil {
		return false, fmt.Errorf("update cooldown: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update cooldown: %w", err)
	}
	return n > 0, nil
}
