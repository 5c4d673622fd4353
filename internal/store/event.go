package store

import (
	"database/sql"
	"time"
)

// Event is one journal entry for a recognized or blocked gesture.
type Event struct {
	ID        int64
	Gesture   string
	Source    string // "touch" or "keyboard"
	Blocked   bool
	CreatedAt time.Time
}

// EventRepository provides append and query operations for the gesture
// event journal.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Append records a gesture event.
func (r *EventRepository) Append(gesture, source string, blocked bool) error {
	_, err := r.db.Exec(
		`INSERT INTO events (gesture, source, blocked, created_at) VALUES (?, ?, ?, ?)`,
		gesture, source, blocked, time.Now(),
	)
	return err
}

// ListRecent returns the most recent events, newest first, capped at limit.
func (r *EventRepository) ListRecent(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, gesture, source, blocked, created_at
		 FROM events ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		var blocked int

		err := rows.Scan(&e.ID, &e.Gesture, &e.Source, &blocked, &e.CreatedAt)
		if err != nil {
			return nil, err
		}

		e.Blocked = blocked != 0
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// DeleteOlderThan prunes journal entries created before the cutoff and
// returns how many were removed.
func (r *EventRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
