package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Binding represents a gesture-to-navigation binding stored in the database.
type Binding struct {
	ID        string
	Gesture   string
	Target    string
	Phrase    string
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BindingRepository provides CRUD operations for bindings.
type BindingRepository struct {
	db *sql.DB
}

// Bindings returns the binding repository for this store.
func (s *Store) Bindings() *BindingRepository {
	return &BindingRepository{db: s.db}
}

// Create inserts a new binding into the database.
func (r *BindingRepository) Create(b *Binding) error {
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO bindings (id, gesture, target, phrase, enabled, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Gesture, b.Target, b.Phrase, b.Enabled, b.CreatedAt, b.UpdatedAt,
	)
	return err
}

// GetByID retrieves a binding by its ID.
func (r *BindingRepository) GetByID(id string) (*Binding, error) {
	return r.scanOne(r.db.QueryRow(
		`SELECT id, gesture, target, phrase, enabled, created_at, updated_at
		 FROM bindings WHERE id = ?`,
		id,
	))
}

// GetByGesture retrieves a binding by its gesture kind.
func (r *BindingRepository) GetByGesture(gesture string) (*Binding, error) {
	return r.scanOne(r.db.QueryRow(
		`SELECT id, gesture, target, phrase, enabled, created_at, updated_at
		 FROM bindings WHERE gesture = ?`,
		gesture,
	))
}

func (r *BindingRepository) scanOne(row *sql.Row) (*Binding, error) {
	b := &Binding{}
	var enabled int

	err := row.Scan(&b.ID, &b.Gesture, &b.Target, &b.Phrase, &enabled, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	b.Enabled = enabled != 0
	return b, nil
}

// List retrieves all bindings from the database.
func (r *BindingRepository) List() ([]*Binding, error) {
	rows, err := r.db.Query(
		`SELECT id, gesture, target, phrase, enabled, created_at, updated_at
		 FROM bindings ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bindings []*Binding
	for rows.Next() {
		b := &Binding{}
		var enabled int

		err := rows.Scan(&b.ID, &b.Gesture, &b.Target, &b.Phrase, &enabled, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, err
		}

		b.Enabled = enabled != 0
		bindings = append(bindings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bindings, nil
}

// Update updates an existing binding in the database.
func (r *BindingRepository) Update(b *Binding) error {
	enabled := 0
	if b.Enabled {
		enabled = 1
	}
	b.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE bindings SET gesture = ?, target = ?, phrase = ?, enabled = ?, updated_at = ?
		 WHERE id = ?`,
		b.Gesture, b.Target, b.Phrase, enabled, b.UpdatedAt, b.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a binding from the database by its ID.
func (r *BindingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM bindings WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// defaultBindings are the accessibility menu actions seeded on first run.
// Swipe up/left/right are auxiliary gestures left unbound.
var defaultBindings = []Binding{
	{Gesture: "single_tap", Target: "/crops", Phrase: "Opening crop management", Enabled: true},
	{Gesture: "double_tap", Target: "/weather", Phrase: "Opening weather forecast", Enabled: true},
	{Gesture: "triple_tap", Target: "/schemes", Phrase: "Opening government schemes", Enabled: true},
	{Gesture: "quad_tap", Target: "/market", Phrase: "Opening market prices", Enabled: true},
	{Gesture: "swipe_down", Target: "/assistant", Phrase: "Opening farming assistant", Enabled: true},
	{Gesture: "two_finger_drag_down", Target: "/help", Phrase: "Repeating navigation instructions", Enabled: true},
}

// SeedDefaults inserts the default accessibility bindings if the table is
// empty. Existing bindings are never touched.
func (r *BindingRepository) SeedDefaults() error {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM bindings`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, b := range defaultBindings {
		b.ID = uuid.New().String()
		if err := r.Create(&b); err != nil {
			return err
		}
	}

	return nil
}
