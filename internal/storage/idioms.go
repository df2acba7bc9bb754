package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/conorfennell/examlog/internal/domain"
)

const idiomColumns = `id, category, name, meaning, context, collocation, example, created_at, entered_on`

// AddIdiom inserts an idiom and returns its ID. A name that is already taken
// yields an error wrapping ErrDuplicateIdiom and leaves the table unchanged.
func (db *DB) AddIdiom(i *domain.Idiom) (int64, error) {
	i.CreatedAt = db.now().UTC()
	res, err := db.conn.NamedExec(`
		INSERT INTO idioms (category, name, meaning, context, collocation, example, created_at, entered_on)
		VALUES (:category, :name, :meaning, :context, :collocation, :example, :created_at, :entered_on)
	`, i)
	if err != nil {
		if isUniqueConstraintErr(err) {
			return 0, fmt.Errorf("failed to insert idiom %q: %w", i.Name, ErrDuplicateIdiom)
		}
		return 0, fmt.Errorf("failed to insert idiom %q: %w", i.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for idiom %q: %w", i.Name, err)
	}
	i.ID = id
	return id, nil
}

// UpdateIdiom replaces every editable field of the idiom with i.ID.
func (db *DB) UpdateIdiom(i *domain.Idiom) error {
	_, err := db.conn.NamedExec(`
		UPDATE idioms
		SET category = :category, name = :name, meaning = :meaning, context = :context,
		    collocation = :collocation, example = :example, entered_on = :entered_on
		WHERE id = :id
	`, i)
	if err != nil {
		if isUniqueConstraintErr(err) {
			return fmt.Errorf("failed to update idiom %d: %w", i.ID, ErrDuplicateIdiom)
		}
		return fmt.Errorf("failed to update idiom %d: %w", i.ID, err)
	}
	return nil
}

// DeleteIdiom removes an idiom by ID. Unknown IDs are ignored.
func (db *DB) DeleteIdiom(id int64) error {
	if _, err := db.conn.Exec(`DELETE FROM idioms WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete idiom %d: %w", id, err)
	}
	return nil
}

// IdiomExists reports whether an idiom with exactly this name is stored.
func (db *DB) IdiomExists(name string) (bool, error) {
	var count int
	if err := db.conn.Get(&count, `SELECT COUNT(*) FROM idioms WHERE name = ?`, name); err != nil {
		return false, fmt.Errorf("failed to check idiom %q: %w", name, err)
	}
	return count > 0, nil
}

// Idiom retrieves an idiom by ID. It returns nil, nil when there is none.
func (db *DB) Idiom(id int64) (*domain.Idiom, error) {
	var i domain.Idiom
	err := db.conn.Get(&i, `SELECT `+idiomColumns+` FROM idioms WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find idiom %d: %w", id, err)
	}
	return &i, nil
}

// ListIdioms returns every idiom, most recently created first.
func (db *DB) ListIdioms() ([]domain.Idiom, error) {
	var idioms []domain.Idiom
	err := db.conn.Select(&idioms, `SELECT `+idiomColumns+` FROM idioms ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all idioms: %w", err)
	}
	return idioms, nil
}
