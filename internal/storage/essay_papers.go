package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/conorfennell/examlog/internal/domain"
)

const essayColumns = `id, year, province, question_type, source, date, content, completion_status, entered_on, created_at`

// AddEssayPaper inserts an essay assignment and returns its ID.
func (db *DB) AddEssayPaper(e *domain.EssayPaper) (int64, error) {
	e.CreatedAt = db.now().UTC()
	res, err := db.conn.NamedExec(`
		INSERT INTO essay_papers (year, province, question_type, source, date, content, completion_status, entered_on, created_at)
		VALUES (:year, :province, :question_type, :source, :date, :content, :completion_status, :entered_on, :created_at)
	`, e)
	if err != nil {
		return 0, fmt.Errorf("failed to insert essay paper: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for essay paper: %w", err)
	}
	e.ID = id
	return id, nil
}

// UpdateEssayPaper replaces every editable field of the essay paper with e.ID.
func (db *DB) UpdateEssayPaper(e *domain.EssayPaper) error {
	_, err := db.conn.NamedExec(`
		UPDATE essay_papers
		SET year = :year, province = :province, question_type = :question_type, source = :source,
		    date = :date, content = :content, completion_status = :completion_status, entered_on = :entered_on
		WHERE id = :id
	`, e)
	if err != nil {
		return fmt.Errorf("failed to update essay paper %d: %w", e.ID, err)
	}
	return nil
}

// DeleteEssayPaper removes an essay paper by ID. Unknown IDs are ignored.
func (db *DB) DeleteEssayPaper(id int64) error {
	if _, err := db.conn.Exec(`DELETE FROM essay_papers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete essay paper %d: %w", id, err)
	}
	return nil
}

// EssayPaper retrieves an essay paper by ID. It returns nil, nil when there is none.
func (db *DB) EssayPaper(id int64) (*domain.EssayPaper, error) {
	var e domain.EssayPaper
	err := db.conn.Get(&e, `SELECT `+essayColumns+` FROM essay_papers WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find essay paper %d: %w", id, err)
	}
	return &e, nil
}

// ListEssayPapers returns every essay paper, latest entry date first.
func (db *DB) ListEssayPapers() ([]domain.EssayPaper, error) {
	var essays []domain.EssayPaper
	err := db.conn.Select(&essays, `SELECT `+essayColumns+` FROM essay_papers ORDER BY entered_on DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all essay papers: %w", err)
	}
	return essays, nil
}
