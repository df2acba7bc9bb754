package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/conorfennell/examlog/internal/domain"
)

const questionColumns = `id, module, source, content, answer, analysis, question_type, review_count, created_at, entered_on`

// AddQuestion inserts a question, stamps its creation time and returns the new ID.
// The record's ID and CreatedAt are updated in place.
func (db *DB) AddQuestion(q *domain.Question) (int64, error) {
	q.CreatedAt = db.now().UTC()
	res, err := db.conn.NamedExec(`
		INSERT INTO questions (module, source, content, answer, analysis, question_type, review_count, created_at, entered_on)
		VALUES (:module, :source, :content, :answer, :analysis, :question_type, :review_count, :created_at, :entered_on)
	`, q)
	if err != nil {
		return 0, fmt.Errorf("failed to insert question: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for question: %w", err)
	}
	q.ID = id
	return id, nil
}

// UpdateQuestion replaces every editable field of the question with q.ID.
// The review count and creation time are left alone.
func (db *DB) UpdateQuestion(q *domain.Question) error {
	_, err := db.conn.NamedExec(`
		UPDATE questions
		SET module = :module, source = :source, content = :content, answer = :answer,
		    analysis = :analysis, question_type = :question_type, entered_on = :entered_on
		WHERE id = :id
	`, q)
	if err != nil {
		return fmt.Errorf("failed to update question %d: %w", q.ID, err)
	}
	return nil
}

// IncrementReview records one more review of a question.
func (db *DB) IncrementReview(id int64) error {
	_, err := db.conn.Exec(`UPDATE questions SET review_count = review_count + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to increment review count for question %d: %w", id, err)
	}
	return nil
}

// DeleteQuestion removes a question by ID. Unknown IDs are ignored.
func (db *DB) DeleteQuestion(id int64) error {
	if _, err := db.conn.Exec(`DELETE FROM questions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete question %d: %w", id, err)
	}
	return nil
}

// Question retrieves a question by ID. It returns nil, nil when there is none.
func (db *DB) Question(id int64) (*domain.Question, error) {
	var q domain.Question
	err := db.conn.Get(&q, `SELECT `+questionColumns+` FROM questions WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find question %d: %w", id, err)
	}
	return &q, nil
}

// ListQuestions returns every question, most recently created first.
func (db *DB) ListQuestions() ([]domain.Question, error) {
	var questions []domain.Question
	err := db.conn.Select(&questions, `SELECT `+questionColumns+` FROM questions ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all questions: %w", err)
	}
	return questions, nil
}

// QuestionSources returns the distinct sources questions were taken from.
func (db *DB) QuestionSources() ([]string, error) {
	var sources []string
	if err := db.conn.Select(&sources, `SELECT DISTINCT source FROM questions ORDER BY source`); err != nil {
		return nil, fmt.Errorf("failed to get question sources: %w", err)
	}
	return sources, nil
}
