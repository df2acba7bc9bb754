package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/conorfennell/examlog/internal/domain"
)

// examFields are the user-entered columns of exam_papers in display order.
var examFields = func() []string {
	fields := []string{"year", "completion_date", "paper_name"}
	for _, s := range domain.Subjects {
		fields = append(fields, s.Key+"_total", s.Key+"_correct")
	}
	return append(fields, "total_correct", "total_questions", "score")
}()

var (
	examColumns = "id, " + strings.Join(examFields, ", ") + ", created_at"

	insertExamPaper = fmt.Sprintf(`INSERT INTO exam_papers (%s, created_at) VALUES (:%s, :created_at)`,
		strings.Join(examFields, ", "), strings.Join(examFields, ", :"))

	updateExamPaper = func() string {
		sets := make([]string, len(examFields))
		for i, f := range examFields {
			sets[i] = f + " = :" + f
		}
		return `UPDATE exam_papers SET ` + strings.Join(sets, ", ") + ` WHERE id = :id`
	}()
)

// AddExamPaper inserts an exam score sheet and returns its ID.
func (db *DB) AddExamPaper(p *domain.ExamPaper) (int64, error) {
	p.CreatedAt = db.now().UTC()
	res, err := db.conn.NamedExec(insertExamPaper, p)
	if err != nil {
		return 0, fmt.Errorf("failed to insert exam paper %q: %w", p.PaperName, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for exam paper %q: %w", p.PaperName, err)
	}
	p.ID = id
	return id, nil
}

// UpdateExamPaper replaces every editable field of the exam paper with p.ID.
func (db *DB) UpdateExamPaper(p *domain.ExamPaper) error {
	if _, err := db.conn.NamedExec(updateExamPaper, p); err != nil {
		return fmt.Errorf("failed to update exam paper %d: %w", p.ID, err)
	}
	return nil
}

// DeleteExamPaper removes an exam paper by ID. Unknown IDs are ignored.
func (db *DB) DeleteExamPaper(id int64) error {
	if _, err := db.conn.Exec(`DELETE FROM exam_papers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete exam paper %d: %w", id, err)
	}
	return nil
}

// ExamPaper retrieves an exam paper by ID. It returns nil, nil when there is none.
func (db *DB) ExamPaper(id int64) (*domain.ExamPaper, error) {
	var p domain.ExamPaper
	err := db.conn.Get(&p, `SELECT `+examColumns+` FROM exam_papers WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find exam paper %d: %w", id, err)
	}
	return &p, nil
}

// ListExamPapers returns every exam paper, most recently created first.
func (db *DB) ListExamPapers() ([]domain.ExamPaper, error) {
	var papers []domain.ExamPaper
	err := db.conn.Select(&papers, `SELECT `+examColumns+` FROM exam_papers ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all exam papers: %w", err)
	}
	return papers, nil
}
