// Package exchange moves whole tables in and out of CSV files and XLSX
// workbooks. Columns are mapped by position: the header row is written on
// export and skipped on import, and the ID column is ignored on import so
// every imported row becomes a new record.
package exchange

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/conorfennell/examlog/internal/domain"
	"github.com/conorfennell/examlog/internal/review"
)

// Store is the part of the record repository the bridge needs.
type Store interface {
	ListQuestions() ([]domain.Question, error)
	AddQuestion(*domain.Question) (int64, error)
	ListIdioms() ([]domain.Idiom, error)
	AddIdiom(*domain.Idiom) (int64, error)
	ListExamPapers() ([]domain.ExamPaper, error)
	AddExamPaper(*domain.ExamPaper) (int64, error)
	ListEssayPapers() ([]domain.EssayPaper, error)
	AddEssayPaper(*domain.EssayPaper) (int64, error)
}

// Format is a file format the bridge can read and write.
type Format int

const (
	CSV Format = iota
	XLSX
)

// FormatFromPath picks the format from a file extension. Anything other
// than .xlsx is treated as CSV.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return XLSX
	}
	return CSV
}

// ParseFormat maps "csv" and "xlsx" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "csv":
		return CSV, nil
	case "xlsx":
		return XLSX, nil
	}
	return CSV, fmt.Errorf("unknown format %q", s)
}

// Ext is the file extension for the format, including the dot.
func (f Format) Ext() string {
	if f == XLSX {
		return ".xlsx"
	}
	return ".csv"
}

// ContentType is the MIME type for the format.
func (f Format) ContentType() string {
	if f == XLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// RowError reports the data row (1-based, header excluded) an import stopped at.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

var errShortRow = errors.New("not enough columns")

// Table binds one entity to its column layout and repository calls.
type Table struct {
	Name   string
	Title  string
	Header []string

	rows func(Store) ([]review.Row, error)
	add  func(Store, []string) error
}

func newTable[T any](
	name, title string,
	header []string,
	list func(Store) ([]T, error),
	add func(Store, *T) (int64, error),
	id func(*T) int64,
	encode func(*T) []string,
	decode func([]string) (*T, error),
) Table {
	return Table{
		Name:   name,
		Title:  title,
		Header: header,
		rows: func(s Store) ([]review.Row, error) {
			records, err := list(s)
			if err != nil {
				return nil, err
			}
			rows := make([]review.Row, len(records))
			for i := range records {
				rows[i] = review.Row{ID: id(&records[i]), Cells: encode(&records[i])}
			}
			return rows, nil
		},
		add: func(s Store, rec []string) error {
			if len(rec) < len(header) {
				return fmt.Errorf("%w: expected %d, got %d", errShortRow, len(header), len(rec))
			}
			record, err := decode(rec)
			if err != nil {
				return err
			}
			_, err = add(s, record)
			return err
		},
	}
}

// Rows lists every record of the table as display rows, in repository order.
func (t Table) Rows(s Store) ([]review.Row, error) {
	rows, err := t.rows(s)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", t.Name, err)
	}
	return rows, nil
}

// Export writes the header and every record of the table to w.
func (t Table) Export(s Store, w io.Writer, f Format) error {
	rows, err := t.Rows(s)
	if err != nil {
		return err
	}
	records := make([][]string, 0, len(rows)+1)
	records = append(records, t.Header)
	for _, r := range rows {
		records = append(records, r.Cells)
	}
	if f == XLSX {
		return writeXLSX(w, records)
	}
	return writeCSV(w, records)
}

// Import adds one record per data row of r and returns how many were added.
// Blank rows are skipped. It stops at the first row that cannot be
// converted or stored; rows added before it stay in the store.
func (t Table) Import(s Store, r io.Reader, f Format) (int, error) {
	var rows recordSource
	var err error
	if f == XLSX {
		rows, err = readXLSX(r, len(t.Header))
	} else {
		rows, err = readCSV(r)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s import: %w", t.Name, err)
	}

	added := 0
	for n := 1; ; n++ {
		rec, err := rows.next()
		if err == io.EOF {
			return added, nil
		}
		if err != nil {
			return added, &RowError{Row: n, Err: err}
		}
		if len(rec) == 0 {
			continue
		}
		if err := t.add(s, rec); err != nil {
			return added, &RowError{Row: n, Err: err}
		}
		added++
	}
}

// Tables lists every entity in screen order.
var Tables = []Table{Questions, Idioms, ExamPapers, EssayPapers}

// Lookup finds a table by name.
func Lookup(name string) (Table, bool) {
	for _, t := range Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// Names returns the table names, for usage messages.
func Names() []string {
	names := make([]string, len(Tables))
	for i, t := range Tables {
		names[i] = t.Name
	}
	return names
}
