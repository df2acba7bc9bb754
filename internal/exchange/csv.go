package exchange

import (
	"encoding/csv"
	"fmt"
	"io"
)

type recordSource interface {
	next() ([]string, error)
}

func writeCSV(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

type csvSource struct {
	r *csv.Reader
}

// readCSV consumes the header row and returns the remaining records lazily.
func readCSV(r io.Reader) (recordSource, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // Column count is checked per row on conversion
	if _, err := cr.Read(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	return &csvSource{r: cr}, nil
}

func (s *csvSource) next() ([]string, error) {
	return s.r.Read()
}
